package mathutil

import "math"

const (
	twoPi = 2 * math.Pi

	halfDivisor = 2.0 // Division by 2

	sawScale       = 2.0 // Maps [0, 1) onto [0, 2)
	triangleOffset = 0.5 // Centers |2x-1| around zero
	triangleScale  = 2.0 // Restores the ±1 range after centering
)
