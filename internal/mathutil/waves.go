// Package mathutil provides the periodic generators behind the song
// waveforms, plus the small numeric helpers they share.
package mathutil

import "math"

// Frac returns the fractional part of x, x - floor(x). The result is in
// [0, 1) for finite x, including negative x.
func Frac(x float64) float64 {
	return x - math.Floor(x)
}

// PosMod returns x mod m with the sign of m, so the result for positive m
// is in [0, m).
func PosMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r != 0 && (r < 0) != (m < 0) {
		r += m
	}
	return r
}

// Sine evaluates sin(t*freq*2π + phase).
func Sine(t, freq, phase float64) float64 {
	return math.Sin(t*freq*twoPi + phase)
}

// Saw rises linearly from -1 to 1 once per period.
func Saw(t, freq, phase float64) float64 {
	return Frac(t*freq+phase)*sawScale - 1
}

// Square is +1 for the first half of each period and -1 for the second.
// Phase is added to t before wrapping, in the same units as t.
func Square(t, freq, phase float64) float64 {
	period := 1 / freq
	if PosMod(t+phase, period) < period/halfDivisor {
		return 1
	}
	return -1
}

// Triangle peaks at +1 at period boundaries and reaches -1 mid period.
func Triangle(t, freq, phase float64) float64 {
	return (math.Abs(Frac(t*freq+phase)*sawScale-1) - triangleOffset) * triangleScale
}
