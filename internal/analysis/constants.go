package analysis

const (
	clipThreshold     = 1.0 // Full scale
	minSpectrumLength = 4   // Smallest signal worth transforming
)
