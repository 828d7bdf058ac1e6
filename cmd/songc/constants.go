package main

const (
	// CLI defaults
	defaultRateKHz  = 44.1
	defaultBitDepth = 16
	minRequiredArgs = 2

	// Conversion constants
	kHzToHz = 1000

	// stdinName selects standard input as the song source.
	stdinName = "-"
)
