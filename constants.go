package synthlang

// Output format limits
const (
	maxSampleRate = 768000 // Highest accepted sample rate in Hz

	bitDepth16 = 16
	bitDepth24 = 24
	bitDepth32 = 32
)
