package lexer

// Unit suffix scales. Durations are normalized to seconds, frequencies to Hz.
const (
	secondsPerSecond      = 1.0
	secondsPerMillisecond = 1e-3
	secondsPerNanosecond  = 1e-9
	secondsPerMinute      = 60.0
	secondsPerHour        = 3600.0
	hertzPerHertz         = 1.0
)
