package parser

// Seconds per time unit, for units written as a separate identifier after a
// bound or the song duration.
var unitSeconds = map[string]float64{
	"h":  3600,
	"m":  60,
	"s":  1,
	"ms": 1e-3,
	"ns": 1e-9,
}

// hzSuffix may follow a frequency expression. Hz is the native unit.
const hzSuffix = "hz"
