package expr

import "math"

// Operator precedence. Unary minus binds tighter than multiplication but
// looser than exponentiation, so -2^2 is -(2^2).
const (
	precAdditive       = 1
	precMultiplicative = 2
	precPower          = 3
	precNegate         = 3
	precCall           = 4
)

// Named constants available in every expression.
var constants = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"tau": 2 * math.Pi,
}

// Context variable names.
const (
	varTime      = "t"
	varChannel   = "channel"
	varChannelSh = "ch"
)

func isContextVar(name string) bool {
	return name == varTime || name == varChannel || name == varChannelSh
}
