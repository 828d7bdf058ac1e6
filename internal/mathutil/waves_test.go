package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/go-audio-synthlang/internal/testutil"
)

// TestFrac tests the fractional part for positive and negative inputs.
func TestFrac(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		expected float64
	}{
		{"Zero", 0, 0},
		{"Positive", 2.25, 0.25},
		{"Integer", 3, 0},
		{"Negative", -0.25, 0.75},
		{"Negative integer", -2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Frac(tt.x), 1e-15)
		})
	}
}

// TestPosMod tests that the result takes the sign of the divisor.
func TestPosMod(t *testing.T) {
	assert.InDelta(t, 0.5, PosMod(2.5, 1), 1e-15)
	assert.InDelta(t, 0.5, PosMod(-0.5, 1), 1e-15)
	assert.InDelta(t, 0.0, PosMod(-1, 1), 1e-15)
	assert.InDelta(t, -0.5, PosMod(0.5, -1), 1e-15)
	assert.InDelta(t, 0.25, PosMod(0.25, math.Inf(1)), 0)
}

// TestSine tests the sine generator at quarter periods.
func TestSine(t *testing.T) {
	assert.InDelta(t, 0.0, Sine(0, 1, 0), 1e-15)
	assert.InDelta(t, 1.0, Sine(0.25, 1, 0), 1e-15)
	assert.InDelta(t, 0.0, Sine(0.5, 1, 0), 1e-15)
	assert.InDelta(t, -1.0, Sine(0.75, 1, 0), 1e-15)
	assert.InDelta(t, 1.0, Sine(0, 1, math.Pi/2), 1e-15)
}

// TestSaw tests the ramp shape over one period.
func TestSaw(t *testing.T) {
	assert.InDelta(t, -1.0, Saw(0, 1, 0), 1e-15)
	assert.InDelta(t, 0.0, Saw(0.5, 1, 0), 1e-15)
	assert.InDelta(t, 0.5, Saw(0.75, 1, 0), 1e-15)
	assert.InDelta(t, -1.0, Saw(1, 1, 0), 1e-15)
	assert.InDelta(t, 0.0, Saw(0, 1, 0.5), 1e-15)
}

// TestSquare tests both half periods and phase shifting.
func TestSquare(t *testing.T) {
	assert.InDelta(t, 1.0, Square(0, 2, 0), 0)
	assert.InDelta(t, 1.0, Square(0.2, 2, 0), 0)
	assert.InDelta(t, -1.0, Square(0.3, 2, 0), 0)
	assert.InDelta(t, 1.0, Square(0.5, 2, 0), 0)
	assert.InDelta(t, -1.0, Square(0, 2, 0.25), 0)
}

// TestTriangle tests the corners of the triangle.
func TestTriangle(t *testing.T) {
	assert.InDelta(t, 1.0, Triangle(0, 1, 0), 1e-15)
	assert.InDelta(t, 0.0, Triangle(0.25, 1, 0), 1e-15)
	assert.InDelta(t, -1.0, Triangle(0.5, 1, 0), 1e-15)
	assert.InDelta(t, 0.0, Triangle(0.75, 1, 0), 1e-15)
}

// TestWaves_Bounded tests that every generator stays within [-1, 1].
func TestWaves_Bounded(t *testing.T) {
	gens := map[string]func(t, freq, phase float64) float64{
		"sine":     Sine,
		"saw":      Saw,
		"square":   Square,
		"triangle": Triangle,
	}

	for name, gen := range gens {
		out := make([]float64, 1000)
		for i := range out {
			out[i] = gen(float64(i)/1000, 13.7, 0.1)
		}
		testutil.AssertNoNaNOrInf(t, out, name)
		testutil.AssertAllInRange(t, out, -1, 1, name)
	}
}
