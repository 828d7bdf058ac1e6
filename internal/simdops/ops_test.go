package simdops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum(t *testing.T) {
	assert.InDelta(t, 0.0, Sum(nil), 0)
	assert.InDelta(t, 1.5, Sum([]float64{0.5, 1, -0.5, 0.5}), 1e-15)

	a := make([]float64, 37)
	for i := range a {
		a[i] = float64(i)
	}
	assert.InDelta(t, 666.0, Sum(a), 1e-12)
}

func TestScale(t *testing.T) {
	a := []float64{1, -0.5, 0.25, 0, 2}
	dst := make([]float64, len(a))
	Scale(dst, a, 4)
	assert.Equal(t, []float64{4, -2, 1, 0, 8}, dst)
}

func TestScale_InPlace(t *testing.T) {
	a := []float64{3, -6, 9}
	Scale(a, a, 1.0/3)
	assert.InDeltaSlice(t, []float64{1, -2, 3}, a, 1e-15)
}

func BenchmarkSum(b *testing.B) {
	a := make([]float64, 64)
	for i := range a {
		a[i] = float64(i) * 0.01
	}

	b.ReportAllocs()
	for b.Loop() {
		_ = Sum(a)
	}
}
