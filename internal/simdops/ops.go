// Package simdops wraps the SIMD kernels used by the renderer for mixing and
// quantization.
package simdops

import "github.com/tphakala/simd/f64"

// Sum adds the elements of a.
func Sum(a []float64) float64 {
	return f64.Sum(a)
}

// Scale writes a[i]*s to dst[i]. dst must be at least as long as a.
func Scale(dst, a []float64, s float64) {
	f64.Scale(dst, a, s)
}
