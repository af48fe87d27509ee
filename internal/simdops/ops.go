// Package simdops provides the SIMD float64 kernels used for per-block
// channel interpolation.
//
// With Profile-Guided Optimization (Go 1.22+), function pointer calls in hot paths
// can be devirtualized and inlined, achieving near-zero overhead.
package simdops

import (
	"github.com/tphakala/simd/cpu"
	"github.com/tphakala/simd/f64"
)

// Ops provides SIMD-accelerated float64 operations.
type Ops struct {
	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []float64, s float64)

	// Sum returns the sum of all elements.
	Sum func(a []float64) float64
}

var ops64 = Ops{
	Scale: f64.Scale,
	Sum:   f64.Sum,
}

// Float64Ops returns the float64 SIMD operations.
func Float64Ops() *Ops {
	return &ops64
}

// Lerp computes dst[i] = left[i] + frac*delta[i].
// All slices must have equal length.
func (o *Ops) Lerp(dst, left, delta []float64, frac float64) {
	o.Scale(dst, delta, frac)
	for i := range dst {
		dst[i] += left[i]
	}
}

// Info describes the SIMD instruction set selected for this CPU.
func Info() string {
	return cpu.Info()
}
