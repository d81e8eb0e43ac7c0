package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic
// seeding. Worker goroutines each own an RNG so the hot path never contends
// on a shared source.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// NewRNGStream creates a deterministic RNG on an independent stream, so
// several workers can share a seed without replaying each other's draws.
func NewRNGStream(seed int64, stream uint64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), stream))}
}

// Uniform returns a draw from U(0,1).
func (r *RNG) Uniform() float32 {
	return r.r.Float32()
}

// Range returns a uniform draw from [lo, hi).
func (r *RNG) Range(lo, hi float32) float32 {
	return lo + (hi-lo)*r.r.Float32()
}

// IntN returns a random int in [0, n).
func (r *RNG) IntN(n int) int {
	return r.r.IntN(n)
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
