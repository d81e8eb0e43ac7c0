// Package gen produces the static input layers consumed by the dune
// simulation: bedrock hardness masks and vegetation cover. The simulation
// core stays agnostic to how these fields are made; any generator satisfying
// FieldGenerator can be injected.
package gen

import (
	"math"

	"dunesim/internal/core"

	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// FieldGenerator fills a scalar field over a world-space box.
type FieldGenerator interface {
	Generate(nx, ny int, box core.Box2) (*core.ScalarField2D, error)
}

// PerlinHardness produces a banded bedrock resistance mask in [0, 1]:
// sinusoidal strata warped by Perlin noise. Sustained abrasion through the
// weak bands carves yardang grooves aligned with them.
type PerlinHardness struct {
	Seed int64

	// Frequency of the base strata, per meter. Zero selects the default.
	Frequency float64
	// Warp is the noise phase distortion applied to the strata.
	Warp float64
	// NoiseScale is the spatial frequency of the warping noise.
	NoiseScale float64
}

// Generate fills the hardness field.
func (g PerlinHardness) Generate(nx, ny int, box core.Box2) (*core.ScalarField2D, error) {
	freq := g.Frequency
	if freq == 0 {
		freq = 0.08
	}
	warp := g.Warp
	if warp == 0 {
		warp = 15.36
	}
	scale := g.NoiseScale
	if scale == 0 {
		scale = 0.05
	}

	field, err := core.NewScalarField2D(nx, ny, box, 0)
	if err != nil {
		return nil, err
	}
	noise := perlin.NewPerlin(2, 2, 3, g.Seed)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			p := field.WorldPosition(i, j)
			n := noise.Noise2D(scale*float64(p.X()), scale*float64(p.Y()))
			h := (math.Sin(float64(p.Y())*freq+warp*n) + 1) / 2
			field.Set(i, j, float32(h))
		}
	}
	return field, nil
}

// SimplexVegetation produces a sparse vegetation cover mask: fractal simplex
// noise thresholded into patches of constant density, the pattern used to
// grow nabkha dunes around plant clusters.
type SimplexVegetation struct {
	Seed int64

	// Frequency of the base octave, per cell. Zero selects the default.
	Frequency float64
	// Threshold above which a cell counts as vegetated.
	Threshold float64
	// Density assigned to vegetated cells, in [0, 1].
	Density float64
}

// Generate fills the vegetation field.
func (g SimplexVegetation) Generate(nx, ny int, box core.Box2) (*core.ScalarField2D, error) {
	freq := g.Frequency
	if freq == 0 {
		freq = 0.016
	}
	threshold := g.Threshold
	if threshold == 0 {
		threshold = 0.45
	}
	density := g.Density
	if density == 0 {
		density = 0.85
	}

	field, err := core.NewScalarField2D(nx, ny, box, 0)
	if err != nil {
		return nil, err
	}
	noise := opensimplex.NewNormalized(g.Seed)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v := fbm2(noise, float64(i)*freq, float64(j)*freq, 3)
			if v > threshold {
				field.Set(i, j, float32(density))
			}
		}
	}
	return field, nil
}

// fbm2 sums octaves of normalized simplex noise, halving amplitude and
// doubling frequency each octave, rescaled back into [0, 1].
func fbm2(noise opensimplex.Noise, x, y float64, octaves int) float64 {
	sum := 0.0
	norm := 0.0
	amp := 1.0
	for o := 0; o < octaves; o++ {
		sum += amp * noise.Eval2(x, y)
		norm += amp
		amp /= 2
		x *= 2
		y *= 2
	}
	return sum / norm
}
