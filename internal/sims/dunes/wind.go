package dunes

import "github.com/go-gl/mathgl/mgl32"

// windEps is the magnitude below which wind is treated as calm.
const windEps = 1e-3

// windAt computes the wind direction at a cell. The base wind accelerates
// slightly over thick sand, then deflects toward the local surface contour
// (the vector orthogonal to the sediment gradient, flipped to agree with the
// wind) in proportion to the slope. This makes the wind hug dune crests.
func (w *World) windAt(i, j int) mgl32.Vec2 {
	sand := w.sediment.Get(i, j)
	dir := w.wind.Mul(1 + 0.005*sand)
	if dir.Len() < windEps {
		return mgl32.Vec2{}
	}

	g := w.sediment.Gradient(i, j)
	if g.X() == 0 && g.Y() == 0 {
		return dir
	}
	orth := mgl32.Vec2{-g.Y(), g.X()}
	if dir.Dot(orth) < 0 {
		orth = orth.Mul(-1)
	}
	slope := mgl32.Clamp(g.Len(), 0, 1)
	return lerpVec2(dir, orth.Mul(5), slope)
}

// WindVectorAt samples the wind model at fractional cell coordinates; used by
// the viewer overlay to draw the flow field.
func (w *World) WindVectorAt(x, y float64) (float64, float64) {
	i, j := int(x), int(y)
	if i < 0 || i >= w.nx || j < 0 || j >= w.ny {
		return 0, 0
	}
	v := w.windAt(i, j)
	return float64(v.X()), float64(v.Y())
}

// shadowProbability estimates the probability that a cell lies in the wind
// shadow of upwind terrain. A probe marches upwind in half-cell steps up to
// ten cells away; the height differential over the marched distance is
// mapped through a linear ramp between the shadow threshold tangents, and
// the steepest obstruction seen dominates. Calm wind casts no shadow.
func (w *World) shadowProbability(i, j int, wind mgl32.Vec2) float32 {
	if wind.Len() < windEps {
		return 0
	}

	step := wind.Normalize().Mul(0.5 * w.cellSize)
	origin := w.bedrock.WorldPosition(i, j)
	h0 := w.HeightAt(origin)
	limit := 10 * w.cellSize

	var ret float32
	probe := origin
	for {
		probe = probe.Sub(step)
		snapped := w.snapWorld(probe)
		if snapped == origin {
			// Wrapped all the way around the domain.
			break
		}
		d := origin.Sub(probe).Len()
		if d > limit {
			break
		}
		rise := w.HeightAt(snapped) - h0
		s := linearStep(rise/d, w.tanShadowMin, w.tanShadowMax)
		if s > ret {
			ret = s
		}
	}
	return ret
}

// linearStep maps t to 0 below lo, 1 above hi and a linear ramp in between.
func linearStep(t, lo, hi float32) float32 {
	if hi <= lo {
		if t >= hi {
			return 1
		}
		return 0
	}
	return mgl32.Clamp((t-lo)/(hi-lo), 0, 1)
}

func lerpVec2(a, b mgl32.Vec2, t float32) mgl32.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
