package dunes

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestWindAtCalm(t *testing.T) {
	w := testWorld(t, 16, 0, 0, mgl32.Vec2{0, 0})
	// A steep ramp must not conjure wind out of nothing.
	for j := 0; j < 16; j++ {
		for i := 0; i < 16; i++ {
			w.sediment.Set(i, j, 5*float32(i))
		}
	}
	if v := w.windAt(8, 8); v.X() != 0 || v.Y() != 0 {
		t.Fatalf("calm wind produced %v", v)
	}
}

func TestWindAtAcceleratesOverSand(t *testing.T) {
	w := testWorld(t, 16, 2, 2, mgl32.Vec2{0, 3})
	v := w.windAt(8, 8)
	want := float32(3 * (1 + 0.005*2))
	if math.Abs(float64(v.X())) > 1e-5 || math.Abs(float64(v.Y()-want)) > 1e-5 {
		t.Fatalf("flat-field wind = %v, want (0, %g)", v, want)
	}
}

func TestWindAtDeflectsAlongContour(t *testing.T) {
	w := testWorld(t, 16, 0, 0, mgl32.Vec2{0, 3})
	// Unit sediment gradient in +x; the contour direction is +-y, and the
	// full-slope deflection snaps the wind onto it at five units.
	c := w.cellSize
	for j := 0; j < 16; j++ {
		for i := 0; i < 16; i++ {
			w.sediment.Set(i, j, float32(i)*c)
		}
	}

	v := w.windAt(8, 8)
	if math.Abs(float64(v.X())) > 1e-4 || math.Abs(float64(v.Y()-5)) > 1e-4 {
		t.Fatalf("deflected wind = %v, want (0, 5)", v)
	}

	// An opposing wind picks the opposite contour direction, never a
	// reversal against itself.
	w.SetWind(mgl32.Vec2{0, -3})
	v = w.windAt(8, 8)
	if math.Abs(float64(v.X())) > 1e-4 || math.Abs(float64(v.Y()+5)) > 1e-4 {
		t.Fatalf("deflected opposing wind = %v, want (0, -5)", v)
	}
}

func TestWindVectorAtBounds(t *testing.T) {
	w := testWorld(t, 16, 2, 2, mgl32.Vec2{0, 3})
	if x, y := w.WindVectorAt(-1, 3); x != 0 || y != 0 {
		t.Fatalf("out-of-range sample = (%g, %g), want (0, 0)", x, y)
	}
	if _, y := w.WindVectorAt(8, 8); y <= 0 {
		t.Fatalf("in-range sample has no downwind component: %g", y)
	}
}

func TestShadowProbability(t *testing.T) {
	wind := mgl32.Vec2{0, 3}
	buildWall := func(h float32) *World {
		w := testWorld(t, 32, 0, 0, wind)
		for i := 0; i < 32; i++ {
			w.sediment.Set(i, 14, h)
		}
		return w
	}

	// Flat terrain casts no shadow, and neither does calm wind.
	flat := testWorld(t, 32, 0, 0, wind)
	if s := flat.shadowProbability(16, 16, wind); s != 0 {
		t.Fatalf("flat shadow = %g, want 0", s)
	}
	if s := buildWall(5).shadowProbability(16, 16, mgl32.Vec2{}); s != 0 {
		t.Fatalf("calm shadow = %g, want 0", s)
	}

	// Probability is monotone in the height of the upwind obstruction,
	// pinned to 0 below the threshold ramp and to 1 above it.
	heights := []float32{0, 0.1, 0.3, 1, 5}
	var prev float32 = -1
	for _, h := range heights {
		s := buildWall(h).shadowProbability(16, 16, wind)
		if s < prev {
			t.Fatalf("shadow not monotone: h=%g gives %g after %g", h, s, prev)
		}
		prev = s
	}
	if s := buildWall(0.1).shadowProbability(16, 16, wind); s != 0 {
		t.Errorf("sub-threshold wall shadows: %g", s)
	}
	if s := buildWall(0.3).shadowProbability(16, 16, wind); s <= 0 || s >= 1 {
		t.Errorf("mid-ramp wall shadow = %g, want in (0, 1)", s)
	}
	if s := buildWall(5).shadowProbability(16, 16, wind); s != 1 {
		t.Errorf("tall wall shadow = %g, want 1", s)
	}

	// A wall downwind of the cell does not shadow it.
	w := testWorld(t, 32, 0, 0, wind)
	for i := 0; i < 32; i++ {
		w.sediment.Set(i, 18, 5)
	}
	if s := w.shadowProbability(16, 16, wind); s != 0 {
		t.Errorf("downwind wall shadows: %g", s)
	}
}

func TestShadowProbabilityOutOfReach(t *testing.T) {
	wind := mgl32.Vec2{0, 3}
	w := testWorld(t, 32, 0, 0, wind)
	// Eleven cells upwind is past the march limit.
	for i := 0; i < 32; i++ {
		w.sediment.Set(i, 5, 50)
	}
	if s := w.shadowProbability(16, 17, wind); s != 0 {
		t.Fatalf("out-of-reach wall shadows: %g", s)
	}
}

func TestLinearStep(t *testing.T) {
	if got := linearStep(0.05, 0.08, 0.26); got != 0 {
		t.Errorf("below lo: %g", got)
	}
	if got := linearStep(0.5, 0.08, 0.26); got != 1 {
		t.Errorf("above hi: %g", got)
	}
	if got := linearStep(0.17, 0.08, 0.26); got <= 0 || got >= 1 {
		t.Errorf("mid ramp: %g", got)
	}
}
