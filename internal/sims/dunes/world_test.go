package dunes

import (
	"math"
	"testing"

	"dunesim/internal/core"

	"github.com/go-gl/mathgl/mgl32"
)

func testWorld(t *testing.T, n int, sedMin, sedMax float64, wind mgl32.Vec2) *World {
	t.Helper()
	w, err := New(n, n, core.SquareBox(float32(n)), sedMin, sedMax, wind)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func sumField(f *core.ScalarField2D) float64 {
	var total float64
	for _, v := range f.Data() {
		total += float64(v)
	}
	return total
}

func TestNewRejectsBadInput(t *testing.T) {
	box := core.SquareBox(16)
	if _, err := New(1, 16, box, 3, 5, mgl32.Vec2{0, 3}); err == nil {
		t.Error("expected error for 1-wide grid")
	}
	if _, err := New(16, 16, core.Box2{}, 3, 5, mgl32.Vec2{0, 3}); err == nil {
		t.Error("expected error for degenerate box")
	}
	if _, err := New(16, 16, box, 5, 3, mgl32.Vec2{0, 3}); err == nil {
		t.Error("expected error for inverted sediment range")
	}
	if _, err := New(16, 16, box, -1, 3, mgl32.Vec2{0, 3}); err == nil {
		t.Error("expected error for negative sediment minimum")
	}

	cfg := DefaultConfig()
	cfg.Params.MatterToMove = 0
	if _, err := NewWithConfig(cfg); err == nil {
		t.Error("expected error for zero transport quantum")
	}
}

func TestSeedingWithinRange(t *testing.T) {
	w := testWorld(t, 16, 3, 5, mgl32.Vec2{0, 3})
	for j := 0; j < 16; j++ {
		for i := 0; i < 16; i++ {
			s := w.Sediment(i, j)
			if s < 3 || s > 5 {
				t.Fatalf("sediment(%d,%d) = %g outside [3, 5]", i, j, s)
			}
			if w.Bedrock(i, j) != 0 {
				t.Fatalf("bedrock(%d,%d) = %g, want 0", i, j, w.Bedrock(i, j))
			}
		}
	}
}

func TestHeightIsLayerSum(t *testing.T) {
	w := testWorld(t, 8, 0, 0, mgl32.Vec2{0, 3})
	w.bedrock.Set(3, 4, 2.5)
	w.sediment.Set(3, 4, 1.25)
	if got := w.Height(3, 4); got != 3.75 {
		t.Fatalf("Height = %g, want 3.75", got)
	}

	p := w.bedrock.WorldPosition(3, 4)
	if got := w.HeightAt(p); math.Abs(float64(got-3.75)) > 1e-5 {
		t.Fatalf("HeightAt = %g, want 3.75", got)
	}
}

func TestSnapWorldWraps(t *testing.T) {
	w := testWorld(t, 16, 0, 0, mgl32.Vec2{0, 3})

	cases := []struct{ in, want mgl32.Vec2 }{
		{mgl32.Vec2{5.5, 7.25}, mgl32.Vec2{5.5, 7.25}},
		{mgl32.Vec2{16, 16}, mgl32.Vec2{0, 0}},
		{mgl32.Vec2{17, -1}, mgl32.Vec2{1, 15}},
		{mgl32.Vec2{-16, 32}, mgl32.Vec2{0, 0}},
	}
	for _, tc := range cases {
		got := w.snapWorld(tc.in)
		if math.Abs(float64(got.X()-tc.want.X())) > 1e-5 || math.Abs(float64(got.Y()-tc.want.Y())) > 1e-5 {
			t.Errorf("snapWorld(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestGridVerticesStableUnderWrap(t *testing.T) {
	w := testWorld(t, 32, 0, 0, mgl32.Vec2{0, 3})
	// Every vertex, border columns and rows included, must survive a wrap
	// followed by cell lookup unchanged. Otherwise a zero-length hop would
	// teleport grains across the seam.
	for j := 0; j < w.ny; j++ {
		for i := 0; i < w.nx; i++ {
			p := w.snapWorld(w.bedrock.WorldPosition(i, j))
			gi, gj := w.cellAt(p)
			if gi != i || gj != j {
				t.Fatalf("vertex (%d,%d) wrapped to cell (%d,%d)", i, j, gi, gj)
			}
		}
	}

	// Points in the last half-cell band are toroidally nearest to cell zero.
	if i, j := w.cellAt(mgl32.Vec2{31.8, 4}); i != 0 || j != 4 {
		t.Fatalf("seam band mapped to (%d,%d), want (0,4)", i, j)
	}
}

func TestNonSquareGridKeepsSquareCells(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 32, 24
	w, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	size := w.Bounds().Size()
	if size.X() != 32 || size.Y() != 24 {
		t.Fatalf("world extent = %v, want (32, 24)", size)
	}
	if w.bedrock.CellSize() != w.bedrock.CellSizeY() {
		t.Fatalf("cells not square: %g x %g", w.bedrock.CellSize(), w.bedrock.CellSizeY())
	}

	cfg.Extent = 64
	w, err = NewWithConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	size = w.Bounds().Size()
	if size.X() != 64 || size.Y() != 48 {
		t.Fatalf("scaled extent = %v, want (64, 48)", size)
	}
}

func TestAnisotropicBoxRejected(t *testing.T) {
	box := core.NewBox2(mgl32.Vec2{}, mgl32.Vec2{32, 16})
	if _, err := New(16, 16, box, 3, 5, mgl32.Vec2{0, 3}); err == nil {
		t.Fatal("expected error for anisotropic cells")
	}
}

func TestWrapCell(t *testing.T) {
	w := testWorld(t, 16, 0, 0, mgl32.Vec2{0, 3})
	if i, j := w.wrapCell(-1, 16); i != 15 || j != 0 {
		t.Fatalf("wrapCell(-1, 16) = (%d, %d), want (15, 0)", i, j)
	}
	if i, j := w.wrapCell(33, -17); i != 1 || j != 15 {
		t.Fatalf("wrapCell(33, -17) = (%d, %d), want (1, 15)", i, j)
	}
}

func TestResetKeepsMasks(t *testing.T) {
	w := testWorld(t, 8, 2, 2, mgl32.Vec2{0, 3})
	veg, _ := core.NewScalarField2D(8, 8, w.Bounds(), 0.5)
	if err := w.SetVegetationData(veg); err != nil {
		t.Fatal(err)
	}
	w.bedrock.Set(1, 1, 3)
	w.Step()

	w.Reset(99)
	if w.Steps() != 0 {
		t.Fatalf("Steps after reset = %d, want 0", w.Steps())
	}
	if got := w.Bedrock(1, 1); got != 0 {
		t.Fatalf("bedrock after reset = %g, want 0", got)
	}
	if got := w.Vegetation(4, 4); got != 0.5 {
		t.Fatalf("vegetation after reset = %g, want 0.5", got)
	}
	if got := w.Sediment(3, 3); got != 2 {
		t.Fatalf("sediment after reset = %g, want 2", got)
	}
}

func TestLayerInjectionChecksResolution(t *testing.T) {
	w := testWorld(t, 8, 0, 0, mgl32.Vec2{0, 3})
	wrong, _ := core.NewScalarField2D(9, 8, core.SquareBox(8), 0)
	if err := w.SetVegetationData(wrong); err == nil {
		t.Error("expected resolution mismatch for vegetation")
	}
	if err := w.SetHardnessData(wrong); err == nil {
		t.Error("expected resolution mismatch for hardness")
	}
	if err := w.SetBedrockData(wrong); err == nil {
		t.Error("expected resolution mismatch for bedrock")
	}
}

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{
		"w":            "64",
		"h":            "48",
		"seed":         "42",
		"wind_x":       "1.5",
		"wind_y":       "-2",
		"sediment_min": "0.5",
		"sediment_max": "2",
		"matter":       "0.2",
		"workers":      "3",
		"vegetation":   "true",
	})
	if cfg.Width != 64 || cfg.Height != 48 || cfg.Seed != 42 {
		t.Fatalf("dimensions/seed not applied: %+v", cfg)
	}
	if cfg.Params.WindX != 1.5 || cfg.Params.WindY != -2 {
		t.Fatalf("wind not applied: %+v", cfg.Params)
	}
	if cfg.Params.SedimentMin != 0.5 || cfg.Params.SedimentMax != 2 {
		t.Fatalf("sediment range not applied: %+v", cfg.Params)
	}
	if cfg.Params.MatterToMove != 0.2 || cfg.Params.Workers != 3 || !cfg.Params.Vegetation {
		t.Fatalf("transport params not applied: %+v", cfg.Params)
	}
}

func TestFromMapIgnoresGarbage(t *testing.T) {
	def := DefaultConfig()
	cfg := FromMap(map[string]string{
		"w":      "banana",
		"matter": "-1",
		"wind_y": "",
	})
	if cfg.Width != def.Width || cfg.Params.MatterToMove != def.Params.MatterToMove || cfg.Params.WindY != def.Params.WindY {
		t.Fatalf("garbage values mutated config: %+v", cfg)
	}
}

func TestFromMapClampsSedimentRange(t *testing.T) {
	cfg := FromMap(map[string]string{"sediment_min": "4", "sediment_max": "1"})
	if cfg.Params.SedimentMax != cfg.Params.SedimentMin {
		t.Fatalf("sediment_max %g below sediment_min %g", cfg.Params.SedimentMax, cfg.Params.SedimentMin)
	}
}

func TestParameterSetters(t *testing.T) {
	w := testWorld(t, 8, 0, 0, mgl32.Vec2{0, 3})

	if !w.SetFloatParameter("wind_x", 1.5) || !w.SetFloatParameter("wind_y", -2) {
		t.Fatal("wind setters rejected valid values")
	}
	if got := w.Wind(); got.X() != 1.5 || got.Y() != -2 {
		t.Fatalf("wind = %v, want (1.5, -2)", got)
	}
	if w.SetFloatParameter("matter", 0) {
		t.Error("accepted zero transport quantum")
	}
	if w.SetFloatParameter("nope", 1) {
		t.Error("accepted unknown float key")
	}
	if !w.SetBoolParameter("abrasion", true) {
		t.Error("rejected abrasion toggle")
	}
	if w.SetBoolParameter("nope", true) {
		t.Error("accepted unknown bool key")
	}

	snap := w.Parameters()
	if len(snap.Groups) == 0 {
		t.Fatal("empty parameter snapshot")
	}
	found := false
	for _, g := range snap.Groups {
		for _, p := range g.Params {
			if p.Key == "abrasion" && p.Value == "true" {
				found = true
			}
		}
	}
	if !found {
		t.Error("snapshot does not reflect abrasion toggle")
	}
}

func TestScenarioRegistryAndMasks(t *testing.T) {
	for _, name := range ScenarioNames() {
		if _, ok := core.Sims()[name]; !ok {
			t.Errorf("scenario %q not registered", name)
		}
	}
	if _, ok := core.Sims()["dunes"]; !ok {
		t.Error("base simulation not registered")
	}

	if _, err := NewScenario("ergs-of-mars", nil); err == nil {
		t.Error("expected error for unknown scenario")
	}

	y, err := NewScenario(ScenarioYardang, map[string]string{"w": "32", "h": "32"})
	if err != nil {
		t.Fatal(err)
	}
	if y.hardness.Min() == y.hardness.Max() {
		t.Error("yardang scenario left the hardness mask uniform")
	}
	if !y.abrasionOn {
		t.Error("yardang scenario did not enable abrasion")
	}

	n, err := NewScenario(ScenarioNabkha, map[string]string{"w": "32", "h": "32"})
	if err != nil {
		t.Fatal(err)
	}
	if n.vegetation.Max() == 0 {
		t.Error("nabkha scenario left the vegetation mask empty")
	}
	if !n.vegetationOn {
		t.Error("nabkha scenario did not enable vegetation")
	}
}
