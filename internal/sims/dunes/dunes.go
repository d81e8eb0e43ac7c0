package dunes

import (
	"fmt"
	"math"
	"sync/atomic"

	"dunesim/internal/core"

	"github.com/go-gl/mathgl/mgl32"
)

// World is the shared terrain state of the dune simulation: a bedrock layer,
// a loose sediment layer and a vegetation density map, all co-registered on
// the same toroidal grid. Workers mutate the layers through atomic adds only;
// there is no transaction spanning a lift/deposit pair, which is an accepted
// relaxation of the statistical model.
type World struct {
	cfg Config

	nx, ny   int
	box      core.Box2
	cellSize float32

	bedrock    *core.ScalarField2D
	sediment   *core.ScalarField2D
	vegetation *core.ScalarField2D
	hardness   *core.ScalarField2D

	wind         mgl32.Vec2
	matterToMove float32

	tanSediment  float32
	tanBedrock   float32
	tanShadowMin float32
	tanShadowMax float32

	vegetationOn bool
	abrasionOn   bool

	steps   atomic.Int64
	display []uint8
}

// New constructs a terrain over the given box with sediment seeded uniformly
// in [sedimentMin, sedimentMax] and the provided prevailing wind. Bedrock and
// vegetation start at zero.
func New(nx, ny int, box core.Box2, sedimentMin, sedimentMax float64, wind mgl32.Vec2) (*World, error) {
	cfg := DefaultConfig()
	cfg.Width = nx
	cfg.Height = ny
	cfg.Extent = float64(box.Size().X())
	cfg.Params.WindX = float64(wind.X())
	cfg.Params.WindY = float64(wind.Y())
	cfg.Params.SedimentMin = sedimentMin
	cfg.Params.SedimentMax = sedimentMax
	return newWorld(cfg, box)
}

// NewWithConfig constructs a terrain from a configuration, over a box
// anchored at the origin. The box is sized so cells come out square: Extent
// spans the X axis and the Y extent follows from the grid aspect ratio.
func NewWithConfig(cfg Config) (*World, error) {
	if cfg.Extent == 0 {
		cfg.Extent = float64(cfg.Width)
	}
	if cfg.Width < 2 {
		return nil, fmt.Errorf("dunes: resolution %dx%d too small", cfg.Width, cfg.Height)
	}
	cell := float32(cfg.Extent) / float32(cfg.Width)
	box := core.NewBox2(mgl32.Vec2{}, mgl32.Vec2{cell * float32(cfg.Width), cell * float32(cfg.Height)})
	return newWorld(cfg, box)
}

// newWorld validates and builds the terrain. Construction is the only place
// the simulation fails loudly: a degenerate grid or transport quantum is
// rejected instead of producing an unusable world.
func newWorld(cfg Config, box core.Box2) (*World, error) {
	if cfg.Width < 2 || cfg.Height < 2 {
		return nil, fmt.Errorf("dunes: resolution %dx%d too small", cfg.Width, cfg.Height)
	}
	if !box.Valid() {
		return nil, fmt.Errorf("dunes: degenerate bounding box %v", box)
	}
	if cfg.Params.MatterToMove <= 0 {
		return nil, fmt.Errorf("dunes: non-positive transport quantum %g", cfg.Params.MatterToMove)
	}
	if cfg.Params.SedimentMax < cfg.Params.SedimentMin || cfg.Params.SedimentMin < 0 {
		return nil, fmt.Errorf("dunes: bad sediment range [%g, %g]", cfg.Params.SedimentMin, cfg.Params.SedimentMax)
	}

	bedrock, err := core.NewScalarField2D(cfg.Width, cfg.Height, box, 0)
	if err != nil {
		return nil, err
	}
	// The transport math (shadow march, repose distances, creep radius) uses
	// a single spacing, so anisotropic cells are a construction error.
	cx, cy := bedrock.CellSize(), bedrock.CellSizeY()
	if diff := cx - cy; diff > 1e-4*cx || diff < -1e-4*cx {
		return nil, fmt.Errorf("dunes: anisotropic cells %gx%g for box %v", cx, cy, box)
	}
	sediment, _ := core.NewScalarField2D(cfg.Width, cfg.Height, box, 0)
	vegetation, _ := core.NewScalarField2D(cfg.Width, cfg.Height, box, 0)
	hardness, _ := core.NewScalarField2D(cfg.Width, cfg.Height, box, 0)

	w := &World{
		cfg:          cfg,
		nx:           cfg.Width,
		ny:           cfg.Height,
		box:          box,
		cellSize:     bedrock.CellSize(),
		bedrock:      bedrock,
		sediment:     sediment,
		vegetation:   vegetation,
		hardness:     hardness,
		wind:         mgl32.Vec2{float32(cfg.Params.WindX), float32(cfg.Params.WindY)},
		matterToMove: float32(cfg.Params.MatterToMove),
		tanSediment:  float32(cfg.Params.TanSediment),
		tanBedrock:   float32(cfg.Params.TanBedrock),
		tanShadowMin: float32(cfg.Params.TanShadowMin),
		tanShadowMax: float32(cfg.Params.TanShadowMax),
		vegetationOn: cfg.Params.Vegetation,
		abrasionOn:   cfg.Params.Abrasion,
		display:      make([]uint8, cfg.Width*cfg.Height),
	}
	w.seedSediment(cfg.Seed)
	w.rebuildDisplay()
	return w, nil
}

func (w *World) seedSediment(seed int64) {
	rng := core.NewRNG(seed)
	lo := float32(w.cfg.Params.SedimentMin)
	hi := float32(w.cfg.Params.SedimentMax)
	for j := 0; j < w.ny; j++ {
		for i := 0; i < w.nx; i++ {
			w.sediment.Set(i, j, rng.Range(lo, hi))
		}
	}
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "dunes" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.nx, H: w.ny} }

// Cells exposes the grayscale height display buffer.
func (w *World) Cells() []uint8 { return w.display }

// Steps returns the number of completed macro-steps.
func (w *World) Steps() int64 { return w.steps.Load() }

// Reset reseeds the sediment layer and clears the bedrock, keeping any
// injected vegetation and hardness masks.
func (w *World) Reset(seed int64) {
	w.bedrock.Fill(0)
	w.seedSediment(seed)
	w.steps.Store(0)
	w.rebuildDisplay()
}

// Height returns bedrock plus sediment elevation at a cell. It is always
// recomputed, never stored.
func (w *World) Height(i, j int) float32 {
	return w.bedrock.Get(i, j) + w.sediment.Get(i, j)
}

// HeightAt returns the bilinearly interpolated surface height at a
// world-space point.
func (w *World) HeightAt(p mgl32.Vec2) float32 {
	return w.bedrock.GetBilinear(p) + w.sediment.GetBilinear(p)
}

// HeightGradient returns the combined surface gradient at a cell.
func (w *World) HeightGradient(i, j int) mgl32.Vec2 {
	return w.bedrock.Gradient(i, j).Add(w.sediment.Gradient(i, j))
}

// Bedrock returns the bedrock elevation at a cell.
func (w *World) Bedrock(i, j int) float32 { return w.bedrock.Get(i, j) }

// Sediment returns the sediment depth at a cell.
func (w *World) Sediment(i, j int) float32 { return w.sediment.Get(i, j) }

// Vegetation returns the vegetation density at a cell.
func (w *World) Vegetation(i, j int) float32 { return w.vegetation.Get(i, j) }

// Bounds returns the world-space bounding box of the terrain.
func (w *World) Bounds() core.Box2 { return w.box }

// Wind returns the prevailing wind vector.
func (w *World) Wind() mgl32.Vec2 { return w.wind }

// SetWind replaces the prevailing wind. Must not be called while a
// macro-step is running.
func (w *World) SetWind(v mgl32.Vec2) { w.wind = v }

// SetAbrasionMode toggles bedrock abrasion. Must be set between macro-steps.
func (w *World) SetAbrasionMode(on bool) { w.abrasionOn = on }

// SetVegetationMode toggles vegetation influence. Must be set between
// macro-steps.
func (w *World) SetVegetationMode(on bool) { w.vegetationOn = on }

// SetHardnessData replaces the bedrock resistance layer.
func (w *World) SetHardnessData(f *core.ScalarField2D) error {
	return w.hardness.CopyFrom(f)
}

// SetVegetationData replaces the vegetation density layer.
func (w *World) SetVegetationData(f *core.ScalarField2D) error {
	return w.vegetation.CopyFrom(f)
}

// SetBedrockData replaces the bedrock elevation layer.
func (w *World) SetBedrockData(f *core.ScalarField2D) error {
	return w.bedrock.CopyFrom(f)
}

// SetSedimentData replaces the sediment layer.
func (w *World) SetSedimentData(f *core.ScalarField2D) error {
	return w.sediment.CopyFrom(f)
}

// snapWorld wraps a world-space point into the toroidal domain. A point
// exactly at the domain size maps to zero.
func (w *World) snapWorld(p mgl32.Vec2) mgl32.Vec2 {
	s := w.box.Size()
	x := float32(math.Mod(float64(p.X()-w.box.Min.X()), float64(s.X())))
	if x < 0 {
		x += s.X()
	}
	y := float32(math.Mod(float64(p.Y()-w.box.Min.Y()), float64(s.Y())))
	if y < 0 {
		y += s.Y()
	}
	return w.box.Min.Add(mgl32.Vec2{x, y})
}

// wrapCell applies toroidal wrapping to grid coordinates.
func (w *World) wrapCell(i, j int) (int, int) {
	i = (i%w.nx + w.nx) % w.nx
	j = (j%w.ny + w.ny) % w.ny
	return i, j
}

// cellAt returns the grid cell toroidally nearest to an already-wrapped
// world-space point. Points in the last half-cell band round past the final
// vertex and wrap to cell zero.
func (w *World) cellAt(p mgl32.Vec2) (int, int) {
	local := p.Sub(w.box.Min)
	i := int(local.X()/w.cellSize + 0.5)
	j := int(local.Y()/w.cellSize + 0.5)
	return w.wrapCell(i, j)
}
