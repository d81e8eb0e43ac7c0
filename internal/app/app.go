//go:build ebiten

package app

import (
	"image/color"
	"time"

	"dunesim/internal/core"
	"dunesim/internal/render"
	"dunesim/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type paletteProvider interface {
	Palette() []color.RGBA
}

// Game adapts a core simulation to the ebiten.Game interface, rendering the
// terrain heightfield with a HUD panel and an optional wind overlay.
type Game struct {
	sim     core.Sim
	painter *render.HeightPainter
	hud     *ui.HUD
	overlay *ui.Overlay

	palette []color.RGBA

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
}

// hudWidth is the parameter panel width in pixels.
const hudWidth = 200

// New constructs a Game for the provided simulation.
func New(sim core.Sim, scale int, seed int64) *Game {
	size := sim.Size()
	g := &Game{
		sim:     sim,
		painter: render.NewHeightPainter(size.W, size.H),
		hud:     ui.NewHUD(sim, hudWidth),
		overlay: ui.NewOverlay(sim, scale),
		scale:   scale,
		seed:    seed,
	}
	if provider, ok := sim.(paletteProvider); ok {
		g.palette = provider.Palette()
	}
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}

	if g.hud != nil {
		g.hud.Update()
	}
	if g.overlay != nil {
		g.overlay.Update()
	}

	if !g.paused || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

// Draw renders the current terrain state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
	if g.hud != nil {
		size := g.sim.Size()
		g.hud.Draw(screen, size.W*g.scale, size.H*g.scale)
	}
}

// Layout returns the logical screen size including the HUD panel.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hud.Width(), s.H * g.scale
}
