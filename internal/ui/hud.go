//go:build ebiten

package ui

import (
	"fmt"
	"image/color"

	"dunesim/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// windStep is the wind-component increment applied per key press.
const windStep = 0.5

type stepCounter interface {
	Steps() int64
}

// HUD renders the parameter panel to the right of the simulation view and
// maps keys to wind and mode adjustments.
type HUD struct {
	sim      core.Sim
	width    int
	panel    *ebiten.Image
	snapshot core.ParameterSnapshot
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{sim: sim, width: width}
}

// Width reports the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update refreshes the cached parameter snapshot and applies key bindings.
// Adjustments land between simulation steps, which is the only time mode
// flags may change.
func (h *HUD) Update() {
	if h == nil {
		return
	}
	if provider, ok := h.sim.(core.ParametersProvider); ok {
		h.snapshot = provider.Parameters()
	} else {
		h.snapshot = core.ParameterSnapshot{}
	}
	h.handleKeys()
}

func (h *HUD) handleKeys() {
	setter, ok := h.sim.(core.FloatParameterSetter)
	if ok {
		wx, wy := h.floatValue("wind_x"), h.floatValue("wind_y")
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
			setter.SetFloatParameter("wind_x", wx+windStep)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
			setter.SetFloatParameter("wind_x", wx-windStep)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
			setter.SetFloatParameter("wind_y", wy+windStep)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
			setter.SetFloatParameter("wind_y", wy-windStep)
		}
	}
	if toggler, ok := h.sim.(core.BoolParameterSetter); ok {
		if inpututil.IsKeyJustPressed(ebiten.KeyV) {
			toggler.SetBoolParameter("vegetation", h.boolValue("vegetation") == "false")
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyB) {
			toggler.SetBoolParameter("abrasion", h.boolValue("abrasion") == "false")
		}
	}
}

func (h *HUD) floatValue(key string) float64 {
	for _, group := range h.snapshot.Groups {
		for _, p := range group.Params {
			if p.Key == key {
				var v float64
				fmt.Sscanf(p.Value, "%g", &v)
				return v
			}
		}
	}
	return 0
}

func (h *HUD) boolValue(key string) string {
	for _, group := range h.snapshot.Groups {
		for _, p := range group.Params {
			if p.Key == key {
				return p.Value
			}
		}
	}
	return ""
}

// Draw paints the parameter panel anchored at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	y := 18
	if counter, ok := h.sim.(stepCounter); ok {
		text.Draw(h.panel, fmt.Sprintf("step %d", counter.Steps()), face, 8, y, color.White)
		y += 22
	}
	for _, group := range h.snapshot.Groups {
		text.Draw(h.panel, group.Name, face, 8, y, color.RGBA{R: 220, G: 190, B: 120, A: 255})
		y += 16
		for _, p := range group.Params {
			text.Draw(h.panel, fmt.Sprintf("%-12s %s", p.Label, p.Value), face, 12, y, color.White)
			y += 14
		}
		y += 8
	}
	text.Draw(h.panel, "arrows: wind  v/b: modes", face, 8, height-10, color.RGBA{R: 140, G: 140, B: 150, A: 255})

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}
