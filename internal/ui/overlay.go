//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"dunesim/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type windFieldProvider interface {
	WindVectorAt(x, y float64) (float64, float64)
}

// Overlay draws the wind flow field on top of the terrain view, toggled
// with the W key. Arrows lengthen and brighten with wind speed, showing how
// the flow deflects around dune crests.
type Overlay struct {
	sim   core.Sim
	scale int

	showWind bool
	pixel    *ebiten.Image
}

// NewOverlay constructs an overlay for the provided simulation.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles overlay toggles.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		o.showWind = !o.showWind
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.showWind {
		return
	}
	provider, ok := o.sim.(windFieldProvider)
	if !ok {
		return
	}
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}

	const spacing = 12
	const calmThreshold = 0.05
	span := float64(spacing * scale)

	for cy := spacing / 2; cy < size.H; cy += spacing {
		for cx := spacing / 2; cx < size.W; cx += spacing {
			vx, vy := provider.WindVectorAt(float64(cx), float64(cy))
			speed := math.Hypot(vx, vy)
			sx := (float64(cx) + 0.5) * float64(scale)
			sy := (float64(cy) + 0.5) * float64(scale)
			if speed < calmThreshold {
				o.drawPoint(screen, sx, sy, float64(scale), color.RGBA{R: 90, G: 130, B: 170, A: 120})
				continue
			}

			nx := vx / speed
			ny := vy / speed
			t := speed / 6
			if t > 1 {
				t = 1
			}
			length := span * (0.3 + 0.4*math.Sqrt(t))
			col := color.RGBA{
				R: uint8(80 + 70*t),
				G: uint8(170 + 70*t),
				B: uint8(230 + 20*t),
				A: uint8(150 + 90*t),
			}
			o.drawLine(screen, sx-nx*length/2, sy-ny*length/2, sx+nx*length/2, sy+ny*length/2, float64(scale), col)
			// Arrowhead.
			angle := math.Atan2(ny, nx)
			head := length * 0.3
			tipX := sx + nx*length/2
			tipY := sy + ny*length/2
			o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle+math.Pi/6)*head, tipY-math.Sin(angle+math.Pi/6)*head, float64(scale)*0.85, col)
			o.drawLine(screen, tipX, tipY, tipX-math.Cos(angle-math.Pi/6)*head, tipY-math.Sin(angle-math.Pi/6)*head, float64(scale)*0.85, col)
		}
	}
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size/2, y-size/2)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 || thickness <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
