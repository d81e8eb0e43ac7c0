//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// HeightPainter uploads palette-mapped cell data into a single image and
// draws it scaled to the screen.
type HeightPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewHeightPainter allocates a painter for a grid of size w*h.
func NewHeightPainter(w, h int) *HeightPainter {
	hp := &HeightPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	hp.img = ebiten.NewImage(w, h)
	return hp
}

// Blit maps the cells through the palette, uploads the pixels and draws them.
func (hp *HeightPainter) Blit(dst *ebiten.Image, cells []uint8, palette []color.RGBA, scale int) {
	if len(cells) != hp.w*hp.h {
		return
	}
	fillPaletteRGBA(hp.buf, cells, palette)
	hp.img.WritePixels(hp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(hp.img, op)
}

// Size returns the dimensions of the underlying image.
func (hp *HeightPainter) Size() (int, int) { return hp.w, hp.h }
