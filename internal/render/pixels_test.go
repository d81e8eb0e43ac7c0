package render

import (
	"image/color"
	"testing"
)

func TestFillPaletteRGBA(t *testing.T) {
	palette := []color.RGBA{
		{R: 10, G: 20, B: 30, A: 255},
		{R: 40, G: 50, B: 60, A: 255},
	}
	cells := []uint8{0, 1, 200}
	buf := make([]byte, 4*len(cells))

	fillPaletteRGBA(buf, cells, palette)

	if buf[0] != 10 || buf[1] != 20 || buf[2] != 30 || buf[3] != 255 {
		t.Errorf("cell 0 pixels = %v", buf[0:4])
	}
	if buf[4] != 40 {
		t.Errorf("cell 1 red = %d, want 40", buf[4])
	}
	// Out-of-palette values clamp to the last entry.
	if buf[8] != 40 || buf[9] != 50 {
		t.Errorf("clamped pixels = %v", buf[8:12])
	}
}

func TestFillPaletteRGBAEmptyPalette(t *testing.T) {
	cells := []uint8{5, 9}
	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	fillPaletteRGBA(buf, cells, nil)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0", i, b)
		}
	}
}
