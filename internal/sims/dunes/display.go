package dunes

import "image/color"

var sandPalette = buildSandPalette()

// Palette exposes the color ramp used to render terrain heights.
func (w *World) Palette() []color.RGBA {
	return sandPalette
}

// buildSandPalette ramps from shadowed brown through sand tones to sunlit
// crest white.
func buildSandPalette() []color.RGBA {
	stops := []struct {
		t   float32
		col color.RGBA
	}{
		{0.00, color.RGBA{R: 64, G: 44, B: 28, A: 255}},
		{0.35, color.RGBA{R: 140, G: 102, B: 58, A: 255}},
		{0.70, color.RGBA{R: 210, G: 172, B: 110, A: 255}},
		{1.00, color.RGBA{R: 250, G: 238, B: 205, A: 255}},
	}
	palette := make([]color.RGBA, 256)
	for i := range palette {
		t := float32(i) / 255
		k := 1
		for k < len(stops)-1 && t > stops[k].t {
			k++
		}
		prev, curr := stops[k-1], stops[k]
		span := curr.t - prev.t
		local := float32(0)
		if span > 0 {
			local = (t - prev.t) / span
		}
		palette[i] = color.RGBA{
			R: lerpByte(prev.col.R, curr.col.R, local),
			G: lerpByte(prev.col.G, curr.col.G, local),
			B: lerpByte(prev.col.B, curr.col.B, local),
			A: 255,
		}
	}
	return palette
}

func lerpByte(a, b uint8, t float32) uint8 {
	return uint8(float32(a) + (float32(b)-float32(a))*t + 0.5)
}

// rebuildDisplay maps the surface height range onto 0..255 for rendering.
func (w *World) rebuildDisplay() {
	lo := w.Height(0, 0)
	hi := lo
	for j := 0; j < w.ny; j++ {
		for i := 0; i < w.nx; i++ {
			h := w.Height(i, j)
			if h < lo {
				lo = h
			}
			if h > hi {
				hi = h
			}
		}
	}
	for j := 0; j < w.ny; j++ {
		for i := 0; i < w.nx; i++ {
			t := linearStep(w.Height(i, j), lo, hi)
			w.display[w.bedrock.ToIndex1D(i, j)] = uint8(255.99 * t)
		}
	}
}
