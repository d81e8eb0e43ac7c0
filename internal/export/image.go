// Package export writes terrain snapshots to disk: grayscale heightfield
// images and OBJ meshes. It consumes the simulation only through read
// accessors and does no work inside the hot path.
package export

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"dunesim/internal/core"

	"github.com/go-gl/mathgl/mgl32"
)

// Terrain is the read-only view of the simulation the exporters consume.
type Terrain interface {
	Size() core.Size
	Bounds() core.Box2
	Height(i, j int) float32
	HeightGradient(i, j int) mgl32.Vec2
}

// jpegQuality matches the reference exporter.
const jpegQuality = 98

// JPG writes the terrain heightfield as a grayscale JPEG.
func JPG(path string, t Terrain) error {
	return writeImage(path, t, func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	})
}

// PNG writes the terrain heightfield as a grayscale PNG.
func PNG(path string, t Terrain) error {
	return writeImage(path, t, func(w io.Writer, img image.Image) error {
		return png.Encode(w, img)
	})
}

func writeImage(path string, t Terrain, encode func(io.Writer, image.Image) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, heightImage(t)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// heightImage normalizes surface heights into an 8-bit grayscale image.
func heightImage(t Terrain) *image.Gray {
	size := t.Size()
	img := image.NewGray(image.Rect(0, 0, size.W, size.H))

	lo := t.Height(0, 0)
	hi := lo
	for j := 0; j < size.H; j++ {
		for i := 0; i < size.W; i++ {
			h := t.Height(i, j)
			if h < lo {
				lo = h
			}
			if h > hi {
				hi = h
			}
		}
	}

	span := hi - lo
	for j := 0; j < size.H; j++ {
		for i := 0; i < size.W; i++ {
			v := float32(1)
			if span > 0 {
				v = (t.Height(i, j) - lo) / span
			}
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			img.SetGray(i, j, color.Gray{Y: uint8(255.99 * v)})
		}
	}
	return img
}
