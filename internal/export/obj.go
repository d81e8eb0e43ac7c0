package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

// OBJ writes the terrain as a Wavefront mesh: one vertex per grid cell with
// height on the Y axis, per-vertex normals derived from the surface
// gradient, and two triangles per quad.
func OBJ(path string, t Terrain) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	out := bufio.NewWriter(f)

	size := t.Size()
	box := t.Bounds()
	sx := box.Size().X() / float32(size.W)
	sy := box.Size().Y() / float32(size.H)

	fmt.Fprintln(out, "g terrain")
	for j := 0; j < size.H; j++ {
		for i := 0; i < size.W; i++ {
			x := box.Min.X() + float32(i)*sx
			z := box.Min.Y() + float32(j)*sy
			fmt.Fprintf(out, "v %g %g %g\n", x, t.Height(i, j), z)
		}
	}
	for j := 0; j < size.H; j++ {
		for i := 0; i < size.W; i++ {
			n := surfaceNormal(t.HeightGradient(i, j))
			fmt.Fprintf(out, "vn %g %g %g\n", n.X(), n.Y(), n.Z())
		}
	}
	for j := 0; j < size.H-1; j++ {
		for i := 0; i < size.W-1; i++ {
			// 1-based OBJ indices, row-major.
			a := j*size.W + i + 1
			b := a + 1
			c := a + size.W
			d := c + 1
			fmt.Fprintf(out, "f %d//%d %d//%d %d//%d\n", d, d, c, c, a, a)
			fmt.Fprintf(out, "f %d//%d %d//%d %d//%d\n", a, a, b, b, d, d)
		}
	}

	if err := out.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// surfaceNormal converts a height gradient into an upward unit normal with
// height mapped to the Y axis. The up component is 2, so shading flattens a
// little relative to the true surface.
func surfaceNormal(g mgl32.Vec2) mgl32.Vec3 {
	n := mgl32.Vec3{-g.X(), 2, -g.Y()}
	return n.Normalize()
}
