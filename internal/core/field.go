package core

import (
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Box2 is an axis-aligned world-space rectangle.
type Box2 struct {
	Min mgl32.Vec2
	Max mgl32.Vec2
}

// NewBox2 builds a box from its bottom-left and top-right corners.
func NewBox2(min, max mgl32.Vec2) Box2 {
	return Box2{Min: min, Max: max}
}

// SquareBox returns a box anchored at the origin with the given side length.
func SquareBox(side float32) Box2 {
	return Box2{Max: mgl32.Vec2{side, side}}
}

// Size returns the extents of the box along both axes.
func (b Box2) Size() mgl32.Vec2 {
	return b.Max.Sub(b.Min)
}

// Valid reports whether the box spans a positive area.
func (b Box2) Valid() bool {
	s := b.Size()
	return s.X() > 0 && s.Y() > 0
}

// ScalarField2D stores a dense grid of scalar samples over a world-space box
// in row-major order. Vertex (i, j) sits at Min + (i*cellX, j*cellY) with
// cell = side/n, so the last vertex lies one cell inside Max and the grid
// tiles a periodic domain without duplicating the seam. The field itself
// never wraps or clamps coordinates; callers are responsible for keeping
// indices inside [0,NX)x[0,NY).
type ScalarField2D struct {
	NX, NY int
	Box    Box2

	cellX, cellY float32
	data         []float32
}

// NewScalarField2D allocates a field filled with the given value. Resolution
// must be at least 2x2 and the box must span a positive area.
func NewScalarField2D(nx, ny int, box Box2, value float32) (*ScalarField2D, error) {
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf("scalar field: resolution %dx%d too small", nx, ny)
	}
	if !box.Valid() {
		return nil, fmt.Errorf("scalar field: degenerate box %v", box)
	}
	f := &ScalarField2D{
		NX:    nx,
		NY:    ny,
		Box:   box,
		cellX: box.Size().X() / float32(nx),
		cellY: box.Size().Y() / float32(ny),
		data:  make([]float32, nx*ny),
	}
	if value != 0 {
		f.Fill(value)
	}
	return f, nil
}

// ToIndex1D returns the linear slice index for grid coordinates (i, j).
func (f *ScalarField2D) ToIndex1D(i, j int) int { return j*f.NX + i }

// Get returns the value at grid coordinates (i, j).
func (f *ScalarField2D) Get(i, j int) float32 { return f.data[j*f.NX+i] }

// GetIndex returns the value at a precomputed linear index.
func (f *ScalarField2D) GetIndex(id int) float32 { return f.data[id] }

// Set stores a value at grid coordinates (i, j).
func (f *ScalarField2D) Set(i, j int, v float32) { f.data[j*f.NX+i] = v }

// SetIndex stores a value at a precomputed linear index.
func (f *ScalarField2D) SetIndex(id int, v float32) { f.data[id] = v }

// Fill overwrites every sample with the given value.
func (f *ScalarField2D) Fill(v float32) {
	for i := range f.data {
		f.data[i] = v
	}
}

// Data exposes the backing slice so callers can read or bulk-load values.
func (f *ScalarField2D) Data() []float32 { return f.data }

// AddAtomic adds v to the sample at the linear index using a compare-and-swap
// loop on the float bit pattern, so concurrent writers never lose an update.
// Plain Get reads may still observe a value mid-transfer; the simulation
// tolerates that by design.
func (f *ScalarField2D) AddAtomic(id int, v float32) {
	addr := (*uint32)(unsafe.Pointer(&f.data[id]))
	for {
		old := atomic.LoadUint32(addr)
		next := math.Float32bits(math.Float32frombits(old) + v)
		if atomic.CompareAndSwapUint32(addr, old, next) {
			return
		}
	}
}

// CellSize returns the world-space spacing between adjacent samples along X.
func (f *ScalarField2D) CellSize() float32 { return f.cellX }

// CellSizeY returns the world-space spacing between adjacent samples along Y.
func (f *ScalarField2D) CellSizeY() float32 { return f.cellY }

// WorldPosition returns the world-space point of grid vertex (i, j).
func (f *ScalarField2D) WorldPosition(i, j int) mgl32.Vec2 {
	return f.Box.Min.Add(mgl32.Vec2{float32(i) * f.cellX, float32(j) * f.cellY})
}

// CellInteger returns the grid vertex nearest to the world-space point p.
// The point must already lie inside the box; see the wrapping helpers owned
// by the simulation.
func (f *ScalarField2D) CellInteger(p mgl32.Vec2) (int, int) {
	local := p.Sub(f.Box.Min)
	i := int(local.X()/f.cellX + 0.5)
	j := int(local.Y()/f.cellY + 0.5)
	if i < 0 {
		i = 0
	} else if i >= f.NX {
		i = f.NX - 1
	}
	if j < 0 {
		j = 0
	} else if j >= f.NY {
		j = f.NY - 1
	}
	return i, j
}

// GetBilinear samples the field at a world-space point using 4-tap bilinear
// interpolation.
func (f *ScalarField2D) GetBilinear(p mgl32.Vec2) float32 {
	local := p.Sub(f.Box.Min)
	u := local.X() / f.cellX
	v := local.Y() / f.cellY

	i := int(u)
	j := int(v)
	if i < 0 {
		i = 0
	} else if i > f.NX-2 {
		i = f.NX - 2
	}
	if j < 0 {
		j = 0
	} else if j > f.NY-2 {
		j = f.NY - 2
	}
	tx := u - float32(i)
	ty := v - float32(j)
	if tx < 0 {
		tx = 0
	} else if tx > 1 {
		tx = 1
	}
	if ty < 0 {
		ty = 0
	} else if ty > 1 {
		ty = 1
	}

	id := j*f.NX + i
	v00 := f.data[id]
	v10 := f.data[id+1]
	v01 := f.data[id+f.NX]
	v11 := f.data[id+f.NX+1]

	bottom := v00 + (v10-v00)*tx
	top := v01 + (v11-v01)*tx
	return bottom + (top-bottom)*ty
}

// Gradient returns the finite-difference gradient at grid vertex (i, j),
// scaled by the cell size. Central differences are used in the interior and
// one-sided differences at the borders.
func (f *ScalarField2D) Gradient(i, j int) mgl32.Vec2 {
	i0, i1 := i-1, i+1
	if i0 < 0 {
		i0 = 0
	}
	if i1 > f.NX-1 {
		i1 = f.NX - 1
	}
	j0, j1 := j-1, j+1
	if j0 < 0 {
		j0 = 0
	}
	if j1 > f.NY-1 {
		j1 = f.NY - 1
	}

	var gx, gy float32
	if i1 > i0 {
		gx = (f.Get(i1, j) - f.Get(i0, j)) / (float32(i1-i0) * f.cellX)
	}
	if j1 > j0 {
		gy = (f.Get(i, j1) - f.Get(i, j0)) / (float32(j1-j0) * f.cellY)
	}
	return mgl32.Vec2{gx, gy}
}

// Min returns the smallest sample value.
func (f *ScalarField2D) Min() float32 {
	m := f.data[0]
	for _, v := range f.data[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest sample value.
func (f *ScalarField2D) Max() float32 {
	m := f.data[0]
	for _, v := range f.data[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// CopyFrom overwrites this field's samples with those of src. The two fields
// must share a resolution.
func (f *ScalarField2D) CopyFrom(src *ScalarField2D) error {
	if src.NX != f.NX || src.NY != f.NY {
		return fmt.Errorf("scalar field: resolution mismatch %dx%d vs %dx%d", src.NX, src.NY, f.NX, f.NY)
	}
	copy(f.data, src.data)
	return nil
}

// Clone returns a deep copy of the field.
func (f *ScalarField2D) Clone() *ScalarField2D {
	dup := *f
	dup.data = make([]float32, len(f.data))
	copy(dup.data, f.data)
	return &dup
}
