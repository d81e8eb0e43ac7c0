package dunes

import "github.com/go-gl/mathgl/mgl32"

// abrasionEpsilon scales the bedrock erosion magnitude per event.
const abrasionEpsilon = 0.5

// abrade erodes exposed bedrock at a cell. The eroded mass leaves the system
// as dust rather than joining the sediment layer; over many steps this
// carves yardang-like grooves where the rock is weak. Vegetation cover and
// the injected hardness mask both protect the rock, and stronger wind
// abrades faster up to a cap.
func (w *World) abrade(i, j int, wind mgl32.Vec2) {
	id := w.bedrock.ToIndex1D(i, j)

	var veg float32
	if w.vegetationOn {
		veg = w.vegetation.GetIndex(id)
	}
	resistance := w.hardness.GetIndex(id)
	strength := mgl32.Clamp(wind.Len(), 0, 2)

	si := abrasionEpsilon * (1 - veg) * (1 - resistance) * strength
	if si == 0 {
		return
	}
	w.bedrock.AddAtomic(id, -si)
}
