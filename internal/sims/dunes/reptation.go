package dunes

// next8 enumerates the 8-connected neighborhood.
var next8 = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}

// flowNeighbors collects the neighbors of (i, j) whose downhill slope from
// the cell exceeds the given repose tangent, steepest first. height is the
// elevation function the slope is measured on. Returns the number of
// offenders written into nei/nslope.
func (w *World) flowNeighbors(height func(i, j int) float32, i, j int, tan float32, nei *[8][2]int, nslope *[8]float32) int {
	h := height(i, j)
	n := 0
	for _, d := range next8 {
		ni, nj := w.wrapCell(i+d[0], j+d[1])
		dist := w.cellSize
		if d[0] != 0 && d[1] != 0 {
			dist *= sqrt2
		}
		slope := (h - height(ni, nj)) / dist
		if slope <= tan {
			continue
		}
		// Insertion sort keeps the steepest neighbor first.
		k := n
		for k > 0 && nslope[k-1] < slope {
			nei[k] = nei[k-1]
			nslope[k] = nslope[k-1]
			k--
		}
		nei[k] = [2]int{ni, nj}
		nslope[k] = slope
		n++
	}
	return n
}

const sqrt2 = 1.4142135623730951

// reptate redistributes a small amount of sand from a cell to its steepest
// downhill neighbors, modeling grain creep. The amount grows from half a
// quantum to a full quantum with the bounce index. Neighbors farther than
// two cells away in world space are skipped so creep never jumps a
// discretization seam.
func (w *World) reptate(i, j, bounce int) {
	b := bounce
	if b < 0 {
		b = 0
	} else if b > maxBounce {
		b = maxBounce
	}
	amount := lerp(w.matterToMove/2, w.matterToMove, float32(b)/maxBounce)

	var nei [8][2]int
	var nslope [8]float32
	n := w.flowNeighbors(w.Height, i, j, w.tanSediment, &nei, &nslope)
	if n > 2 {
		n = 2
	}
	if n == 0 {
		return
	}

	maxDist2 := 4 * w.cellSize * w.cellSize
	p := w.bedrock.WorldPosition(i, j)
	share := amount / float32(n)
	received := 0
	for k := 0; k < n; k++ {
		pk := w.bedrock.WorldPosition(nei[k][0], nei[k][1])
		if p.Sub(pk).LenSqr() > maxDist2 {
			continue
		}
		w.sediment.AddAtomic(w.sediment.ToIndex1D(nei[k][0], nei[k][1]), share)
		received++
	}

	// Only remove what was actually handed out, so a skipped neighbor never
	// causes phantom loss.
	if received > 0 {
		w.sediment.AddAtomic(w.sediment.ToIndex1D(i, j), -share*float32(received))
	}
}
