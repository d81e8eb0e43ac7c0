package dunes

import "dunesim/internal/core"

// stabilizeSediment relaxes angle-of-repose violations around a cell. When a
// neighbor lies below the cell by more than the repose tangent allows, just
// enough sand avalanches downhill to bring the slope back to the threshold,
// clamped by the sand actually available. The avalanche cascades through an
// explicit worklist instead of recursion so pathological inputs cannot blow
// the stack.
func (w *World) stabilizeSediment(i, j int) {
	w.relax(w.Height, w.sediment.Get, w.sediment, w.tanSediment, i, j)
}

// stabilizeBedrock relaxes the bedrock layer at a cell using the steeper
// bedrock repose tangent. Slopes are measured on bedrock elevation alone:
// abrasion carves rock faces regardless of sand cover.
func (w *World) stabilizeBedrock(i, j int) {
	w.relax(w.bedrock.Get, nil, w.bedrock, w.tanBedrock, i, j)
}

// stabilizeBedrockAll sweeps the whole grid for over-steepened bedrock. It
// is invoked periodically while abrasion is active, after the worker
// barrier, so it never races with in-flight events.
func (w *World) stabilizeBedrockAll() {
	for j := 0; j < w.ny; j++ {
		for i := 0; i < w.nx; i++ {
			w.stabilizeBedrock(i, j)
		}
	}
}

type gridCell struct{ i, j int }

// relax runs the worklist avalanche loop on one layer. height measures the
// slope, avail bounds how much matter may leave a cell (nil means unbounded,
// used for bedrock, which may legitimately go negative under abrasion), and
// layer receives the atomic transfers.
func (w *World) relax(height func(i, j int) float32, avail func(i, j int) float32, layer *core.ScalarField2D, tan float32, i, j int) {
	var nei [8][2]int
	var nslope [8]float32

	work := []gridCell{{i, j}}
	// The cap bounds runaway cascades caused by concurrent mutation of the
	// slopes being relaxed.
	budget := w.nx * w.ny
	for len(work) > 0 && budget > 0 {
		budget--
		c := work[len(work)-1]
		work = work[:len(work)-1]

		if w.flowNeighbors(height, c.i, c.j, tan, &nei, &nslope) == 0 {
			continue
		}
		ni, nj := nei[0][0], nei[0][1]

		dist := w.cellSize
		if ni != c.i && nj != c.j {
			dist *= sqrt2
		}
		// Move half the surplus so the slope lands exactly on the
		// threshold.
		move := (height(c.i, c.j) - height(ni, nj) - tan*dist) / 2
		if avail != nil {
			have := avail(c.i, c.j)
			if have <= 0 {
				continue
			}
			if move > have {
				move = have
			}
		}
		if move <= 0 {
			continue
		}

		layer.AddAtomic(layer.ToIndex1D(c.i, c.j), -move)
		layer.AddAtomic(layer.ToIndex1D(ni, nj), move)

		// The receiving cell may now be overbalanced, and the source may
		// still be.
		work = append(work, gridCell{ni, nj}, c)
	}
}
