package dunes

import (
	"runtime"
	"sync"

	"dunesim/internal/core"
)

// maxBounce bounds the hop loop of a single saltation event. A grain that
// exhausts its bounces without depositing vanishes from the ledger; the
// resulting mass imbalance is tolerated by the statistical model.
const maxBounce = 3

// Step runs one macro simulation step: nx*ny independent saltation events
// dispatched across a fixed worker pool, followed by periodic maintenance.
// Each event picks its own random source cell; the iteration count only
// controls how many events run. Events mutate the shared layers through
// atomic adds and never block.
func (w *World) Step() {
	events := w.nx * w.ny
	workers := w.cfg.Params.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > events {
		workers = events
	}

	base := events / workers
	extra := events % workers
	seed := w.cfg.Seed + w.steps.Load()

	var wg sync.WaitGroup
	for k := 0; k < workers; k++ {
		n := base
		if k < extra {
			n++
		}
		wg.Add(1)
		go func(stream uint64, n int) {
			defer wg.Done()
			rng := core.NewRNGStream(seed, stream+1)
			for i := 0; i < n; i++ {
				w.saltate(rng)
			}
		}(uint64(k), n)
	}
	wg.Wait()

	w.endStep()
}

// endStep runs after all workers of the macro-step have joined, so the
// full-grid passes never race with in-flight events.
func (w *World) endStep() {
	n := w.steps.Add(1)
	// Bedrock stabilization is only required when abrasion carves the rock,
	// and only every few steps to keep the pass affordable.
	if n%5 == 0 && w.abrasionOn {
		w.stabilizeBedrockAll()
	}
	w.rebuildDisplay()
}

// saltate performs a single grain transport event: lift at a random cell,
// hop downwind up to maxBounce times, deposit, then relax the slopes it
// disturbed.
func (w *World) saltate(rng *core.RNG) {
	// (1) Select a random source cell.
	srcI := rng.IntN(w.nx)
	srcJ := rng.IntN(w.ny)
	srcID := w.sediment.ToIndex1D(srcI, srcJ)

	// Nothing to lift. Transient negative values from concurrent transfers
	// are caught here on the next visit rather than clamped.
	if w.sediment.GetIndex(srcID) <= 0 {
		return
	}

	wind := w.windAt(srcI, srcJ)

	// Grains in a wind shadow stay put, but the slope may still need
	// relaxing.
	if rng.Uniform() < w.shadowProbability(srcI, srcJ, wind) {
		w.stabilizeSediment(srcI, srcJ)
		return
	}
	// Vegetation retains sediment in the lifting process.
	if w.vegetationOn && rng.Uniform() < w.vegetation.GetIndex(srcID) {
		w.stabilizeSediment(srcI, srcJ)
		return
	}

	// (2) Lift one quantum at the source.
	w.sediment.AddAtomic(srcID, -w.matterToMove)

	// (3) Hop downwind until the grain deposits or runs out of bounces.
	srcVeg := w.vegetation.GetIndex(srcID)
	destI, destJ := srcI, srcJ
	pos := w.bedrock.WorldPosition(destI, destJ)
	bounce := 0
	for bounce < maxBounce {
		wind = w.windAt(destI, destJ)
		pos = w.snapWorld(pos.Add(wind))
		destI, destJ = w.cellAt(pos)
		destID := w.sediment.ToIndex1D(destI, destJ)

		// Abrasion needs low sand supply, weak bedrock and a bit of luck.
		if w.abrasionOn && rng.Uniform() < 0.2 && w.sediment.GetIndex(destID) < 0.5 {
			w.abrade(destI, destJ, wind)
		}

		p := rng.Uniform()
		if p < w.shadowProbability(destI, destJ, wind) {
			// Shadowed cell.
			w.sediment.AddAtomic(destID, w.matterToMove)
			break
		}
		destVeg := float32(0)
		if w.vegetationOn {
			destVeg = w.vegetation.GetIndex(destID)
		}
		if w.sediment.GetIndex(destID) > 0 && p < 0.6+destVeg*0.4 {
			// Sandy cell.
			w.sediment.AddAtomic(destID, w.matterToMove)
			break
		}
		if w.sediment.GetIndex(destID) <= 0 && p < 0.4+destVeg*0.6 {
			// Bare cell.
			w.sediment.AddAtomic(destID, w.matterToMove)
			break
		}

		bounce++
		if rng.Uniform() < 1-srcVeg {
			w.reptate(destI, destJ, bounce)
		}
	}

	// (4) One more creep pass at the final cell, then relax the repose
	// angle at both ends of the transport.
	if rng.Uniform() < 1-srcVeg {
		w.reptate(destI, destJ, bounce)
	}
	w.stabilizeSediment(srcI, srcJ)
	w.stabilizeSediment(destI, destJ)
}
