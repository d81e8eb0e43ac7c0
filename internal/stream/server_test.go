package stream

import (
	"testing"

	"dunesim/internal/sims/dunes"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := dunes.DefaultConfig()
	cfg.Width, cfg.Height = 16, 16
	cfg.Seed = 7
	w, err := dunes.NewWithConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return New(w, ":0", 5)
}

func TestSnapshotFrame(t *testing.T) {
	s := testServer(t)
	f := s.snapshot()

	if f.Type != "frame" {
		t.Errorf("frame type %q", f.Type)
	}
	if f.Width != 16 || f.Height != 16 {
		t.Errorf("frame is %dx%d, want 16x16", f.Width, f.Height)
	}
	if len(f.Heights) != 16*16 {
		t.Fatalf("frame has %d heights, want 256", len(f.Heights))
	}
	if f.Step != 0 {
		t.Errorf("fresh frame at step %d", f.Step)
	}

	if got := f.Heights[3*16+5]; got != s.world.Height(5, 3) {
		t.Errorf("height row-major order broken: %g vs %g", got, s.world.Height(5, 3))
	}

	s.world.Step()
	if f2 := s.snapshot(); f2.Step != 1 {
		t.Errorf("frame step after one tick = %d, want 1", f2.Step)
	}
}

func TestDrainControlsAppliesRequests(t *testing.T) {
	s := testServer(t)

	wx, wy := 1.5, -2.0
	abrasion := true
	s.controls <- control{WindX: &wx, WindY: &wy, Abrasion: &abrasion}
	s.drainControls()

	if wind := s.world.Wind(); wind.X() != 1.5 || wind.Y() != -2 {
		t.Errorf("wind = %v, want (1.5, -2)", wind)
	}
	// The queue must be empty once drained.
	select {
	case <-s.controls:
		t.Error("controls channel not drained")
	default:
	}
}

func TestDrainControlsPartialRequest(t *testing.T) {
	s := testServer(t)
	before := s.world.Wind()

	tps := 9
	s.controls <- control{TPS: &tps}
	s.drainControls()

	// A TPS-only request must not disturb the wind.
	if wind := s.world.Wind(); wind != before {
		t.Errorf("wind changed by a pacing request: %v -> %v", before, wind)
	}
}
