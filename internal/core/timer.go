package core

import "time"

// FixedStep helps run simulation updates at a steady ticks-per-second rate.
// The streamer uses it to pace macro-steps independently of client traffic.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate and drops any accumulated backlog, so a rate
// change applies from the next tick rather than replaying missed ones.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 30
	}
	f.step = time.Second / time.Duration(tps)
	f.accumulator = 0
}

// ShouldStep reports whether the simulation should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	now := time.Now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}
