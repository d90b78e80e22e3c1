package sim

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/banshee-data/arena-explorer/internal/monitoring"
	"github.com/banshee-data/arena-explorer/internal/timeutil"
)

// Runner paces a session in real time.
type Runner struct {
	sim   *Sim
	input Input
	ticks atomic.Int64
}

// NewRunner returns a runner for s. A nil input keeps whatever intents the
// caller sets on s between ticks.
func NewRunner(s *Sim, input Input) *Runner {
	return &Runner{sim: s, input: input}
}

// Ticks returns the number of steps run so far. Safe to call from any
// goroutine.
func (r *Runner) Ticks() int64 { return r.ticks.Load() }

// Run steps the session on every tick of a fps ticker from clock until ctx is
// cancelled, the input is exhausted, or maxTicks steps have run
// (maxTicks <= 0 means no limit). Cancellation is observed between ticks and
// returned as ctx.Err().
func (r *Runner) Run(ctx context.Context, clock timeutil.Clock, fps int, maxTicks int) error {
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}

	ticker := clock.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	monitoring.Logf("sim: runner started at %d fps", fps)
	defer func() { monitoring.Logf("sim: runner stopped after %d ticks", r.ticks.Load()) }()

	for {
		if maxTicks > 0 && r.ticks.Load() >= int64(maxTicks) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
		}
		if r.input != nil {
			states, ok := r.input.Next()
			if !ok {
				return nil
			}
			r.sim.SetIntents(states)
		}
		r.sim.Step()
		r.ticks.Add(1)
	}
}
