package sim

import (
	"github.com/banshee-data/arena-explorer/internal/config"
	"github.com/banshee-data/arena-explorer/internal/motion"
)

// Input supplies the intents for the next tick. ok is false once the source
// is exhausted.
type Input interface {
	Next() (states motion.States, ok bool)
}

// Script replays a fixed list of steps, each holding its intents for a number
// of ticks.
type Script struct {
	steps []config.ScriptStep
	step  int
	used  int
}

// NewScript returns a script positioned at its first step. Steps with no
// ticks are skipped.
func NewScript(steps []config.ScriptStep) *Script {
	s := &Script{}
	for _, st := range steps {
		if st.Ticks > 0 {
			s.steps = append(s.steps, st)
		}
	}
	return s
}

// Next returns the intents for the next tick.
func (s *Script) Next() (motion.States, bool) {
	if s.step >= len(s.steps) {
		return motion.States{}, false
	}
	st := s.steps[s.step]
	s.used++
	if s.used >= st.Ticks {
		s.step++
		s.used = 0
	}
	return StatesOf(st), true
}

// Remaining returns the number of ticks left.
func (s *Script) Remaining() int {
	n := 0
	for i := s.step; i < len(s.steps); i++ {
		n += s.steps[i].Ticks
	}
	return n - s.used
}

// StatesOf converts a script step to orchestrator intents. Flags and names
// are combined.
func StatesOf(st config.ScriptStep) motion.States {
	var out motion.States
	out[motion.TurningLeft] = st.TurningLeft
	out[motion.TurningRight] = st.TurningRight
	out[motion.Moving] = st.Moving
	for _, name := range st.Intents {
		// Names are checked by SimConfig.Validate; unknown ones are ignored here.
		if i, err := motion.ParseIntent(name); err == nil {
			out[i] = true
		}
	}
	return out
}

// RunScript steps s once per script tick without pacing and returns the
// number of ticks run. maxTicks <= 0 means until the script ends.
func (s *Sim) RunScript(in Input, maxTicks int) int {
	n := 0
	for maxTicks <= 0 || n < maxTicks {
		states, ok := in.Next()
		if !ok {
			break
		}
		s.SetIntents(states)
		s.Step()
		n++
	}
	return n
}
