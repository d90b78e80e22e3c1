package main

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/banshee-data/arena-explorer/internal/motion"
	"github.com/banshee-data/arena-explorer/internal/timeutil"
)

// holdInput turns key presses into held intents. Terminals report key
// repeats but no releases, so an intent stays active for the hold window
// after its most recent press.
type holdInput struct {
	mu      sync.Mutex
	clock   timeutil.Clock
	hold    time.Duration
	pressed [len(motion.Intents)]time.Time
}

func newHoldInput(clock timeutil.Clock, hold time.Duration) *holdInput {
	return &holdInput{clock: clock, hold: hold}
}

// intentForKey maps arrow keys (and vi-style letters) to intents.
func intentForKey(ev *tcell.EventKey) (motion.Intent, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return motion.Moving, true
	case tcell.KeyLeft:
		return motion.TurningLeft, true
	case tcell.KeyRight:
		return motion.TurningRight, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'k', 'w':
			return motion.Moving, true
		case 'h', 'a':
			return motion.TurningLeft, true
		case 'l', 'd':
			return motion.TurningRight, true
		}
	}
	return 0, false
}

// Press records a press of intent i now.
func (h *holdInput) Press(i motion.Intent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pressed[i] = h.clock.Now()
}

// Release clears every held intent.
func (h *holdInput) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pressed = [len(motion.Intents)]time.Time{}
}

// Next reports the intents pressed within the hold window. It never runs dry.
func (h *holdInput) Next() (motion.States, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := h.clock.Now()
	var st motion.States
	for _, i := range motion.Intents {
		t := h.pressed[i]
		st[i] = !t.IsZero() && now.Sub(t) < h.hold
	}
	return st, true
}
