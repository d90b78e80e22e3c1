// Package motion drives which robot actions execute on each tick.
//
// Each named actor carries three boolean intents. Run evaluates the active
// intents of every actor in a fixed order (turn left, turn right, move) so
// that simultaneous inputs give reproducible trajectories. An intent's action
// runs only when its constraint is absent or currently reports false.
package motion

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownActor is returned for names that were never added.
	ErrUnknownActor = errors.New("unknown actor")
	// ErrUnknownIntent is returned for intent values outside the fixed set.
	ErrUnknownIntent = errors.New("unknown intent")
	// ErrMissingAction is returned when an actor is added without all actions.
	ErrMissingAction = errors.New("missing action")
	// ErrDuplicateActor is returned when a name is added twice.
	ErrDuplicateActor = errors.New("duplicate actor")
)

// Intent is one of the three motion inputs, in run order.
type Intent uint8

const (
	TurningLeft Intent = iota
	TurningRight
	Moving
	numIntents
)

// Intents lists every intent in run order.
var Intents = [numIntents]Intent{TurningLeft, TurningRight, Moving}

func (i Intent) String() string {
	switch i {
	case TurningLeft:
		return "turning_left"
	case TurningRight:
		return "turning_right"
	case Moving:
		return "moving"
	default:
		return fmt.Sprintf("intent(%d)", uint8(i))
	}
}

// ParseIntent maps an intent's String form back to the Intent. Script steps
// in config files name their intents this way.
func ParseIntent(s string) (Intent, error) {
	for _, i := range Intents {
		if i.String() == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownIntent)
}

// Action performs one intent's effect.
type Action func()

// Constraint blocks an action for this tick when it returns true.
type Constraint func() bool

// Actions holds one action per intent. All three are required.
type Actions [numIntents]Action

// Constraints holds an optional constraint per intent.
type Constraints [numIntents]Constraint

// States holds the current value of each intent.
type States [numIntents]bool

// Active reports whether any intent is set.
func (s States) Active() bool {
	for _, v := range s {
		if v {
			return true
		}
	}
	return false
}

type actor struct {
	name        string
	states      States
	actions     Actions
	constraints Constraints
}

// Orchestrator runs the intents of its actors. It is driven from the tick
// goroutine and is not safe for concurrent use.
type Orchestrator struct {
	actors []*actor
	byName map[string]*actor
}

// NewOrchestrator returns an orchestrator with no actors.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{byName: make(map[string]*actor)}
}

// Add registers an actor with every intent cleared.
func (o *Orchestrator) Add(name string, actions Actions, constraints Constraints) error {
	if _, ok := o.byName[name]; ok {
		return fmt.Errorf("%q: %w", name, ErrDuplicateActor)
	}
	for _, i := range Intents {
		if actions[i] == nil {
			return fmt.Errorf("actor %q %s: %w", name, i, ErrMissingAction)
		}
	}
	a := &actor{name: name, actions: actions, constraints: constraints}
	o.actors = append(o.actors, a)
	o.byName[name] = a
	return nil
}

// SetState sets or clears one intent of an actor.
func (o *Orchestrator) SetState(name string, intent Intent, value bool) error {
	a, ok := o.byName[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownActor)
	}
	if intent >= numIntents {
		return fmt.Errorf("%s: %w", intent, ErrUnknownIntent)
	}
	a.states[intent] = value
	return nil
}

// SetStates replaces every intent of an actor at once.
func (o *Orchestrator) SetStates(name string, states States) error {
	a, ok := o.byName[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownActor)
	}
	a.states = states
	return nil
}

// State returns the intents of an actor.
func (o *Orchestrator) State(name string) (States, error) {
	a, ok := o.byName[name]
	if !ok {
		return States{}, fmt.Errorf("%q: %w", name, ErrUnknownActor)
	}
	return a.states, nil
}

// Run executes one tick: actors in registration order, intents in run order.
// It returns the number of actions executed.
func (o *Orchestrator) Run() int {
	ran := 0
	for _, a := range o.actors {
		for _, i := range Intents {
			if !a.states[i] {
				continue
			}
			if c := a.constraints[i]; c != nil && c() {
				continue
			}
			a.actions[i]()
			ran++
		}
	}
	return ran
}
