package sim

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/arena-explorer/internal/config"
	"github.com/banshee-data/arena-explorer/internal/motion"
	"github.com/banshee-data/arena-explorer/internal/occupancy"
	"github.com/banshee-data/arena-explorer/internal/robot"
	"github.com/banshee-data/arena-explorer/internal/sensor"
	"github.com/banshee-data/arena-explorer/internal/world"
)

// ActorName is the orchestrator name of the session's robot.
const ActorName = "robot"

// Frame is the state published after each step.
type Frame struct {
	Tick    int              `json:"tick"`
	Pose    robot.Pose       `json:"pose"`
	Counts  occupancy.Counts `json:"counts"`
	Visible int              `json:"visible"`
	Bounces int              `json:"bounces"`
	Intents motion.States    `json:"intents"`
}

// Observer receives every frame in tick order.
type Observer interface {
	Observe(Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Frame)

func (f ObserverFunc) Observe(fr Frame) { f(fr) }

// Sim is one exploration session. It is not safe for concurrent use; a
// Runner or the caller's loop owns it.
type Sim struct {
	registry  *world.Registry
	robot     *robot.Robot
	radar     *sensor.Radar
	orch      *motion.Orchestrator
	observers []Observer

	turnAngle float64
	tick      int
}

// New builds a session from cfg and places the robot.
func New(cfg *config.SimConfig) (*Sim, error) {
	if cfg == nil {
		cfg = &config.SimConfig{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reg, err := BuildRegistry(cfg)
	if err != nil {
		return nil, err
	}
	params := ParamsFromConfig(cfg)
	return NewWithRegistry(params, reg, cfg.GetTurnAngle())
}

// NewWithRegistry builds a session around an existing arena.
func NewWithRegistry(p robot.Params, reg *world.Registry, turnAngle float64) (*Sim, error) {
	r, err := robot.New(p, reg)
	if err != nil {
		return nil, fmt.Errorf("robot: %w", err)
	}
	s := &Sim{
		registry:  r.Registry(),
		robot:     r,
		radar:     sensor.NewRadar(),
		orch:      motion.NewOrchestrator(),
		turnAngle: turnAngle,
	}

	var actions motion.Actions
	actions[motion.TurningLeft] = func() { r.Turn(-s.turnAngle) }
	actions[motion.TurningRight] = func() { r.Turn(s.turnAngle) }
	actions[motion.Moving] = func() { r.Move() }

	var constraints motion.Constraints
	for _, i := range motion.Intents {
		constraints[i] = r.CheckCollisionWithWalls
	}
	if err := s.orch.Add(ActorName, actions, constraints); err != nil {
		return nil, err
	}

	r.Place()
	logScenario(s.registry, p)
	return s, nil
}

// AddObserver registers o for every subsequent frame.
func (s *Sim) AddObserver(o Observer) {
	if o != nil {
		s.observers = append(s.observers, o)
	}
}

// SetIntent sets or clears one robot intent.
func (s *Sim) SetIntent(intent motion.Intent, value bool) error {
	return s.orch.SetState(ActorName, intent, value)
}

// SetIntents replaces all robot intents.
func (s *Sim) SetIntents(states motion.States) {
	// ActorName is registered in NewWithRegistry.
	_ = s.orch.SetStates(ActorName, states)
}

// Intents returns the current robot intents.
func (s *Sim) Intents() motion.States {
	st, _ := s.orch.State(ActorName)
	return st
}

// Step advances the session one tick and returns the published frame.
func (s *Sim) Step() Frame {
	s.orch.Run()
	s.radar.Scan(s.robot, s.registry)
	s.tick++

	fr := s.Frame()
	for _, o := range s.observers {
		o.Observe(fr)
	}
	return fr
}

// Frame describes the current state without stepping.
func (s *Sim) Frame() Frame {
	return Frame{
		Tick:    s.tick,
		Pose:    s.robot.Pose(),
		Counts:  s.robot.Grid().Counts(),
		Visible: len(s.radar.Visible()),
		Bounces: s.robot.Bounces,
		Intents: s.Intents(),
	}
}

func (s *Sim) Tick() int                 { return s.tick }
func (s *Sim) Pose() robot.Pose          { return s.robot.Pose() }
func (s *Sim) Grid() *occupancy.Grid     { return s.robot.Grid() }
func (s *Sim) Registry() *world.Registry { return s.registry }
func (s *Sim) Robot() *robot.Robot       { return s.robot }
func (s *Sim) Radar() *sensor.Radar      { return s.radar }
func (s *Sim) Visible() []world.Obstacle { return s.radar.Visible() }
func (s *Sim) TurnAngle() float64        { return s.turnAngle }

// NearbyPoints returns the point obstacles whose centre lies within d of the
// robot. Game layers use it to decide what was collected; the session itself
// is not changed.
func (s *Sim) NearbyPoints(d float64) []*world.PointObstacle {
	var out []*world.PointObstacle
	for _, p := range s.registry.Points() {
		if r2.Norm(r2.Sub(p.Pos, s.robot.Pos)) <= d {
			out = append(out, p)
		}
	}
	return out
}
