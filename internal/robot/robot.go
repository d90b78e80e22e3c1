// Package robot implements the robot's kinematics and its collision
// corrector.
//
// A move runs in a fixed order: the current sensor area is marked explored,
// the position is checkpointed, the position is integrated, both hitboxes are
// recomputed, and the new body hitbox is tested against every wall. On the
// first overlapping wall the robot bounces, which restores the checkpoint.
// Hitboxes are refreshed synchronously after every pose change so collision
// queries never see stale geometry.
package robot

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/arena-explorer/internal/geom"
	"github.com/banshee-data/arena-explorer/internal/monitoring"
	"github.com/banshee-data/arena-explorer/internal/occupancy"
	"github.com/banshee-data/arena-explorer/internal/world"
)

// Pose is a read-only view of the robot's position and orientation.
type Pose struct {
	Pos         geom.Vec `json:"pos"`
	Orientation geom.Vec `json:"orientation"`
}

// Robot is the single explorer of a simulation session.
type Robot struct {
	Pos         geom.Vec
	Orientation geom.Vec
	LastPos     geom.Vec

	Speed       float64
	BodyRadius  float64
	SightRadius float64
	SightAngle  float64

	// LastContactNormal is the normal of the most recent wall bounced off.
	// It is informational only; bounce never reflects motion.
	LastContactNormal geom.Vec
	Bounces           int

	hitbox       geom.Hitbox
	sensorHitbox geom.Hitbox
	placed       bool

	grid     *occupancy.Grid
	registry *world.Registry
}

// New builds a robot with its own occupancy grid. The robot has no hitboxes
// until Place or the first pose change.
func New(p Params, reg *world.Registry) (*Robot, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	grid, err := occupancy.New(p.GridWidth, p.GridHeight)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		reg = world.NewRegistry()
	}
	return &Robot{
		Pos:         p.Position,
		LastPos:     p.Position,
		Orientation: r2.Unit(p.Heading),
		Speed:       p.Speed,
		BodyRadius:  p.BodyRadius,
		SightRadius: p.SightRadius(),
		SightAngle:  p.SightAngle,
		grid:        grid,
		registry:    reg,
	}, nil
}

// Grid returns the robot's occupancy grid.
func (r *Robot) Grid() *occupancy.Grid { return r.grid }

// Registry returns the registry the robot collides against.
func (r *Robot) Registry() *world.Registry { return r.registry }

// Pose returns the current pose.
func (r *Robot) Pose() Pose {
	return Pose{Pos: r.Pos, Orientation: r.Orientation}
}

// Place computes the hitboxes for the current position.
func (r *Robot) Place() { r.RefreshHitboxes() }

// RefreshHitboxes recomputes the body and sensor hitboxes from Pos.
func (r *Robot) RefreshHitboxes() {
	r.hitbox = geom.Centered(r.Pos, r.BodyRadius, r.BodyRadius)
	r.sensorHitbox = geom.Centered(r.Pos, r.SightRadius, r.SightRadius)
	r.placed = true
}

// Hitbox returns the body hitbox; ok is false before the first refresh.
func (r *Robot) Hitbox() (h geom.Hitbox, ok bool) { return r.hitbox, r.placed }

// SensorHitbox returns the sensor hitbox; ok is false before the first refresh.
func (r *Robot) SensorHitbox() (h geom.Hitbox, ok bool) { return r.sensorHitbox, r.placed }

// Move advances the robot one step along its orientation and resolves any
// resulting wall overlap. It reports whether the move was reverted.
func (r *Robot) Move() bool {
	if r.placed {
		x0, y0, x1, y1 := r.sensorHitbox.Cells()
		r.grid.MarkExplored(occupancy.Cell{X: x0, Y: y0}, occupancy.Cell{X: x1, Y: y1})
	}
	r.LastPos = r.Pos
	r.Pos = r2.Add(r.Pos, r2.Scale(r.Speed, r.Orientation))
	r.RefreshHitboxes()
	return r.CheckCollisionWithWalls()
}

// Turn rotates the orientation by angle radians. Positive angles turn
// clockwise on screen (y grows downward).
func (r *Robot) Turn(angle float64) {
	o := r2.Rotate(r.Orientation, angle, geom.Vec{})
	if n := r2.Norm(o); n > 0 {
		o = r2.Scale(1/n, o)
	}
	r.Orientation = o
	r.RefreshHitboxes()
}

// CheckCollisionWithWalls bounces off the first wall whose hitbox overlaps
// the body hitbox and reports whether one did. Before the robot has a hitbox
// it reports false.
func (r *Robot) CheckCollisionWithWalls() bool {
	if !r.placed {
		return false
	}
	for _, w := range r.registry.Walls() {
		if r.hitbox.Intersects(w.BoundingBox()) {
			r.Bounce(w)
			return true
		}
	}
	return false
}

// Bounce reverts the position to the pre-move checkpoint. The wall normal is
// recorded but not used to reflect the orientation.
func (r *Robot) Bounce(w *world.Wall) {
	r.Pos = r.LastPos
	r.RefreshHitboxes()
	r.Bounces++
	if w != nil {
		r.LastContactNormal = w.NormalVec()
		monitoring.Debugf("robot bounced off %s at %v", w.ID(), r.Pos)
	}
}
