package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/arena-explorer/internal/geom"
)

var (
	// ErrDegenerateWall is returned for walls whose endpoints coincide.
	ErrDegenerateWall = errors.New("degenerate wall: zero-length segment")
	// ErrInvalidObstacle is returned for negative sizes or non-finite coordinates.
	ErrInvalidObstacle = errors.New("invalid obstacle geometry")
)

// Kind tags the obstacle variant.
type Kind uint8

const (
	KindWall Kind = iota + 1
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindPoint:
		return "point"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Obstacle is the capability every registered entity exposes to the sensor
// and collision code.
type Obstacle interface {
	ID() string
	Kind() Kind
	BoundingBox() geom.Hitbox
}

// Wall is a line segment between A and B drawn with a stroke thickness.
type Wall struct {
	id        string
	A, B      geom.Vec
	Thickness float64

	unit   geom.Vec
	hitbox geom.Hitbox
}

// NewWall validates and builds a wall. The unit vector is computed here, once,
// so that no later query can divide by a zero length.
func NewWall(a, b geom.Vec, thickness float64) (*Wall, error) {
	if !finite(a) || !finite(b) || math.IsNaN(thickness) || math.IsInf(thickness, 0) {
		return nil, fmt.Errorf("wall %v-%v: %w", a, b, ErrInvalidObstacle)
	}
	if thickness < 0 {
		return nil, fmt.Errorf("wall thickness %g: %w", thickness, ErrInvalidObstacle)
	}
	d := r2.Sub(b, a)
	length := r2.Norm(d)
	if length == 0 {
		return nil, fmt.Errorf("wall at %v: %w", a, ErrDegenerateWall)
	}
	return &Wall{
		id:        "wall_" + uuid.NewString(),
		A:         a,
		B:         b,
		Thickness: thickness,
		unit:      r2.Scale(1/length, d),
		hitbox:    geom.FromSegment(a, b, thickness),
	}, nil
}

func (w *Wall) ID() string               { return w.id }
func (w *Wall) Kind() Kind               { return KindWall }
func (w *Wall) BoundingBox() geom.Hitbox { return w.hitbox }

// Length returns the segment length.
func (w *Wall) Length() float64 { return r2.Norm(r2.Sub(w.B, w.A)) }

// UnitVec returns the unit direction from A to B.
func (w *Wall) UnitVec() geom.Vec { return w.unit }

// NormalVec returns the unit normal (-u.y, u.x).
func (w *Wall) NormalVec() geom.Vec { return geom.Vec{X: -w.unit.Y, Y: w.unit.X} }

// PointObstacle is a small round object at Pos.
type PointObstacle struct {
	id     string
	Pos    geom.Vec
	Radius float64
}

// NewPointObstacle validates and builds a point obstacle.
func NewPointObstacle(pos geom.Vec, radius float64) (*PointObstacle, error) {
	if !finite(pos) || math.IsNaN(radius) || math.IsInf(radius, 0) || radius < 0 {
		return nil, fmt.Errorf("point at %v radius %g: %w", pos, radius, ErrInvalidObstacle)
	}
	return &PointObstacle{
		id:     "point_" + uuid.NewString(),
		Pos:    pos,
		Radius: radius,
	}, nil
}

func (p *PointObstacle) ID() string { return p.id }
func (p *PointObstacle) Kind() Kind { return KindPoint }

func (p *PointObstacle) BoundingBox() geom.Hitbox {
	return geom.Centered(p.Pos, p.Radius, p.Radius)
}

func finite(v geom.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
