package world

import (
	"fmt"

	"github.com/banshee-data/arena-explorer/internal/geom"
	"github.com/banshee-data/arena-explorer/internal/monitoring"
)

// Registry holds the live obstacles of one simulation. It is passed by
// reference to the sensor and collision code; independent registries give
// independent simulations.
type Registry struct {
	walls  []*Wall
	points []*PointObstacle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// AddWall validates and registers a wall.
func (r *Registry) AddWall(a, b geom.Vec, thickness float64) (*Wall, error) {
	w, err := NewWall(a, b, thickness)
	if err != nil {
		return nil, err
	}
	r.walls = append(r.walls, w)
	return w, nil
}

// AddWalls registers pre-built walls. A nil wall aborts the batch and nothing
// from it is registered.
func (r *Registry) AddWalls(walls ...*Wall) error {
	for i, w := range walls {
		if w == nil {
			return fmt.Errorf("wall %d of batch: %w", i, ErrInvalidObstacle)
		}
	}
	r.walls = append(r.walls, walls...)
	return nil
}

// AddPoint validates and registers a point obstacle.
func (r *Registry) AddPoint(pos geom.Vec, radius float64) (*PointObstacle, error) {
	p, err := NewPointObstacle(pos, radius)
	if err != nil {
		return nil, err
	}
	r.points = append(r.points, p)
	return p, nil
}

// Walls returns the registered walls in registration order. The slice must
// not be modified.
func (r *Registry) Walls() []*Wall { return r.walls }

// Points returns the registered point obstacles in registration order. The
// slice must not be modified.
func (r *Registry) Points() []*PointObstacle { return r.points }

// All returns every obstacle, walls first, each group in registration order.
func (r *Registry) All() []Obstacle {
	out := make([]Obstacle, 0, len(r.walls)+len(r.points))
	for _, w := range r.walls {
		out = append(out, w)
	}
	for _, p := range r.points {
		out = append(out, p)
	}
	return out
}

// Len returns the total number of registered obstacles.
func (r *Registry) Len() int { return len(r.walls) + len(r.points) }

// LogSummary writes a one-line inventory through the monitoring logger.
func (r *Registry) LogSummary() {
	monitoring.Logf("registry: %d walls, %d point obstacles", len(r.walls), len(r.points))
}
