package robot

import (
	"fmt"
	"math"

	"github.com/banshee-data/arena-explorer/internal/geom"
)

// Params configures a Robot.
type Params struct {
	Position   geom.Vec // Start position in arena units
	Heading    geom.Vec // Start orientation; normalised by New (default: (0, 1))
	Speed      float64  // Distance per move (default: 5)
	BodyRadius float64  // Half side of the body hitbox (default: 20)
	SightRange float64  // Sensing reach beyond the body (default: 30)
	SightAngle float64  // Nominal field of view in radians; stored, not applied (default: pi/2)
	GridWidth  int      // Occupancy grid width in cells (default: 600)
	GridHeight int      // Occupancy grid height in cells (default: 800)
}

// DefaultParams returns the parameters of the stock arena robot.
func DefaultParams() Params {
	return Params{
		Position:   geom.Vec{X: 500, Y: 200},
		Heading:    geom.Vec{X: 0, Y: 1},
		Speed:      5,
		BodyRadius: 20,
		SightRange: 30,
		SightAngle: math.Pi / 2,
		GridWidth:  600,
		GridHeight: 800,
	}
}

// SightRadius is the half side of the sensor hitbox.
func (p Params) SightRadius() float64 { return p.BodyRadius + p.SightRange }

// Validate checks that the parameters describe a usable robot.
func (p Params) Validate() error {
	if !finite(p.Position) {
		return fmt.Errorf("Position must be finite, got %v", p.Position)
	}
	if !finite(p.Heading) || (p.Heading.X == 0 && p.Heading.Y == 0) {
		return fmt.Errorf("Heading must be a finite non-zero vector, got %v", p.Heading)
	}
	if p.Speed < 0 || math.IsNaN(p.Speed) || math.IsInf(p.Speed, 0) {
		return fmt.Errorf("Speed must be finite and non-negative, got %f", p.Speed)
	}
	if !(p.BodyRadius > 0) || math.IsInf(p.BodyRadius, 0) {
		return fmt.Errorf("BodyRadius must be positive, got %f", p.BodyRadius)
	}
	if p.SightRange < 0 || math.IsNaN(p.SightRange) || math.IsInf(p.SightRange, 0) {
		return fmt.Errorf("SightRange must be non-negative, got %f", p.SightRange)
	}
	if p.GridWidth <= 0 || p.GridHeight <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", p.GridWidth, p.GridHeight)
	}
	return nil
}

func finite(v geom.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
