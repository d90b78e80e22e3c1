// Package sensor models the robot's proximity radar.
//
// Detection is a 360 degree test: an obstacle is visible when its hitbox
// overlaps the robot's sensor hitbox. The robot's SightAngle is carried as
// configuration only and is not applied as a field-of-view filter.
package sensor

import (
	"github.com/banshee-data/arena-explorer/internal/geom"
	"github.com/banshee-data/arena-explorer/internal/monitoring"
	"github.com/banshee-data/arena-explorer/internal/occupancy"
	"github.com/banshee-data/arena-explorer/internal/robot"
	"github.com/banshee-data/arena-explorer/internal/world"
)

// Scan returns every registered obstacle inside the robot's sensor hitbox,
// walls first then point obstacles, and marks each one's footprint occupied in
// the robot's grid. Before the robot has hitboxes it returns nil and changes
// nothing.
func Scan(r *robot.Robot, reg *world.Registry) []world.Obstacle {
	if r == nil || reg == nil {
		return nil
	}
	if _, ok := r.Hitbox(); !ok {
		return nil
	}
	sensorBox, ok := r.SensorHitbox()
	if !ok {
		return nil
	}

	var visible []world.Obstacle
	grid := r.Grid()
	for _, o := range reg.All() {
		bb := o.BoundingBox()
		if !sensorBox.Intersects(bb) {
			continue
		}
		visible = append(visible, o)
		markFootprint(grid, bb)
	}
	return visible
}

// markFootprint marks every cell the obstacle box touches, including partly
// covered edge cells.
func markFootprint(g *occupancy.Grid, bb geom.Hitbox) {
	x0, y0, x1, y1 := bb.Footprint()
	g.MarkOccupied(occupancy.Cell{X: x0, Y: y0}, occupancy.Cell{X: x1, Y: y1})
}

// Radar wraps Scan and keeps what the last scan saw plus how many scans have
// seen each obstacle.
type Radar struct {
	last       []world.Obstacle
	detections map[string]int
	scans      int
}

// NewRadar returns a radar with no history.
func NewRadar() *Radar {
	return &Radar{detections: make(map[string]int)}
}

// Scan runs one sensor pass and records the result.
func (rd *Radar) Scan(r *robot.Robot, reg *world.Registry) []world.Obstacle {
	visible := Scan(r, reg)
	rd.scans++
	rd.last = visible
	for _, o := range visible {
		if rd.detections[o.ID()] == 0 {
			monitoring.Debugf("radar: first contact with %s %s", o.Kind(), o.ID())
		}
		rd.detections[o.ID()]++
	}
	return visible
}

// Visible returns the obstacles seen by the most recent scan.
func (rd *Radar) Visible() []world.Obstacle { return rd.last }

// Detections returns how many scans have seen the obstacle with the given ID.
func (rd *Radar) Detections(id string) int { return rd.detections[id] }

// Discovered returns the number of distinct obstacles seen so far.
func (rd *Radar) Discovered() int { return len(rd.detections) }

// Scans returns the number of scans performed.
func (rd *Radar) Scans() int { return rd.scans }
