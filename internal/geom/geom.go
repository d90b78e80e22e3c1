// Package geom holds the axis-aligned geometry shared by the registry, the
// robot and the sensor. Coordinates follow the screen convention: x grows to
// the right, y grows downward, so TopLeft carries the smaller values.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a 2D position or direction in arena units.
type Vec = r2.Vec

// Hitbox is an axis-aligned bounding rectangle used for overlap tests.
type Hitbox struct {
	TopLeft     Vec
	BottomRight Vec
}

// NewHitbox builds a hitbox from any two opposite corners.
func NewHitbox(a, b Vec) Hitbox {
	return Hitbox{
		TopLeft:     Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		BottomRight: Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

// Centered returns the hitbox of half-extents (halfW, halfH) around center.
func Centered(center Vec, halfW, halfH float64) Hitbox {
	return Hitbox{
		TopLeft:     Vec{X: center.X - halfW, Y: center.Y - halfH},
		BottomRight: Vec{X: center.X + halfW, Y: center.Y + halfH},
	}
}

// FromSegment returns the bounding box of the segment a-b drawn with the
// given stroke thickness.
func FromSegment(a, b Vec, thickness float64) Hitbox {
	h := NewHitbox(a, b)
	return h.Inflate(thickness / 2)
}

// Inflate grows the box by d on every side.
func (h Hitbox) Inflate(d float64) Hitbox {
	h.TopLeft = r2.Sub(h.TopLeft, Vec{X: d, Y: d})
	h.BottomRight = r2.Add(h.BottomRight, Vec{X: d, Y: d})
	return h
}

func (h Hitbox) Width() float64  { return h.BottomRight.X - h.TopLeft.X }
func (h Hitbox) Height() float64 { return h.BottomRight.Y - h.TopLeft.Y }

// Center returns the midpoint of the box.
func (h Hitbox) Center() Vec {
	return r2.Scale(0.5, r2.Add(h.TopLeft, h.BottomRight))
}

// Intersects reports whether the two boxes overlap with positive area.
// Boxes that only share an edge do not intersect, matching the half-open
// rectangle convention used by the occupancy grid.
func (h Hitbox) Intersects(o Hitbox) bool {
	return h.TopLeft.X < o.BottomRight.X && o.TopLeft.X < h.BottomRight.X &&
		h.TopLeft.Y < o.BottomRight.Y && o.TopLeft.Y < h.BottomRight.Y
}

// Contains reports whether p lies inside the half-open box.
func (h Hitbox) Contains(p Vec) bool {
	return p.X >= h.TopLeft.X && p.X < h.BottomRight.X &&
		p.Y >= h.TopLeft.Y && p.Y < h.BottomRight.Y
}

// Cells returns the half-open integer cell range [x0,x1) x [y0,y1) covered by
// the box. Both corners are floored, so a box of width 10 starting at 0.5
// covers cells 0..9.
func (h Hitbox) Cells() (x0, y0, x1, y1 int) {
	return int(math.Floor(h.TopLeft.X)), int(math.Floor(h.TopLeft.Y)),
		int(math.Floor(h.BottomRight.X)), int(math.Floor(h.BottomRight.Y))
}

// Footprint returns the half-open cell range of every cell the box touches:
// the top-left corner is floored and the bottom-right corner is ceiled. An
// axis with no extent still covers the cell it lies in, so a zero-thickness
// wall or a sub-cell point always maps to at least one cell.
func (h Hitbox) Footprint() (x0, y0, x1, y1 int) {
	x0, y0 = int(math.Floor(h.TopLeft.X)), int(math.Floor(h.TopLeft.Y))
	x1, y1 = int(math.Ceil(h.BottomRight.X)), int(math.Ceil(h.BottomRight.Y))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return x0, y0, x1, y1
}
