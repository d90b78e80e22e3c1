package world

import (
	"fmt"

	"github.com/banshee-data/arena-explorer/internal/geom"
)

// BoundaryWalls encloses a width x height arena with walls set inset units
// from each edge. Each side is split into divisions equal segments so that
// collision reports identify which stretch of the perimeter was hit.
func BoundaryWalls(width, height, inset float64, divisions int, thickness float64) ([]*Wall, error) {
	if divisions < 1 {
		return nil, fmt.Errorf("boundary divisions %d: %w", divisions, ErrInvalidObstacle)
	}
	if width <= 2*inset || height <= 2*inset {
		return nil, fmt.Errorf("arena %gx%g too small for inset %g: %w", width, height, inset, ErrInvalidObstacle)
	}

	tl := geom.Vec{X: inset, Y: inset}
	tr := geom.Vec{X: width - inset, Y: inset}
	br := geom.Vec{X: width - inset, Y: height - inset}
	bl := geom.Vec{X: inset, Y: height - inset}

	var walls []*Wall
	for _, side := range [][2]geom.Vec{{tl, tr}, {tr, br}, {bl, br}, {tl, bl}} {
		segs, err := splitSegment(side[0], side[1], divisions, thickness)
		if err != nil {
			return nil, err
		}
		walls = append(walls, segs...)
	}
	return walls, nil
}

// RectangleWalls returns the four sides of the box outline spanned by
// corners a and b.
func RectangleWalls(a, b geom.Vec, thickness float64) ([]*Wall, error) {
	h := geom.NewHitbox(a, b)
	tl, br := h.TopLeft, h.BottomRight
	tr := geom.Vec{X: br.X, Y: tl.Y}
	bl := geom.Vec{X: tl.X, Y: br.Y}

	walls := make([]*Wall, 0, 4)
	for _, side := range [][2]geom.Vec{{tl, tr}, {tr, br}, {bl, br}, {tl, bl}} {
		w, err := NewWall(side[0], side[1], thickness)
		if err != nil {
			return nil, fmt.Errorf("box %v-%v: %w", a, b, err)
		}
		walls = append(walls, w)
	}
	return walls, nil
}

func splitSegment(a, b geom.Vec, n int, thickness float64) ([]*Wall, error) {
	walls := make([]*Wall, 0, n)
	step := geom.Vec{X: (b.X - a.X) / float64(n), Y: (b.Y - a.Y) / float64(n)}
	for i := 0; i < n; i++ {
		from := geom.Vec{X: a.X + step.X*float64(i), Y: a.Y + step.Y*float64(i)}
		to := geom.Vec{X: a.X + step.X*float64(i+1), Y: a.Y + step.Y*float64(i+1)}
		if i == n-1 {
			to = b
		}
		w, err := NewWall(from, to, thickness)
		if err != nil {
			return nil, err
		}
		walls = append(walls, w)
	}
	return walls, nil
}
