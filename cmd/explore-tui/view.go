package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/banshee-data/arena-explorer/internal/geom"
	"github.com/banshee-data/arena-explorer/internal/occupancy"
	"github.com/banshee-data/arena-explorer/internal/sim"
)

// canvas is the part of tcell.Screen the view draws on.
type canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

var (
	styleWall     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePoint    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleRobot    = tcell.StyleDefault.Foreground(tcell.ColorLightGreen).Bold(true)
	styleSensor   = tcell.StyleDefault.Foreground(tcell.ColorDarkCyan)
	styleFree     = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	styleFrontier = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleOccupied = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

// panel maps a rectangle of terminal cells onto the arena.
type panel struct {
	x0, y0, w, h int
	arenaW       float64
	arenaH       float64
}

// cellRect returns the arena rectangle covered by terminal cell (cx, cy) of
// the panel.
func (p panel) cellRect(cx, cy int) geom.Hitbox {
	sx, sy := p.arenaW/float64(p.w), p.arenaH/float64(p.h)
	return geom.NewHitbox(
		geom.Vec{X: float64(cx) * sx, Y: float64(cy) * sy},
		geom.Vec{X: float64(cx+1) * sx, Y: float64(cy+1) * sy},
	)
}

// toCell returns the panel cell containing arena point v.
func (p panel) toCell(v geom.Vec) (int, int, bool) {
	cx := int(math.Floor(v.X * float64(p.w) / p.arenaW))
	cy := int(math.Floor(v.Y * float64(p.h) / p.arenaH))
	return cx, cy, cx >= 0 && cy >= 0 && cx < p.w && cy < p.h
}

// layout splits the screen into the world panel, the map panel and a status
// row at the bottom.
func layout(width, height int, arenaW, arenaH float64) (world, grid panel, ok bool) {
	rows := height - 1
	cols := (width - 1) / 2
	if rows < 2 || cols < 2 {
		return panel{}, panel{}, false
	}
	world = panel{x0: 0, y0: 0, w: cols, h: rows, arenaW: arenaW, arenaH: arenaH}
	grid = panel{x0: cols + 1, y0: 0, w: cols, h: rows, arenaW: arenaW, arenaH: arenaH}
	return world, grid, true
}

func drawText(c canvas, x, y int, s string, style tcell.Style) {
	w, _ := c.Size()
	for _, r := range s {
		if x >= w {
			return
		}
		c.SetContent(x, y, r, nil, style)
		x++
	}
}

// drawWorld draws walls, point obstacles, the sensor outline and the robot.
func drawWorld(c canvas, p panel, s *sim.Sim) {
	for cy := 0; cy < p.h; cy++ {
		for cx := 0; cx < p.w; cx++ {
			r := p.cellRect(cx, cy)
			ch, style := ' ', tcell.StyleDefault
			for _, w := range s.Registry().Walls() {
				if r.Intersects(w.BoundingBox()) {
					ch, style = '#', styleWall
					break
				}
			}
			if ch == ' ' {
				for _, pt := range s.Registry().Points() {
					if r.Intersects(pt.BoundingBox()) {
						ch, style = '*', stylePoint
						break
					}
				}
			}
			c.SetContent(p.x0+cx, p.y0+cy, ch, nil, style)
		}
	}

	if sb, ok := s.Robot().SensorHitbox(); ok {
		x0, y0, _ := p.toCell(sb.TopLeft)
		x1, y1, _ := p.toCell(sb.BottomRight)
		for x := x0; x <= x1; x++ {
			for _, y := range []int{y0, y1} {
				if x >= 0 && y >= 0 && x < p.w && y < p.h {
					c.SetContent(p.x0+x, p.y0+y, '.', nil, styleSensor)
				}
			}
		}
	}

	pose := s.Pose()
	if x, y, ok := p.toCell(pose.Pos); ok {
		c.SetContent(p.x0+x, p.y0+y, headingRune(pose.Orientation), nil, styleRobot)
	}
}

// headingRune picks an arrow for the orientation; y grows downward.
func headingRune(o geom.Vec) rune {
	if math.Abs(o.X) > math.Abs(o.Y) {
		if o.X > 0 {
			return '>'
		}
		return '<'
	}
	if o.Y > 0 {
		return 'v'
	}
	return '^'
}

// blockState summarises the grid cells under one terminal cell, taking the
// most significant state present.
func blockState(g *occupancy.Grid, r geom.Hitbox) occupancy.State {
	x0, y0, x1, y1 := r.Cells()
	if x1 == x0 {
		x1++
	}
	if y1 == y0 {
		y1++
	}
	best := occupancy.Unknown
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			st := g.State(occupancy.Cell{X: x, Y: y})
			if st == occupancy.Occupied {
				return st
			}
			if st > best {
				best = st
			}
		}
	}
	return best
}

// drawGrid draws the robot's occupancy map.
func drawGrid(c canvas, p panel, g *occupancy.Grid) {
	for cy := 0; cy < p.h; cy++ {
		for cx := 0; cx < p.w; cx++ {
			ch, style := ' ', tcell.StyleDefault
			switch blockState(g, p.cellRect(cx, cy)) {
			case occupancy.Free:
				ch, style = '.', styleFree
			case occupancy.Frontier:
				ch, style = '+', styleFrontier
			case occupancy.Occupied:
				ch, style = '#', styleOccupied
			}
			c.SetContent(p.x0+cx, p.y0+cy, ch, nil, style)
		}
	}
}

func statusLine(fr sim.Frame) string {
	return fmt.Sprintf(" tick %d  pos (%.0f, %.0f)  explored %.1f%%  frontier %d  seen %d  bounces %d   arrows: move/turn  q: quit ",
		fr.Tick, fr.Pose.Pos.X, fr.Pose.Pos.Y, 100*fr.Counts.Coverage(), fr.Counts.Frontier, fr.Visible, fr.Bounces)
}

// draw renders one full frame. It returns false when the screen is too small.
func draw(c canvas, s *sim.Sim, arenaW, arenaH float64) bool {
	width, height := c.Size()
	world, grid, ok := layout(width, height, arenaW, arenaH)
	if !ok {
		drawText(c, 0, 0, "terminal too small", styleStatus)
		return false
	}
	drawWorld(c, world, s)
	for y := 0; y < world.h; y++ {
		c.SetContent(world.w, y, '|', nil, styleWall)
	}
	drawGrid(c, grid, s.Grid())

	line := statusLine(s.Frame())
	for x := 0; x < width; x++ {
		c.SetContent(x, height-1, ' ', nil, styleStatus)
	}
	drawText(c, 0, height-1, line, styleStatus)
	return true
}
