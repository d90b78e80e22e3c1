package occupancy

import (
	"fmt"
	"math"

	"github.com/banshee-data/arena-explorer/internal/geom"
)

// Layer selects one of the four boolean layers.
type Layer uint8

const (
	LayerUnknown Layer = iota
	LayerFree
	LayerFrontier
	LayerOccupied
	numLayers
)

func (l Layer) String() string {
	switch l {
	case LayerUnknown:
		return "unknown"
	case LayerFree:
		return "free"
	case LayerFrontier:
		return "frontier"
	case LayerOccupied:
		return "occupied"
	default:
		return fmt.Sprintf("layer(%d)", uint8(l))
	}
}

// State is the logical classification of one cell.
type State = Layer

const (
	Unknown  = LayerUnknown
	Free     = LayerFree
	Frontier = LayerFrontier
	Occupied = LayerOccupied
)

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y int
}

// CellOf returns the cell containing v (floor on both axes).
func CellOf(v geom.Vec) Cell {
	return Cell{X: int(math.Floor(v.X)), Y: int(math.Floor(v.Y))}
}

// neighborOffsets lists the eight surrounding offsets in row-major order.
var neighborOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Grid is a fixed-size occupancy grid covering [0,W) x [0,H).
type Grid struct {
	width, height int

	// layers[l] has len = width*height, indexed by Idx.
	layers [numLayers][]bool
}

// New creates a grid with every cell Unknown.
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", width, height)
	}
	g := &Grid{width: width, height: height}
	for l := range g.layers {
		g.layers[l] = make([]bool, width*height)
	}
	g.Reset()
	return g, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Idx returns the flat index of (x, y). The caller must check In first.
func (g *Grid) Idx(x, y int) int { return y*g.width + x }

// In reports whether p lies inside the grid.
func (g *Grid) In(p Cell) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Reset returns every cell to Unknown.
func (g *Grid) Reset() {
	for l := range g.layers {
		v := Layer(l) == LayerUnknown
		for i := range g.layers[l] {
			g.layers[l][i] = v
		}
	}
}

// State returns the state of p. Cells outside the grid report Unknown.
func (g *Grid) State(p Cell) State {
	if !g.In(p) {
		return Unknown
	}
	i := g.Idx(p.X, p.Y)
	switch {
	case g.layers[LayerOccupied][i]:
		return Occupied
	case g.layers[LayerFrontier][i]:
		return Frontier
	case g.layers[LayerFree][i]:
		return Free
	default:
		return Unknown
	}
}

// Is reports the raw value of one layer at p; false outside the grid.
func (g *Grid) Is(layer Layer, p Cell) bool {
	if layer >= numLayers || !g.In(p) {
		return false
	}
	return g.layers[layer][g.Idx(p.X, p.Y)]
}

func (g *Grid) set(i int, s State) {
	for l := range g.layers {
		g.layers[l][i] = Layer(l) == s
	}
}

// clamp restricts the half-open rectangle [tl, br) to the grid. ok is false
// when nothing of it remains.
func (g *Grid) clamp(tl, br Cell) (x0, y0, x1, y1 int, ok bool) {
	x0, y0 = max(tl.X, 0), max(tl.Y, 0)
	x1, y1 = min(br.X, g.width), min(br.Y, g.height)
	return x0, y0, x1, y1, x0 < x1 && y0 < y1
}

// MarkOccupied sets every cell of [tl, br) to Occupied.
func (g *Grid) MarkOccupied(tl, br Cell) {
	x0, y0, x1, y1, ok := g.clamp(tl, br)
	if !ok {
		return
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			g.set(g.Idx(x, y), Occupied)
		}
	}
}

// MarkExplored records that [tl, br) has been swept by the sensor. Every
// non-Occupied cell inside becomes Free; afterwards each non-Occupied cell on
// the rectangle's perimeter that still touches an Unknown cell becomes
// Frontier. Occupied cells are never downgraded.
func (g *Grid) MarkExplored(tl, br Cell) {
	x0, y0, x1, y1, ok := g.clamp(tl, br)
	if !ok {
		return
	}
	occ := g.layers[LayerOccupied]
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if i := g.Idx(x, y); !occ[i] {
				g.set(i, Free)
			}
		}
	}

	// Perimeter pass runs after the fill so that interior cells, now Free,
	// do not count as unknown neighbours.
	g.forPerimeter(x0, y0, x1, y1, func(x, y int) {
		i := g.Idx(x, y)
		if occ[i] {
			return
		}
		if g.touchesUnknown(Cell{X: x, Y: y}) {
			g.set(i, Frontier)
		}
	})
}

func (g *Grid) forPerimeter(x0, y0, x1, y1 int, fn func(x, y int)) {
	for x := x0; x < x1; x++ {
		fn(x, y0)
		if y1-1 != y0 {
			fn(x, y1-1)
		}
	}
	for y := y0 + 1; y < y1-1; y++ {
		fn(x0, y)
		if x1-1 != x0 {
			fn(x1-1, y)
		}
	}
}

func (g *Grid) touchesUnknown(p Cell) bool {
	unknown := g.layers[LayerUnknown]
	for _, d := range neighborOffsets {
		n := Cell{X: p.X + d[0], Y: p.Y + d[1]}
		if g.In(n) && unknown[g.Idx(n.X, n.Y)] {
			return true
		}
	}
	return false
}

// Neighbors8 returns the in-bounds cells surrounding p, in row-major order.
// p itself is never included. Points outside the grid are accepted; only
// their in-bounds neighbours are returned.
func (g *Grid) Neighbors8(p Cell) []Cell {
	out := make([]Cell, 0, 8)
	for _, d := range neighborOffsets {
		n := Cell{X: p.X + d[0], Y: p.Y + d[1]}
		if g.In(n) {
			out = append(out, n)
		}
	}
	return out
}

// Snapshot returns a copy of one layer indexed [y][x]. An unknown layer value
// yields nil.
func (g *Grid) Snapshot(layer Layer) [][]bool {
	if layer >= numLayers {
		return nil
	}
	src := g.layers[layer]
	out := make([][]bool, g.height)
	for y := range out {
		row := make([]bool, g.width)
		copy(row, src[y*g.width:(y+1)*g.width])
		out[y] = row
	}
	return out
}
