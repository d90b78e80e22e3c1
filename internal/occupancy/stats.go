package occupancy

// Counts is the number of cells in each state.
type Counts struct {
	Unknown  int `json:"unknown"`
	Free     int `json:"free"`
	Frontier int `json:"frontier"`
	Occupied int `json:"occupied"`
}

// Total returns the number of cells counted.
func (c Counts) Total() int { return c.Unknown + c.Free + c.Frontier + c.Occupied }

// Coverage returns the fraction of counted cells that are not Unknown.
func (c Counts) Coverage() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(total-c.Unknown) / float64(total)
}

// Counts tallies the grid by state.
func (g *Grid) Counts() Counts {
	var c Counts
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			switch g.State(Cell{X: x, Y: y}) {
			case Unknown:
				c.Unknown++
			case Free:
				c.Free++
			case Frontier:
				c.Frontier++
			case Occupied:
				c.Occupied++
			}
		}
	}
	return c
}

// Coverage returns the fraction of cells that are no longer Unknown.
func (g *Grid) Coverage() float64 { return g.Counts().Coverage() }

// Cells returns every cell in the given state in row-major order.
func (g *Grid) Cells(s State) []Cell {
	var out []Cell
	if s >= numLayers {
		return out
	}
	layer := g.layers[s]
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if layer[g.Idx(x, y)] {
				out = append(out, Cell{X: x, Y: y})
			}
		}
	}
	return out
}

// Frontier returns the frontier cells in row-major order.
func (g *Grid) Frontier() []Cell { return g.Cells(Frontier) }
