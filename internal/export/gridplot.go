package export

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/arena-explorer/internal/fsutil"
	"github.com/banshee-data/arena-explorer/internal/geom"
	"github.com/banshee-data/arena-explorer/internal/occupancy"
)

// MaxPlotPoints bounds the number of cells drawn per layer; larger layers are
// downsampled by stride.
const MaxPlotPoints = 20000

var layerColors = map[occupancy.State]color.Color{
	occupancy.Free:     color.RGBA{R: 200, G: 230, B: 201, A: 255},
	occupancy.Frontier: color.RGBA{R: 255, G: 152, B: 0, A: 255},
	occupancy.Occupied: color.RGBA{R: 33, G: 33, B: 33, A: 255},
}

// cellXYs returns the centres of every cell in state s, strided to at most
// MaxPlotPoints entries.
func cellXYs(g *occupancy.Grid, s occupancy.State) plotter.XYs {
	cells := g.Cells(s)
	stride := 1
	if len(cells) > MaxPlotPoints {
		stride = (len(cells) + MaxPlotPoints - 1) / MaxPlotPoints
	}
	pts := make(plotter.XYs, 0, len(cells)/stride+1)
	for i := 0; i < len(cells); i += stride {
		pts = append(pts, plotter.XY{X: float64(cells[i].X) + 0.5, Y: float64(cells[i].Y) + 0.5})
	}
	return pts
}

// PlotGrid writes a PNG of the grid's known cells with the robot trajectory
// on top. Arena coordinates are drawn as-is, so y grows upward in the image.
func PlotGrid(fsys fsutil.FileSystem, path string, g *occupancy.Grid, trajectory []geom.Vec) error {
	if g == nil {
		return fmt.Errorf("nil grid")
	}
	c := g.Counts()

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Occupancy Grid - %.1f%% explored", 100*c.Coverage())
	p.X.Label.Text = "X (cells)"
	p.Y.Label.Text = "Y (cells)"

	for _, s := range []occupancy.State{occupancy.Free, occupancy.Frontier, occupancy.Occupied} {
		pts := cellXYs(g, s)
		if len(pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("%s scatter: %w", s, err)
		}
		sc.GlyphStyle.Color = layerColors[s]
		sc.GlyphStyle.Radius = vg.Points(0.5)
		sc.GlyphStyle.Shape = draw.BoxGlyph{}
		p.Add(sc)
		p.Legend.Add(s.String(), sc)
	}

	if len(trajectory) >= 2 {
		pts := make(plotter.XYs, len(trajectory))
		for i, v := range trajectory {
			pts[i] = plotter.XY{X: v.X, Y: v.Y}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("trajectory line: %w", err)
		}
		line.Color = color.RGBA{R: 214, G: 39, B: 40, A: 255}
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add("trajectory", line)
	}

	p.X.Min, p.X.Max = 0, float64(g.Width())
	p.Y.Min, p.Y.Max = 0, float64(g.Height())
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	// Keep the aspect ratio of the arena, 8 inches on the long side.
	long := 8 * vg.Inch
	w, h := long, long
	if g.Width() > g.Height() {
		h = long * vg.Length(g.Height()) / vg.Length(g.Width())
	} else {
		w = long * vg.Length(g.Width()) / vg.Length(g.Height())
	}
	if w < 3*vg.Inch {
		w = 3 * vg.Inch
	}
	if h < 3*vg.Inch {
		h = 3 * vg.Inch
	}
	return savePNG(fsys, p, w, h, path)
}
