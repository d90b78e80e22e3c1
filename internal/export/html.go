package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/arena-explorer/internal/fsutil"
	"github.com/banshee-data/arena-explorer/internal/geom"
	"github.com/banshee-data/arena-explorer/internal/occupancy"
)

// EchartsAssetsHost is where rendered pages load the echarts script from.
var EchartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

var layerHex = map[occupancy.State]string{
	occupancy.Free:     "#c8e6c9",
	occupancy.Frontier: "#ff9800",
	occupancy.Occupied: "#212121",
}

func scatterCells(g *occupancy.Grid, s occupancy.State) []opts.ScatterData {
	pts := cellXYs(g, s)
	data := make([]opts.ScatterData, 0, len(pts))
	for _, p := range pts {
		data = append(data, opts.ScatterData{Value: []interface{}{p.X, p.Y}})
	}
	return data
}

// RenderGridHTML writes an interactive scatter of the grid's known cells and
// the trajectory to w.
func RenderGridHTML(w io.Writer, g *occupancy.Grid, trajectory []geom.Vec, title string) error {
	if g == nil {
		return fmt.Errorf("nil grid")
	}
	c := g.Counts()

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px", AssetsHost: EchartsAssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("free=%d frontier=%d occupied=%d coverage=%.3f", c.Free, c.Frontier, c.Occupied, c.Coverage())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: 0, Max: g.Width(), Name: "X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: 0, Max: g.Height(), Name: "Y", NameLocation: "middle", NameGap: 30}),
	)

	for _, s := range []occupancy.State{occupancy.Free, occupancy.Frontier, occupancy.Occupied} {
		scatter.AddSeries(s.String(), scatterCells(g, s),
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 2}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: layerHex[s]}),
		)
	}

	path := make([]opts.ScatterData, 0, len(trajectory))
	for _, v := range trajectory {
		path = append(path, opts.ScatterData{Value: []interface{}{v.X, v.Y}})
	}
	scatter.AddSeries("trajectory", path,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#d62728"}),
	)

	return scatter.Render(w)
}

// WriteGridHTML renders the grid page to path through fsys.
func WriteGridHTML(fsys fsutil.FileSystem, path string, g *occupancy.Grid, trajectory []geom.Vec, title string) error {
	var buf bytes.Buffer
	if err := RenderGridHTML(&buf, g, trajectory, title); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return fsys.WriteFile(path, buf.Bytes(), 0o644)
}
