package export

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/arena-explorer/internal/fsutil"
	"github.com/banshee-data/arena-explorer/internal/geom"
	"github.com/banshee-data/arena-explorer/internal/occupancy"
	"github.com/banshee-data/arena-explorer/internal/sim"
)

// Sample is one recorded frame.
type Sample struct {
	Tick     int
	Pos      geom.Vec
	Counts   occupancy.Counts
	Coverage float64
	Visible  int
	Bounces  int
}

// Recorder collects frames from a session for later plotting. It is safe to
// read while a runner goroutine is observing.
type Recorder struct {
	mu      sync.Mutex
	samples []Sample
}

var _ sim.Observer = (*Recorder)(nil)

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Observe records fr.
func (r *Recorder) Observe(fr sim.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, Sample{
		Tick:     fr.Tick,
		Pos:      fr.Pose.Pos,
		Counts:   fr.Counts,
		Coverage: fr.Counts.Coverage(),
		Visible:  fr.Visible,
		Bounces:  fr.Bounces,
	})
}

// Samples returns a copy of the recorded samples.
func (r *Recorder) Samples() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sample, len(r.samples))
	copy(out, r.samples)
	return out
}

// Len returns the number of recorded samples.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

// Trajectory returns the recorded positions with consecutive duplicates
// (ticks spent turning or blocked) collapsed.
func (r *Recorder) Trajectory() []geom.Vec {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []geom.Vec
	for _, s := range r.samples {
		if n := len(out); n > 0 && out[n-1] == s.Pos {
			continue
		}
		out = append(out, s.Pos)
	}
	return out
}

// PlotCoverage writes a PNG of explored fraction against tick to path.
func (r *Recorder) PlotCoverage(fsys fsutil.FileSystem, path string) error {
	samples := r.Samples()
	if len(samples) < 2 {
		return fmt.Errorf("need at least 2 samples to plot coverage, have %d", len(samples))
	}

	p := plot.New()
	p.Title.Text = "Exploration Coverage"
	p.X.Label.Text = "Tick"
	p.Y.Label.Text = "Explored fraction"

	pts := make(plotter.XYs, 0, len(samples))
	for _, s := range samples {
		pts = append(pts, plotter.XY{X: float64(s.Tick), Y: s.Coverage})
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("coverage line: %w", err)
	}
	line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add("coverage", line)
	p.Legend.Top = true
	p.Legend.Left = true
	p.Y.Min = 0

	return savePNG(fsys, p, 10*vg.Inch, 4*vg.Inch, path)
}

// savePNG renders p through fsys instead of plot.Save so that tests can
// capture the output in memory.
func savePNG(fsys fsutil.FileSystem, p *plot.Plot, w, h vg.Length, path string) error {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	if err := fsys.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
