// Command explore runs a scripted exploration session without a display and
// reports how much of the arena the robot mapped.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/banshee-data/arena-explorer/internal/config"
	"github.com/banshee-data/arena-explorer/internal/export"
	"github.com/banshee-data/arena-explorer/internal/fsutil"
	"github.com/banshee-data/arena-explorer/internal/monitoring"
	"github.com/banshee-data/arena-explorer/internal/runlog"
	"github.com/banshee-data/arena-explorer/internal/sim"
	"github.com/banshee-data/arena-explorer/internal/timeutil"
	"github.com/banshee-data/arena-explorer/internal/version"
)

var (
	configPath = flag.String("config", "", "Simulation config JSON (default: "+config.DefaultConfigPath+" if present)")
	maxTicks   = flag.Int("ticks", 0, "Stop after this many ticks (0 = run the whole script)")
	realtime   = flag.Bool("realtime", false, "Pace ticks at the configured fps instead of running flat out")
	outDir     = flag.String("out", "", "Write grid.png, coverage.png and grid.html to this directory")
	dbPath     = flag.String("db", "", "Record the run to this SQLite database")
	collect    = flag.Float64("collect", 0, "Report point obstacles within this distance of the final position")
	jsonOut    = flag.Bool("json", false, "Print the summary as JSON")
	debug      = flag.Bool("debug", false, "Enable debug logging")
	showVer    = flag.Bool("version", false, "Print version and exit")
)

// options is the flag set resolved for one run.
type options struct {
	ConfigPath string
	MaxTicks   int
	Realtime   bool
	OutDir     string
	DBPath     string
	Collect    float64
	Clock      timeutil.Clock
	FS         fsutil.FileSystem
}

// summary is what a run reports on completion.
type summary struct {
	RunID     string  `json:"run_id,omitempty"`
	Ticks     int     `json:"ticks"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Coverage  float64 `json:"coverage"`
	Free      int     `json:"free"`
	Frontier  int     `json:"frontier"`
	Occupied  int     `json:"occupied"`
	Bounces   int     `json:"bounces"`
	Obstacles int     `json:"obstacles_seen"`
	Collected int     `json:"collected"`
}

func run(ctx context.Context, opts options) (summary, error) {
	if opts.FS == nil {
		opts.FS = fsutil.OSFileSystem{}
	}
	cfg, err := config.LoadOrDefault(opts.FS, opts.ConfigPath)
	if err != nil {
		return summary{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.GetDebug() {
		monitoring.SetDebug(true)
	}

	s, err := sim.New(cfg)
	if err != nil {
		return summary{}, fmt.Errorf("build session: %w", err)
	}
	rec := export.NewRecorder()
	s.AddObserver(rec)

	var sum summary
	var runRec *runlog.RunRecorder
	if opts.DBPath != "" {
		store, err := runlog.Open(opts.DBPath)
		if err != nil {
			return summary{}, fmt.Errorf("open run log: %w", err)
		}
		defer store.Close()
		r, err := store.StartRun(cfg.JSON())
		if err != nil {
			return summary{}, err
		}
		sum.RunID = r.ID
		runRec = store.Recorder(r)
		s.AddObserver(runRec)
	}

	script := sim.NewScript(cfg.Script)
	if len(cfg.Script) == 0 && opts.MaxTicks <= 0 {
		return summary{}, errors.New("config has no script; pass -ticks to run idle")
	}
	var input sim.Input = script
	if len(cfg.Script) == 0 {
		input = nil
	}

	var runErr error
	if opts.Realtime {
		runner := sim.NewRunner(s, input)
		if err := runner.Run(ctx, opts.Clock, cfg.GetFPS(), opts.MaxTicks); err != nil && !errors.Is(err, context.Canceled) {
			runErr = err
		}
	} else if input != nil {
		s.RunScript(input, opts.MaxTicks)
	} else {
		for i := 0; i < opts.MaxTicks; i++ {
			s.Step()
		}
	}

	// The run log is closed even when the runner failed, so the run keeps its
	// samples and end time.
	if runRec != nil {
		if err := runRec.Close(); err != nil && runErr == nil {
			runErr = fmt.Errorf("flush run log: %w", err)
		}
	}
	if runErr != nil {
		return summary{}, runErr
	}

	fr := s.Frame()
	sum.Ticks = fr.Tick
	sum.X, sum.Y = fr.Pose.Pos.X, fr.Pose.Pos.Y
	sum.Coverage = fr.Counts.Coverage()
	sum.Free, sum.Frontier, sum.Occupied = fr.Counts.Free, fr.Counts.Frontier, fr.Counts.Occupied
	sum.Bounces = fr.Bounces
	sum.Obstacles = s.Radar().Discovered()
	if opts.Collect > 0 {
		sum.Collected = len(s.NearbyPoints(opts.Collect))
	}

	if opts.OutDir != "" {
		if err := writeExports(opts.FS, opts.OutDir, s, rec); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

func writeExports(fsys fsutil.FileSystem, dir string, s *sim.Sim, rec *export.Recorder) error {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	traj := rec.Trajectory()
	if err := export.PlotGrid(fsys, filepath.Join(dir, "grid.png"), s.Grid(), traj); err != nil {
		return err
	}
	if rec.Len() >= 2 {
		if err := rec.PlotCoverage(fsys, filepath.Join(dir, "coverage.png")); err != nil {
			return err
		}
	}
	title := fmt.Sprintf("Arena exploration - %d ticks", s.Tick())
	if err := export.WriteGridHTML(fsys, filepath.Join(dir, "grid.html"), s.Grid(), traj, title); err != nil {
		return err
	}
	monitoring.Logf("wrote exports to %s", dir)
	return nil
}

func printSummary(w io.Writer, sum summary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}
	if sum.RunID != "" {
		fmt.Fprintf(w, "run:       %s\n", sum.RunID)
	}
	fmt.Fprintf(w, "ticks:     %d\n", sum.Ticks)
	fmt.Fprintf(w, "position:  (%.1f, %.1f)\n", sum.X, sum.Y)
	fmt.Fprintf(w, "coverage:  %.2f%%\n", 100*sum.Coverage)
	fmt.Fprintf(w, "cells:     free=%d frontier=%d occupied=%d\n", sum.Free, sum.Frontier, sum.Occupied)
	fmt.Fprintf(w, "bounces:   %d\n", sum.Bounces)
	fmt.Fprintf(w, "obstacles: %d seen, %d within reach\n", sum.Obstacles, sum.Collected)
	return nil
}

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println(version.String("explore"))
		return
	}
	monitoring.SetDebug(*debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sum, err := run(ctx, options{
		ConfigPath: *configPath,
		MaxTicks:   *maxTicks,
		Realtime:   *realtime,
		OutDir:     *outDir,
		DBPath:     *dbPath,
		Collect:    *collect,
	})
	if err != nil {
		log.Fatalf("explore: %v", err)
	}
	if err := printSummary(os.Stdout, sum, *jsonOut); err != nil {
		log.Fatalf("explore: %v", err)
	}
}
