// Command explore-tui drives the robot from the keyboard in a terminal. The
// arena is drawn on the left and the robot's occupancy map on the right.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/banshee-data/arena-explorer/internal/config"
	"github.com/banshee-data/arena-explorer/internal/fsutil"
	"github.com/banshee-data/arena-explorer/internal/monitoring"
	"github.com/banshee-data/arena-explorer/internal/sim"
	"github.com/banshee-data/arena-explorer/internal/timeutil"
	"github.com/banshee-data/arena-explorer/internal/version"
)

var (
	configPath = flag.String("config", "", "Simulation config JSON (default: "+config.DefaultConfigPath+" if present)")
	hold       = flag.Duration("hold", 150*time.Millisecond, "How long a key press keeps its intent active")
	logPath    = flag.String("log", "", "Write log output to this file instead of discarding it")
	showVer    = flag.Bool("version", false, "Print version and exit")
)

// app owns the screen and the session. Everything runs on the loop
// goroutine except the event poller.
type app struct {
	screen tcell.Screen
	clock  timeutil.Clock
	sim    *sim.Sim
	input  *holdInput
	fps    int
	arenaW float64
	arenaH float64
}

// handleEvent applies one terminal event and reports whether to keep running.
func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
			return false
		}
		if ev.Key() == tcell.KeyDown || (ev.Key() == tcell.KeyRune && ev.Rune() == ' ') {
			a.input.Release()
			return true
		}
		if i, ok := intentForKey(ev); ok {
			a.input.Press(i)
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

// tick feeds the held intents to the session and steps it once.
func (a *app) tick() {
	st, _ := a.input.Next()
	a.sim.SetIntents(st)
	a.sim.Step()
}

func (a *app) run() {
	ticker := a.clock.NewTicker(time.Second / time.Duration(a.fps))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleEvent(ev) {
				return
			}
		case <-ticker.C():
			a.tick()
			a.screen.Clear()
			draw(a.screen, a.sim, a.arenaW, a.arenaH)
			a.screen.Show()
		}
	}
}

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println(version.String("explore-tui"))
		return
	}

	// The screen owns the terminal, so log lines go to a file or nowhere.
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open log: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		monitoring.SetLogger(nil)
	}

	cfg, err := config.LoadOrDefault(fsutil.OSFileSystem{}, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	monitoring.SetDebug(cfg.GetDebug())
	s, err := sim.New(cfg)
	if err != nil {
		log.Fatalf("build session: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("init screen: %v", err)
	}

	clock := timeutil.RealClock{}
	a := &app{
		screen: screen,
		clock:  clock,
		sim:    s,
		input:  newHoldInput(clock, *hold),
		fps:    cfg.GetFPS(),
		arenaW: cfg.GetArenaWidth(),
		arenaH: cfg.GetArenaHeight(),
	}
	a.run()
	screen.Fini()

	fr := s.Frame()
	fmt.Printf("explored %.1f%% in %d ticks, %d obstacles seen\n",
		100*fr.Counts.Coverage(), fr.Tick, s.Radar().Discovered())
}
