package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/arena-explorer/internal/fsutil"
	"github.com/banshee-data/arena-explorer/internal/monitoring"
)

func writeFile(t *testing.T, fsys fsutil.FileSystem, name, body string) {
	t.Helper()
	if err := fsys.WriteFile(name, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
}

func TestEmptyConfigDefaults(t *testing.T) {
	cfg := &SimConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	floats := []struct {
		name string
		got  float64
		want float64
	}{
		{"ArenaWidth", cfg.GetArenaWidth(), 600},
		{"ArenaHeight", cfg.GetArenaHeight(), 800},
		{"BoundaryInset", cfg.GetBoundaryInset(), 5},
		{"WallThickness", cfg.GetWallThickness(), 5},
		{"StartX", cfg.GetStartX(), 500},
		{"StartY", cfg.GetStartY(), 200},
		{"HeadingX", cfg.GetHeadingX(), 0},
		{"HeadingY", cfg.GetHeadingY(), 1},
		{"Speed", cfg.GetSpeed(), 5},
		{"BodyRadius", cfg.GetBodyRadius(), 20},
		{"SightRange", cfg.GetSightRange(), 30},
		{"SightAngle", cfg.GetSightAngle(), math.Pi / 2},
		{"TurnAngle", cfg.GetTurnAngle(), 0.05},
	}
	for _, f := range floats {
		if f.got != f.want {
			t.Errorf("Get%s() = %v, want %v", f.name, f.got, f.want)
		}
	}
	if cfg.GetBoundaryDivisions() != 10 {
		t.Errorf("GetBoundaryDivisions() = %d, want 10", cfg.GetBoundaryDivisions())
	}
	if cfg.GetFPS() != 60 {
		t.Errorf("GetFPS() = %d, want 60", cfg.GetFPS())
	}
	if cfg.GetDebug() {
		t.Error("GetDebug() = true, want false")
	}

	if w, h := cfg.GridSize(); w != 600 || h != 800 {
		t.Errorf("GridSize() = %dx%d, want 600x800", w, h)
	}
	if cfg.ScriptTicks() != 0 {
		t.Errorf("ScriptTicks() = %d, want 0", cfg.ScriptTicks())
	}
}

func TestLoadSimConfigFS_Partial(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	writeFile(t, fsys, "cfg/run.json", `{
  "arena_width": 200.5,
  "start_x": 100,
  "start_y": 100,
  "turn_angle": -0.1,
  "walls": [{"a": {"x": 10, "y": 10}, "b": {"x": 50, "y": 10}}],
  "script": [{"ticks": 3, "moving": true}, {"ticks": 2, "intents": ["turning_left", "moving"]}]
}`)

	cfg, err := LoadSimConfigFS(fsys, "cfg/run.json")
	if err != nil {
		t.Fatalf("LoadSimConfigFS: %v", err)
	}

	if cfg.GetArenaWidth() != 200.5 {
		t.Errorf("GetArenaWidth() = %v, want 200.5", cfg.GetArenaWidth())
	}
	// Omitted fields keep their defaults.
	if cfg.GetArenaHeight() != 800 {
		t.Errorf("GetArenaHeight() = %v, want 800", cfg.GetArenaHeight())
	}
	if cfg.GetTurnAngle() != -0.1 {
		t.Errorf("GetTurnAngle() = %v, want -0.1", cfg.GetTurnAngle())
	}
	if cfg.ScriptTicks() != 5 {
		t.Errorf("ScriptTicks() = %d, want 5", cfg.ScriptTicks())
	}
	if got := cfg.Script[1].Intents; len(got) != 2 || got[0] != "turning_left" {
		t.Errorf("Script[1].Intents = %v", got)
	}
	if len(cfg.Walls) != 1 {
		t.Fatalf("len(Walls) = %d, want 1", len(cfg.Walls))
	}
	if got := cfg.WallThicknessOr(cfg.Walls[0].Thickness); got != 5 {
		t.Errorf("wall thickness = %v, want default 5", got)
	}
	// The grid covers the fractional arena width.
	if w, _ := cfg.GridSize(); w != 201 {
		t.Errorf("grid width = %d, want 201", w)
	}
}

func TestLoadSimConfigFS_Errors(t *testing.T) {
	fsys := fsutil.NewMemoryFileSystem()
	writeFile(t, fsys, "bad.json", `{not json`)
	writeFile(t, fsys, "invalid.json", `{"fps": 0}`)
	writeFile(t, fsys, "cfg.yaml", `{}`)
	writeFile(t, fsys, "big.json", string(make([]byte, 1024*1024+1)))

	tests := []struct {
		path string
		want string
	}{
		{"cfg.yaml", ".json extension"},
		{"missing.json", "failed to stat"},
		{"bad.json", "failed to parse"},
		{"big.json", "too large"},
		{"invalid.json", "fps"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := LoadSimConfigFS(fsys, tt.path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadSimConfigFS(%s) error = %v, want containing %q", tt.path, err, tt.want)
			}
		})
	}

	if _, err := LoadSimConfigFS(fsys, "invalid.json"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	prev := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(prev) })

	fsys := fsutil.NewMemoryFileSystem()
	cfg, err := LoadOrDefault(fsys, "")
	if err != nil {
		t.Fatalf("LoadOrDefault without files: %v", err)
	}
	if cfg.Speed != nil || cfg.GetSpeed() != 5 {
		t.Errorf("expected an empty config, got speed %v", cfg.Speed)
	}

	writeFile(t, fsys, DefaultConfigPath, `{"speed": 3}`)
	writeFile(t, fsys, "other.json", `{"speed": 4}`)

	if cfg, err = LoadOrDefault(fsys, ""); err != nil || cfg.GetSpeed() != 3 {
		t.Errorf("default file: speed %v, err %v; want 3", cfg.GetSpeed(), err)
	}
	if cfg, err = LoadOrDefault(fsys, "other.json"); err != nil || cfg.GetSpeed() != 4 {
		t.Errorf("explicit path: speed %v, err %v; want 4", cfg.GetSpeed(), err)
	}
	if _, err := LoadOrDefault(fsys, "missing.json"); err == nil {
		t.Error("an explicit missing path should fail")
	}
}

func TestValidate(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	i := func(v int) *int { return &v }

	tests := []struct {
		name string
		cfg  SimConfig
		want string
	}{
		{"zero arena", SimConfig{ArenaWidth: f(0)}, "arena"},
		{"inset too big", SimConfig{ArenaWidth: f(10), StartX: f(5), BoundaryInset: f(5)}, "boundary_inset"},
		{"zero divisions", SimConfig{BoundaryDivisions: i(0)}, "boundary_divisions"},
		{"negative thickness", SimConfig{WallThickness: f(-1)}, "wall_thickness"},
		{"start outside", SimConfig{StartX: f(700)}, "outside"},
		{"zero heading", SimConfig{HeadingY: f(0)}, "heading"},
		{"negative speed", SimConfig{Speed: f(-1)}, "speed"},
		{"zero body", SimConfig{BodyRadius: f(0)}, "body_radius"},
		{"nan sight range", SimConfig{SightRange: f(math.NaN())}, "sight_range"},
		{"sight angle", SimConfig{SightAngle: f(7)}, "sight_angle"},
		{"inf turn", SimConfig{TurnAngle: f(math.Inf(1))}, "turn_angle"},
		{"fps", SimConfig{FPS: i(5000)}, "fps"},
		{"degenerate wall", SimConfig{Walls: []WallSpec{{A: Point{1, 1}, B: Point{1, 1}}}}, "walls[0]"},
		{"flat box", SimConfig{Boxes: []BoxSpec{{Min: Point{1, 1}, Max: Point{5, 1}}}}, "boxes[0]"},
		{"negative radius", SimConfig{Points: []PointSpec{{Radius: -1}}}, "points[0]"},
		{"empty script step", SimConfig{Script: []ScriptStep{{Ticks: 1}, {Ticks: 0}}}, "script[1]"},
		{"unknown intent", SimConfig{Script: []ScriptStep{{Ticks: 1, Intents: []string{"jumping"}}}}, "jumping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %q, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadSimConfig_Disk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.json")
	if err := os.WriteFile(path, []byte(`{"speed": 2.5, "debug": true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSimConfig(path)
	if err != nil {
		t.Fatalf("LoadSimConfig: %v", err)
	}
	if cfg.GetSpeed() != 2.5 || !cfg.GetDebug() {
		t.Errorf("speed = %v debug = %v, want 2.5 true", cfg.GetSpeed(), cfg.GetDebug())
	}

	// Round trip through JSON keeps set fields only.
	js := cfg.JSON()
	if !strings.Contains(js, `"speed":2.5`) || strings.Contains(js, "arena_width") {
		t.Errorf("JSON() = %s", js)
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if cfg.GetArenaWidth() != 600 || cfg.GetFPS() != 60 {
		t.Errorf("arena width %v fps %d, want 600 and 60", cfg.GetArenaWidth(), cfg.GetFPS())
	}
	if len(cfg.Script) == 0 || len(cfg.Points) == 0 {
		t.Errorf("default config should carry a script and points, got %d steps %d points",
			len(cfg.Script), len(cfg.Points))
	}
}
