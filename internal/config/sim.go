package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/banshee-data/arena-explorer/internal/fsutil"
	"github.com/banshee-data/arena-explorer/internal/monitoring"
	"github.com/banshee-data/arena-explorer/internal/motion"
)

// DefaultConfigPath is the path to the canonical simulation defaults file.
const DefaultConfigPath = "config/sim.defaults.json"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Point is an arena coordinate in config files.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WallSpec is a single wall segment. A nil thickness uses wall_thickness.
type WallSpec struct {
	A         Point    `json:"a"`
	B         Point    `json:"b"`
	Thickness *float64 `json:"thickness,omitempty"`
}

// BoxSpec is an axis-aligned rectangle built from four walls.
type BoxSpec struct {
	Min       Point    `json:"min"`
	Max       Point    `json:"max"`
	Thickness *float64 `json:"thickness,omitempty"`
}

// PointSpec is a point obstacle.
type PointSpec struct {
	Pos    Point   `json:"pos"`
	Radius float64 `json:"radius"`
}

// ScriptStep holds a set of intents for a number of ticks. Intents may be
// given as flags, by name ("moving", "turning_left", "turning_right"), or
// both.
type ScriptStep struct {
	Ticks        int      `json:"ticks"`
	Moving       bool     `json:"moving,omitempty"`
	TurningLeft  bool     `json:"turning_left,omitempty"`
	TurningRight bool     `json:"turning_right,omitempty"`
	Intents      []string `json:"intents,omitempty"`
}

// SimConfig is the root configuration of a simulation session. Scalar fields
// are pointers so partial files fall back to the Get* defaults.
type SimConfig struct {
	// Arena
	ArenaWidth        *float64 `json:"arena_width,omitempty"`
	ArenaHeight       *float64 `json:"arena_height,omitempty"`
	BoundaryInset     *float64 `json:"boundary_inset,omitempty"`
	BoundaryDivisions *int     `json:"boundary_divisions,omitempty"`
	WallThickness     *float64 `json:"wall_thickness,omitempty"`

	// Robot
	StartX     *float64 `json:"start_x,omitempty"`
	StartY     *float64 `json:"start_y,omitempty"`
	HeadingX   *float64 `json:"heading_x,omitempty"`
	HeadingY   *float64 `json:"heading_y,omitempty"`
	Speed      *float64 `json:"speed,omitempty"`
	BodyRadius *float64 `json:"body_radius,omitempty"`
	SightRange *float64 `json:"sight_range,omitempty"`
	SightAngle *float64 `json:"sight_angle,omitempty"` // radians
	TurnAngle  *float64 `json:"turn_angle,omitempty"`  // radians per tick

	// Loop
	FPS   *int  `json:"fps,omitempty"`
	Debug *bool `json:"debug,omitempty"`

	Walls  []WallSpec   `json:"walls,omitempty"`
	Boxes  []BoxSpec    `json:"boxes,omitempty"`
	Points []PointSpec  `json:"points,omitempty"`
	Script []ScriptStep `json:"script,omitempty"`
}

// LoadSimConfig loads a SimConfig from a JSON file on disk.
func LoadSimConfig(path string) (*SimConfig, error) {
	return LoadSimConfigFS(fsutil.OSFileSystem{}, path)
}

// LoadSimConfigFS loads a SimConfig through fsys. The file must have a .json
// extension and be under 1MB. Omitted fields keep their defaults.
func LoadSimConfigFS(fsys fsutil.FileSystem, path string) (*SimConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseSimConfig(data)
}

// LoadOrDefault loads path through fsys. With an empty path it loads
// DefaultConfigPath when that file exists and otherwise returns an empty
// config, so every field takes its built-in default.
func LoadOrDefault(fsys fsutil.FileSystem, path string) (*SimConfig, error) {
	if path != "" {
		return LoadSimConfigFS(fsys, path)
	}
	if fsys.Exists(DefaultConfigPath) {
		return LoadSimConfigFS(fsys, DefaultConfigPath)
	}
	monitoring.Logf("config: %s not found, using built-in defaults", DefaultConfigPath)
	return &SimConfig{}, nil
}

// ParseSimConfig decodes and validates a JSON document.
func ParseSimConfig(data []byte) (*SimConfig, error) {
	cfg := &SimConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory or
// one of its parents. Panics if the file cannot be loaded; intended for tests
// and binaries run from inside the repository.
func MustLoadDefaultConfig() *SimConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadSimConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run from repository root")
}

// JSON returns the config re-encoded, for recording alongside a run.
func (c *SimConfig) JSON() string {
	b, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func invalid(format string, v ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, v...))
}

func finite(v ...float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Validate checks that the configuration values are usable.
func (c *SimConfig) Validate() error {
	w, h := c.GetArenaWidth(), c.GetArenaHeight()
	if !finite(w, h) || w < 1 || h < 1 {
		return invalid("arena must be at least 1x1, got %gx%g", w, h)
	}
	if inset := c.GetBoundaryInset(); !finite(inset) || inset < 0 || 2*inset >= math.Min(w, h) {
		return invalid("boundary_inset must be in [0, %g), got %g", math.Min(w, h)/2, inset)
	}
	if d := c.GetBoundaryDivisions(); d < 1 {
		return invalid("boundary_divisions must be at least 1, got %d", d)
	}
	if t := c.GetWallThickness(); !finite(t) || t < 0 {
		return invalid("wall_thickness must be non-negative, got %g", t)
	}

	sx, sy := c.GetStartX(), c.GetStartY()
	if !finite(sx, sy) || sx < 0 || sy < 0 || sx >= w || sy >= h {
		return invalid("start (%g, %g) outside %gx%g arena", sx, sy, w, h)
	}
	hx, hy := c.GetHeadingX(), c.GetHeadingY()
	if !finite(hx, hy) || (hx == 0 && hy == 0) {
		return invalid("heading must be a finite non-zero vector, got (%g, %g)", hx, hy)
	}
	if s := c.GetSpeed(); !finite(s) || s < 0 {
		return invalid("speed must be non-negative, got %g", s)
	}
	if r := c.GetBodyRadius(); !finite(r) || r <= 0 {
		return invalid("body_radius must be positive, got %g", r)
	}
	if r := c.GetSightRange(); !finite(r) || r < 0 {
		return invalid("sight_range must be non-negative, got %g", r)
	}
	if a := c.GetSightAngle(); !finite(a) || a < 0 || a > 2*math.Pi {
		return invalid("sight_angle must be in [0, 2pi], got %g", a)
	}
	if a := c.GetTurnAngle(); !finite(a) {
		return invalid("turn_angle must be finite, got %g", a)
	}
	if fps := c.GetFPS(); fps < 1 || fps > 1000 {
		return invalid("fps must be between 1 and 1000, got %d", fps)
	}

	for i, ws := range c.Walls {
		if ws.A == ws.B {
			return invalid("walls[%d] has zero length", i)
		}
		if !finite(ws.A.X, ws.A.Y, ws.B.X, ws.B.Y) {
			return invalid("walls[%d] has non-finite endpoints", i)
		}
		if ws.Thickness != nil && (*ws.Thickness < 0 || !finite(*ws.Thickness)) {
			return invalid("walls[%d] thickness must be non-negative", i)
		}
	}
	for i, b := range c.Boxes {
		if !finite(b.Min.X, b.Min.Y, b.Max.X, b.Max.Y) || b.Min.X == b.Max.X || b.Min.Y == b.Max.Y {
			return invalid("boxes[%d] must have non-zero width and height", i)
		}
		if b.Thickness != nil && (*b.Thickness < 0 || !finite(*b.Thickness)) {
			return invalid("boxes[%d] thickness must be non-negative", i)
		}
	}
	for i, p := range c.Points {
		if !finite(p.Pos.X, p.Pos.Y, p.Radius) || p.Radius < 0 {
			return invalid("points[%d] must be finite with non-negative radius", i)
		}
	}
	for i, s := range c.Script {
		if s.Ticks < 1 {
			return invalid("script[%d].ticks must be at least 1, got %d", i, s.Ticks)
		}
		for _, name := range s.Intents {
			if _, err := motion.ParseIntent(name); err != nil {
				return invalid("script[%d]: %v", i, err)
			}
		}
	}
	return nil
}

// ScriptTicks is the total length of the script in ticks.
func (c *SimConfig) ScriptTicks() int {
	n := 0
	for _, s := range c.Script {
		n += s.Ticks
	}
	return n
}

// WallThicknessOr returns t when set, else the configured wall thickness.
func (c *SimConfig) WallThicknessOr(t *float64) float64 {
	if t == nil {
		return c.GetWallThickness()
	}
	return *t
}

// GridSize returns the occupancy grid dimensions covering the arena.
func (c *SimConfig) GridSize() (int, int) {
	return int(math.Ceil(c.GetArenaWidth())), int(math.Ceil(c.GetArenaHeight()))
}

func getFloat(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func getInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// GetArenaWidth returns the arena_width value or the default.
func (c *SimConfig) GetArenaWidth() float64 { return getFloat(c.ArenaWidth, 600) }

// GetArenaHeight returns the arena_height value or the default.
func (c *SimConfig) GetArenaHeight() float64 { return getFloat(c.ArenaHeight, 800) }

// GetBoundaryInset returns the boundary_inset value or the default.
func (c *SimConfig) GetBoundaryInset() float64 { return getFloat(c.BoundaryInset, 5) }

// GetBoundaryDivisions returns the boundary_divisions value or the default.
func (c *SimConfig) GetBoundaryDivisions() int { return getInt(c.BoundaryDivisions, 10) }

// GetWallThickness returns the wall_thickness value or the default.
func (c *SimConfig) GetWallThickness() float64 { return getFloat(c.WallThickness, 5) }

func (c *SimConfig) GetStartX() float64   { return getFloat(c.StartX, 500) }
func (c *SimConfig) GetStartY() float64   { return getFloat(c.StartY, 200) }
func (c *SimConfig) GetHeadingX() float64 { return getFloat(c.HeadingX, 0) }
func (c *SimConfig) GetHeadingY() float64 { return getFloat(c.HeadingY, 1) }

// GetSpeed returns the distance moved per tick.
func (c *SimConfig) GetSpeed() float64 { return getFloat(c.Speed, 5) }

func (c *SimConfig) GetBodyRadius() float64 { return getFloat(c.BodyRadius, 20) }
func (c *SimConfig) GetSightRange() float64 { return getFloat(c.SightRange, 30) }

// GetSightAngle returns the field of view in radians (default: pi/2).
func (c *SimConfig) GetSightAngle() float64 { return getFloat(c.SightAngle, math.Pi/2) }

// GetTurnAngle returns the rotation per turning tick in radians.
func (c *SimConfig) GetTurnAngle() float64 { return getFloat(c.TurnAngle, 0.05) }

// GetFPS returns the tick rate of the real-time runner.
func (c *SimConfig) GetFPS() int { return getInt(c.FPS, 60) }

// GetDebug reports whether debug logging is enabled.
func (c *SimConfig) GetDebug() bool {
	if c.Debug == nil {
		return false
	}
	return *c.Debug
}
