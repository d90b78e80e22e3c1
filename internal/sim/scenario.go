package sim

import (
	"fmt"

	"github.com/banshee-data/arena-explorer/internal/config"
	"github.com/banshee-data/arena-explorer/internal/geom"
	"github.com/banshee-data/arena-explorer/internal/monitoring"
	"github.com/banshee-data/arena-explorer/internal/robot"
	"github.com/banshee-data/arena-explorer/internal/world"
)

func vec(p config.Point) geom.Vec { return geom.Vec{X: p.X, Y: p.Y} }

// BuildRegistry creates the arena described by cfg: the boundary, then boxes,
// then free-standing walls, then point obstacles.
func BuildRegistry(cfg *config.SimConfig) (*world.Registry, error) {
	reg := world.NewRegistry()

	boundary, err := world.BoundaryWalls(cfg.GetArenaWidth(), cfg.GetArenaHeight(),
		cfg.GetBoundaryInset(), cfg.GetBoundaryDivisions(), cfg.GetWallThickness())
	if err != nil {
		return nil, fmt.Errorf("boundary: %w", err)
	}
	if err := reg.AddWalls(boundary...); err != nil {
		return nil, fmt.Errorf("boundary: %w", err)
	}

	for i, b := range cfg.Boxes {
		walls, err := world.RectangleWalls(vec(b.Min), vec(b.Max), cfg.WallThicknessOr(b.Thickness))
		if err != nil {
			return nil, fmt.Errorf("boxes[%d]: %w", i, err)
		}
		if err := reg.AddWalls(walls...); err != nil {
			return nil, fmt.Errorf("boxes[%d]: %w", i, err)
		}
	}
	for i, ws := range cfg.Walls {
		if _, err := reg.AddWall(vec(ws.A), vec(ws.B), cfg.WallThicknessOr(ws.Thickness)); err != nil {
			return nil, fmt.Errorf("walls[%d]: %w", i, err)
		}
	}
	for i, ps := range cfg.Points {
		if _, err := reg.AddPoint(vec(ps.Pos), ps.Radius); err != nil {
			return nil, fmt.Errorf("points[%d]: %w", i, err)
		}
	}
	return reg, nil
}

// ParamsFromConfig maps the robot section of cfg onto robot.Params.
func ParamsFromConfig(cfg *config.SimConfig) robot.Params {
	w, h := cfg.GridSize()
	return robot.Params{
		Position:   geom.Vec{X: cfg.GetStartX(), Y: cfg.GetStartY()},
		Heading:    geom.Vec{X: cfg.GetHeadingX(), Y: cfg.GetHeadingY()},
		Speed:      cfg.GetSpeed(),
		BodyRadius: cfg.GetBodyRadius(),
		SightRange: cfg.GetSightRange(),
		SightAngle: cfg.GetSightAngle(),
		GridWidth:  w,
		GridHeight: h,
	}
}

func logScenario(reg *world.Registry, p robot.Params) {
	reg.LogSummary()
	monitoring.Logf("sim: robot at (%g, %g) heading (%g, %g), grid %dx%d",
		p.Position.X, p.Position.Y, p.Heading.X, p.Heading.Y, p.GridWidth, p.GridHeight)
}
