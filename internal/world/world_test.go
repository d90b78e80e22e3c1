package world

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/banshee-data/arena-explorer/internal/geom"
)

func near(a, b float64) bool { return scalar.EqualWithinAbs(a, b, 1e-9) }

func TestNewWall_Vectors(t *testing.T) {
	t.Parallel()

	w, err := NewWall(geom.Vec{X: 0, Y: 0}, geom.Vec{X: 3, Y: 4}, 2)
	if err != nil {
		t.Fatalf("NewWall: %v", err)
	}

	if w.Kind() != KindWall {
		t.Errorf("Kind() = %s, want wall", w.Kind())
	}
	if !strings.HasPrefix(w.ID(), "wall_") {
		t.Errorf("ID() = %q, want wall_ prefix", w.ID())
	}
	if !near(w.Length(), 5) {
		t.Errorf("Length() = %v, want 5", w.Length())
	}
	if u := w.UnitVec(); !near(u.X, 0.6) || !near(u.Y, 0.8) {
		t.Errorf("UnitVec() = %v, want (0.6, 0.8)", u)
	}
	if n := w.NormalVec(); !near(n.X, -0.8) || !near(n.Y, 0.6) {
		t.Errorf("NormalVec() = %v, want (-0.8, 0.6)", n)
	}

	want := geom.Hitbox{TopLeft: geom.Vec{X: -1, Y: -1}, BottomRight: geom.Vec{X: 4, Y: 5}}
	if bb := w.BoundingBox(); bb != want {
		t.Errorf("BoundingBox() = %+v, want %+v", bb, want)
	}
}

func TestNewWall_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		a, b      geom.Vec
		thickness float64
		want      error
	}{
		{"zero length", geom.Vec{X: 5, Y: 5}, geom.Vec{X: 5, Y: 5}, 5, ErrDegenerateWall},
		{"negative thickness", geom.Vec{}, geom.Vec{X: 1}, -1, ErrInvalidObstacle},
		{"NaN endpoint", geom.Vec{X: math.NaN()}, geom.Vec{X: 1}, 1, ErrInvalidObstacle},
		{"infinite endpoint", geom.Vec{}, geom.Vec{Y: math.Inf(1)}, 1, ErrInvalidObstacle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWall(tt.a, tt.b, tt.thickness)
			if w != nil {
				t.Errorf("NewWall returned %+v, want nil", w)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPointObstacle(t *testing.T) {
	t.Parallel()

	p, err := NewPointObstacle(geom.Vec{X: 10, Y: 20}, 5)
	if err != nil {
		t.Fatalf("NewPointObstacle: %v", err)
	}
	if p.Kind() != KindPoint || !strings.HasPrefix(p.ID(), "point_") {
		t.Errorf("kind %s id %q", p.Kind(), p.ID())
	}
	if want := geom.Centered(geom.Vec{X: 10, Y: 20}, 5, 5); p.BoundingBox() != want {
		t.Errorf("BoundingBox() = %+v, want %+v", p.BoundingBox(), want)
	}

	if _, err := NewPointObstacle(geom.Vec{}, -1); !errors.Is(err, ErrInvalidObstacle) {
		t.Errorf("negative radius err = %v, want ErrInvalidObstacle", err)
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if r.Len() != 0 || len(r.All()) != 0 {
		t.Fatalf("new registry has %d obstacles", r.Len())
	}

	w1, err := r.AddWall(geom.Vec{X: 0, Y: 0}, geom.Vec{X: 10, Y: 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	p1, err := r.AddPoint(geom.Vec{X: 5, Y: 5}, 2)
	if err != nil {
		t.Fatal(err)
	}
	w2, err := r.AddWall(geom.Vec{X: 0, Y: 0}, geom.Vec{X: 0, Y: 10}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.AddWall(geom.Vec{X: 1, Y: 1}, geom.Vec{X: 1, Y: 1}, 1); !errors.Is(err, ErrDegenerateWall) {
		t.Fatalf("degenerate AddWall err = %v", err)
	}

	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	ids := func(obs []Obstacle) []string {
		out := make([]string, len(obs))
		for i, o := range obs {
			out[i] = o.ID()
		}
		return out
	}
	if diff := cmp.Diff([]string{w1.ID(), w2.ID(), p1.ID()}, ids(r.All())); diff != "" {
		t.Errorf("All() order (-want +got):\n%s", diff)
	}
	if len(r.Walls()) != 2 || r.Walls()[0] != w1 || r.Walls()[1] != w2 {
		t.Errorf("Walls() = %v", r.Walls())
	}
	if len(r.Points()) != 1 || r.Points()[0] != p1 {
		t.Errorf("Points() = %v", r.Points())
	}

	seen := map[string]bool{}
	for _, o := range r.All() {
		if seen[o.ID()] {
			t.Errorf("duplicate id %s", o.ID())
		}
		seen[o.ID()] = true
	}
}

func TestRegistry_AddWallsBatch(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	walls, err := RectangleWalls(geom.Vec{X: 10, Y: 10}, geom.Vec{X: 20, Y: 30}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.AddWalls(walls...); err != nil {
		t.Fatal(err)
	}
	if len(r.Walls()) != 4 {
		t.Fatalf("len(Walls) = %d, want 4", len(r.Walls()))
	}

	if err := r.AddWalls(walls[0], nil); !errors.Is(err, ErrInvalidObstacle) {
		t.Errorf("AddWalls with nil err = %v", err)
	}
	// A failed batch registers nothing.
	if len(r.Walls()) != 4 {
		t.Errorf("len(Walls) = %d after failed batch, want 4", len(r.Walls()))
	}
}

func TestRectangleWalls(t *testing.T) {
	t.Parallel()

	walls, err := RectangleWalls(geom.Vec{X: 20, Y: 30}, geom.Vec{X: 10, Y: 10}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(walls) != 4 {
		t.Fatalf("len = %d, want 4", len(walls))
	}

	var perimeter float64
	for _, w := range walls {
		perimeter += w.Length()
	}
	if !near(perimeter, 60) {
		t.Errorf("perimeter = %v, want 60", perimeter)
	}

	// A box collapsed to a line has zero-length sides.
	if _, err := RectangleWalls(geom.Vec{X: 5, Y: 5}, geom.Vec{X: 5, Y: 20}, 1); !errors.Is(err, ErrDegenerateWall) {
		t.Errorf("collapsed box err = %v, want ErrDegenerateWall", err)
	}
}

func TestBoundaryWalls(t *testing.T) {
	t.Parallel()

	walls, err := BoundaryWalls(600, 800, 5, 10, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(walls) != 40 {
		t.Fatalf("len = %d, want 40", len(walls))
	}

	var horizontal, vertical float64
	for _, w := range walls {
		if w.A.Y == w.B.Y {
			horizontal += w.Length()
		} else {
			vertical += w.Length()
		}
	}
	if !near(horizontal, 2*590) || !near(vertical, 2*790) {
		t.Errorf("side lengths = %v horizontal, %v vertical", horizontal, vertical)
	}

	// The last segment of each side ends exactly on the corner.
	if got := walls[9].B; got != (geom.Vec{X: 595, Y: 5}) {
		t.Errorf("walls[9].B = %v, want (595, 5)", got)
	}

	if _, err := BoundaryWalls(600, 800, 5, 0, 5); !errors.Is(err, ErrInvalidObstacle) {
		t.Errorf("zero divisions err = %v", err)
	}
	if _, err := BoundaryWalls(8, 800, 5, 4, 5); !errors.Is(err, ErrInvalidObstacle) {
		t.Errorf("inset too large err = %v", err)
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	tests := map[Kind]string{KindWall: "wall", KindPoint: "point", Kind(9): "kind(9)"}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", uint8(k), got, want)
		}
	}
}
