package main

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/arena-explorer/internal/geom"
	"github.com/banshee-data/arena-explorer/internal/motion"
	"github.com/banshee-data/arena-explorer/internal/occupancy"
	"github.com/banshee-data/arena-explorer/internal/sim"
	"github.com/banshee-data/arena-explorer/internal/testutil"
	"github.com/banshee-data/arena-explorer/internal/timeutil"
)

// fakeCanvas records runes drawn by the view.
type fakeCanvas struct {
	w, h  int
	cells [][]rune
}

func newFakeCanvas(w, h int) *fakeCanvas {
	c := &fakeCanvas{w: w, h: h, cells: make([][]rune, h)}
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", w))
	}
	return c
}

func (c *fakeCanvas) SetContent(x, y int, r rune, _ []rune, _ tcell.Style) {
	if x >= 0 && y >= 0 && x < c.w && y < c.h {
		c.cells[y][x] = r
	}
}

func (c *fakeCanvas) Size() (int, int) { return c.w, c.h }

func (c *fakeCanvas) row(y int) string { return string(c.cells[y]) }

// count tallies r in columns [x0,x1) above the status row.
func (c *fakeCanvas) count(x0, x1 int, r rune) int {
	n := 0
	for _, row := range c.cells[:c.h-1] {
		for x := x0; x < x1 && x < len(row); x++ {
			if row[x] == r {
				n++
			}
		}
	}
	return n
}

func newSession(t *testing.T) *sim.Sim {
	t.Helper()
	testutil.QuietLogs(t)
	s, err := sim.New(testutil.OpenArena(100, 100))
	require.NoError(t, err)
	return s
}

func key(k tcell.Key, r rune) *tcell.EventKey {
	return tcell.NewEventKey(k, r, tcell.ModNone)
}

func TestIntentForKey(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want motion.Intent
		ok   bool
	}{
		{key(tcell.KeyUp, 0), motion.Moving, true},
		{key(tcell.KeyLeft, 0), motion.TurningLeft, true},
		{key(tcell.KeyRight, 0), motion.TurningRight, true},
		{key(tcell.KeyRune, 'k'), motion.Moving, true},
		{key(tcell.KeyRune, 'h'), motion.TurningLeft, true},
		{key(tcell.KeyRune, 'l'), motion.TurningRight, true},
		{key(tcell.KeyRune, 'x'), 0, false},
		{key(tcell.KeyEnter, 0), 0, false},
	}
	for _, tt := range tests {
		got, ok := intentForKey(tt.ev)
		assert.Equal(t, tt.ok, ok, tt.ev.Name())
		if ok {
			assert.Equal(t, tt.want, got, tt.ev.Name())
		}
	}
}

func TestHoldInput(t *testing.T) {
	clock := timeutil.NewMockClock(time.Unix(100, 0))
	in := newHoldInput(clock, 150*time.Millisecond)

	st, ok := in.Next()
	assert.True(t, ok)
	assert.False(t, st.Active())

	in.Press(motion.Moving)
	clock.Advance(100 * time.Millisecond)
	in.Press(motion.TurningLeft)
	st, _ = in.Next()
	assert.Equal(t, motion.States{motion.Moving: true, motion.TurningLeft: true}, st)

	// Moving was pressed 150ms ago and lapses; the turn is still held.
	clock.Advance(50 * time.Millisecond)
	st, _ = in.Next()
	assert.Equal(t, motion.States{motion.TurningLeft: true}, st)

	in.Release()
	st, _ = in.Next()
	assert.False(t, st.Active())
}

func TestHandleEvent(t *testing.T) {
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	a := &app{clock: clock, sim: newSession(t), input: newHoldInput(clock, time.Second), fps: 60}

	assert.True(t, a.handleEvent(key(tcell.KeyUp, 0)))
	a.tick()
	assert.Equal(t, geom.Vec{X: 100, Y: 105}, a.sim.Pose().Pos)

	assert.True(t, a.handleEvent(key(tcell.KeyDown, 0)))
	a.tick()
	assert.Equal(t, geom.Vec{X: 100, Y: 105}, a.sim.Pose().Pos, "down releases all intents")

	assert.False(t, a.handleEvent(key(tcell.KeyRune, 'q')))
	assert.False(t, a.handleEvent(key(tcell.KeyEscape, 0)))
}

func TestLayout(t *testing.T) {
	world, grid, ok := layout(81, 41, 600, 800)
	require.True(t, ok)
	assert.Equal(t, 40, world.w)
	assert.Equal(t, 40, world.h)
	assert.Equal(t, 41, grid.x0)

	_, _, ok = layout(3, 2, 600, 800)
	assert.False(t, ok)

	x, y, in := world.toCell(geom.Vec{X: 599, Y: 799})
	assert.True(t, in)
	assert.Equal(t, 39, x)
	assert.Equal(t, 39, y)
	_, _, in = world.toCell(geom.Vec{X: 600, Y: 10})
	assert.False(t, in)
}

func TestBlockState(t *testing.T) {
	g, err := occupancy.New(20, 20)
	require.NoError(t, err)
	r := geom.NewHitbox(geom.Vec{X: 0, Y: 0}, geom.Vec{X: 10, Y: 10})
	assert.Equal(t, occupancy.Unknown, blockState(g, r))

	g.MarkExplored(occupancy.Cell{X: 0, Y: 0}, occupancy.Cell{X: 5, Y: 5})
	assert.Equal(t, occupancy.Frontier, blockState(g, r))

	g.MarkOccupied(occupancy.Cell{X: 9, Y: 9}, occupancy.Cell{X: 10, Y: 10})
	assert.Equal(t, occupancy.Occupied, blockState(g, r))
}

func TestHeadingRune(t *testing.T) {
	assert.Equal(t, 'v', headingRune(geom.Vec{X: 0, Y: 1}))
	assert.Equal(t, '^', headingRune(geom.Vec{X: 0.1, Y: -1}))
	assert.Equal(t, '>', headingRune(geom.Vec{X: 1, Y: 0.2}))
	assert.Equal(t, '<', headingRune(geom.Vec{X: -1, Y: 0}))
}

func TestDraw(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.SetIntent(motion.Moving, true))
	for i := 0; i < 5; i++ {
		s.Step()
	}

	c := newFakeCanvas(61, 41)
	require.True(t, draw(c, s, 600, 800))

	// World panel: boundary walls and the robot facing down.
	assert.Greater(t, c.count(0, 30, '#'), 0)
	assert.Equal(t, 1, c.count(0, 30, 'v'))
	// Map panel: the explored region shows free and frontier cells.
	assert.Greater(t, c.count(31, 61, '+'), 0)
	assert.Contains(t, c.row(40), "tick 5")

	small := newFakeCanvas(3, 2)
	assert.False(t, draw(small, s, 600, 800))
}
