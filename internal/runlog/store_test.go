package runlog

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/arena-explorer/internal/geom"
	"github.com/banshee-data/arena-explorer/internal/motion"
	"github.com/banshee-data/arena-explorer/internal/occupancy"
	"github.com/banshee-data/arena-explorer/internal/robot"
	"github.com/banshee-data/arena-explorer/internal/sim"
	"github.com/banshee-data/arena-explorer/internal/testutil"
	"github.com/banshee-data/arena-explorer/internal/timeutil"
)

func openStore(t *testing.T) (*Store, *timeutil.MockClock) {
	t.Helper()
	testutil.QuietLogs(t)
	clock := timeutil.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s, err := OpenWithClock(filepath.Join(t.TempDir(), "runs.db"), clock)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, clock
}

func TestOpen_Migrates(t *testing.T) {
	s, _ := openStore(t)
	version, dirty, err := s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	runs, err := s.Runs()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestOpen_Reopen(t *testing.T) {
	testutil.QuietLogs(t)
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := Open(path)
	require.NoError(t, err)
	run, err := s.StartRun(`{"speed":5}`)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err, "migrations are idempotent")
	defer s.Close()
	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, `{"speed":5}`, runs[0].Config)
}

func TestStartAndEndRun(t *testing.T) {
	s, clock := openStore(t)

	first, err := s.StartRun("")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	second, err := s.StartRun(`{}`)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	clock.Advance(time.Minute)
	require.NoError(t, s.EndRun(first.ID, 42))
	assert.True(t, errors.Is(s.EndRun("nope", 1), ErrUnknownRun))

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID, "most recent first")
	assert.Nil(t, runs[0].EndedAt)

	assert.Equal(t, first.ID, runs[1].ID)
	assert.Equal(t, "{}", runs[1].Config)
	assert.Equal(t, 42, runs[1].Ticks)
	require.NotNil(t, runs[1].EndedAt)
	assert.True(t, runs[1].EndedAt.Equal(first.StartedAt.Add(2*time.Minute)))
	assert.True(t, runs[1].StartedAt.Equal(first.StartedAt))
}

func frame(tick int, y float64) sim.Frame {
	return sim.Frame{
		Tick:    tick,
		Pose:    robot.Pose{Pos: geom.Vec{X: 100, Y: y}, Orientation: geom.Vec{X: 0, Y: 1}},
		Counts:  occupancy.Counts{Unknown: 90, Free: 5, Frontier: 4, Occupied: 1},
		Visible: 2,
	}
}

func TestRunRecorder_Batches(t *testing.T) {
	s, _ := openStore(t)
	run, err := s.StartRun("{}")
	require.NoError(t, err)

	rec := s.Recorder(run)
	rec.batchSize = 3
	for i := 1; i <= 4; i++ {
		rec.Observe(frame(i, float64(100+5*i)))
	}

	// The first full batch is written; the fourth frame is still buffered.
	got, err := s.Samples(run.ID)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	require.NoError(t, rec.Close())
	got, err = s.Samples(run.ID)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, Sample{
		Tick: 4, X: 100, Y: 120, HeadingX: 0, HeadingY: 1,
		Unknown: 90, Free: 5, Frontier: 4, Occupied: 1, Visible: 2,
	}, got[3])

	runs, err := s.Runs()
	require.NoError(t, err)
	assert.Equal(t, 4, runs[0].Ticks)
}

func TestRunRecorder_KeepsFirstError(t *testing.T) {
	s, _ := openStore(t)
	run, err := s.StartRun("{}")
	require.NoError(t, err)

	rec := s.Recorder(run)
	rec.Observe(frame(1, 100))
	rec.Observe(frame(1, 100)) // duplicate (run_id, tick)
	err = rec.Flush()
	require.Error(t, err)

	rec.Observe(frame(2, 105))
	assert.Equal(t, err, rec.Flush(), "later flushes report the same error")

	got, err := s.Samples(run.ID)
	require.NoError(t, err)
	assert.Empty(t, got, "failed batch is rolled back")
}

func TestRunRecorder_WithSim(t *testing.T) {
	s, _ := openStore(t)
	cfg := testutil.OpenArena(100, 100)

	session, err := sim.New(cfg)
	require.NoError(t, err)
	run, err := s.StartRun(cfg.JSON())
	require.NoError(t, err)
	rec := s.Recorder(run)
	session.AddObserver(rec)

	require.NoError(t, session.SetIntent(motion.Moving, true))
	for i := 0; i < 10; i++ {
		session.Step()
	}
	require.NoError(t, rec.Close())

	got, err := s.Samples(run.ID)
	require.NoError(t, err)
	require.Len(t, got, 10)
	assert.Equal(t, 150.0, got[9].Y)
	assert.Equal(t, 600*800, got[9].Unknown+got[9].Free+got[9].Frontier+got[9].Occupied)
}
