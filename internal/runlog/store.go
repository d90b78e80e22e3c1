// Package runlog records exploration runs and their per-tick telemetry in a
// SQLite database. It stores the robot's trajectory and grid tallies, not the
// grid itself.
package runlog

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/arena-explorer/internal/monitoring"
	"github.com/banshee-data/arena-explorer/internal/sim"
	"github.com/banshee-data/arena-explorer/internal/timeutil"
)

// ErrUnknownRun is returned for run IDs that were never started.
var ErrUnknownRun = errors.New("unknown run")

// DefaultBatchSize is how many samples a RunRecorder buffers before writing.
const DefaultBatchSize = 256

// Store is a run log backed by one SQLite database.
type Store struct {
	db    *sql.DB
	clock timeutil.Clock
}

// Run describes one recorded session.
type Run struct {
	ID        string     `json:"run_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Config    string     `json:"config"`
	Ticks     int        `json:"ticks"`
}

// Sample is one tick of a run.
type Sample struct {
	Tick     int     `json:"tick"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	HeadingX float64 `json:"heading_x"`
	HeadingY float64 `json:"heading_y"`
	Unknown  int     `json:"unknown"`
	Free     int     `json:"free"`
	Frontier int     `json:"frontier"`
	Occupied int     `json:"occupied"`
	Visible  int     `json:"visible"`
	Bounces  int     `json:"bounces"`
}

// Open opens (creating if needed) the database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	return OpenWithClock(path, timeutil.RealClock{})
}

// OpenWithClock is Open with an injectable clock for run timestamps.
func OpenWithClock(path string, clock timeutil.Clock) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases coherent and serialises
	// writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	s := &Store{db: db, clock: clock}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// StartRun creates a run record with a fresh ID.
func (s *Store) StartRun(configJSON string) (Run, error) {
	if configJSON == "" {
		configJSON = "{}"
	}
	run := Run{
		ID:        uuid.NewString(),
		StartedAt: s.clock.Now().UTC(),
		Config:    configJSON,
	}
	_, err := s.db.Exec(`INSERT INTO runs (run_id, started_at, config_json) VALUES (?, ?, ?)`,
		run.ID, run.StartedAt, run.Config)
	if err != nil {
		return Run{}, fmt.Errorf("failed to insert run: %w", err)
	}
	monitoring.Logf("runlog: started run %s", run.ID)
	return run, nil
}

// EndRun stamps the end time and tick count of a run.
func (s *Store) EndRun(runID string, ticks int) error {
	res, err := s.db.Exec(`UPDATE runs SET ended_at = ?, ticks = ? WHERE run_id = ?`,
		s.clock.Now().UTC(), ticks, runID)
	if err != nil {
		return fmt.Errorf("failed to end run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", runID, ErrUnknownRun)
	}
	return nil
}

// Runs lists runs, most recent first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`SELECT run_id, started_at, ended_at, config_json, ticks FROM runs ORDER BY started_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var ended sql.NullTime
		if err := rows.Scan(&r.ID, &r.StartedAt, &ended, &r.Config, &r.Ticks); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if ended.Valid {
			t := ended.Time
			r.EndedAt = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Samples returns the samples of a run in tick order.
func (s *Store) Samples(runID string) ([]Sample, error) {
	rows, err := s.db.Query(`
		SELECT tick, x, y, heading_x, heading_y, unknown, free, frontier, occupied, visible, bounces
		FROM samples WHERE run_id = ? ORDER BY tick`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var v Sample
		if err := rows.Scan(&v.Tick, &v.X, &v.Y, &v.HeadingX, &v.HeadingY,
			&v.Unknown, &v.Free, &v.Frontier, &v.Occupied, &v.Visible, &v.Bounces); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) insertSamples(runID string, batch []Sample) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO samples (run_id, tick, x, y, heading_x, heading_y, unknown, free, frontier, occupied, visible, bounces)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range batch {
		if _, err := stmt.Exec(runID, v.Tick, v.X, v.Y, v.HeadingX, v.HeadingY,
			v.Unknown, v.Free, v.Frontier, v.Occupied, v.Visible, v.Bounces); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert sample %d: %w", v.Tick, err)
		}
	}
	return tx.Commit()
}

// RunRecorder is a sim.Observer that buffers frames of one run and writes
// them in batches.
type RunRecorder struct {
	store     *Store
	run       Run
	batchSize int

	mu      sync.Mutex
	pending []Sample
	last    int
	err     error
}

var _ sim.Observer = (*RunRecorder)(nil)

// Recorder returns an observer writing frames to run.
func (s *Store) Recorder(run Run) *RunRecorder {
	return &RunRecorder{store: s, run: run, batchSize: DefaultBatchSize}
}

// Observe buffers fr and writes the buffer once it is full. A write error is
// kept and reported by Flush; later frames are dropped.
func (r *RunRecorder) Observe(fr sim.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	r.pending = append(r.pending, Sample{
		Tick:     fr.Tick,
		X:        fr.Pose.Pos.X,
		Y:        fr.Pose.Pos.Y,
		HeadingX: fr.Pose.Orientation.X,
		HeadingY: fr.Pose.Orientation.Y,
		Unknown:  fr.Counts.Unknown,
		Free:     fr.Counts.Free,
		Frontier: fr.Counts.Frontier,
		Occupied: fr.Counts.Occupied,
		Visible:  fr.Visible,
		Bounces:  fr.Bounces,
	})
	r.last = fr.Tick
	if len(r.pending) >= r.batchSize {
		r.flushLocked()
	}
}

func (r *RunRecorder) flushLocked() {
	if len(r.pending) == 0 || r.err != nil {
		return
	}
	if err := r.store.insertSamples(r.run.ID, r.pending); err != nil {
		monitoring.Logf("runlog: run %s: %v", r.run.ID, err)
		r.err = err
		return
	}
	r.pending = r.pending[:0]
}

// Flush writes any buffered samples and returns the first write error.
func (r *RunRecorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushLocked()
	return r.err
}

// Close flushes and marks the run ended at the last observed tick.
func (r *RunRecorder) Close() error {
	if err := r.Flush(); err != nil {
		return err
	}
	r.mu.Lock()
	last := r.last
	r.mu.Unlock()
	return r.store.EndRun(r.run.ID, last)
}
