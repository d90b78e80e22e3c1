// Package testutil provides shared test helpers and arena fixtures.
package testutil

import (
	"testing"

	"github.com/banshee-data/arena-explorer/internal/config"
	"github.com/banshee-data/arena-explorer/internal/monitoring"
)

// Ptr returns a pointer to v, for optional config fields.
func Ptr[T any](v T) *T { return &v }

// QuietLogs mutes the monitoring logger for the rest of the test.
func QuietLogs(t testing.TB) {
	t.Helper()
	prev := monitoring.Logf
	monitoring.SetLogger(nil)
	t.Cleanup(func() { monitoring.SetLogger(prev) })
}

// OpenArena returns the default arena config with the robot at (x, y)
// facing +y and no obstacles besides the boundary.
func OpenArena(x, y float64) *config.SimConfig {
	return &config.SimConfig{StartX: Ptr(x), StartY: Ptr(y)}
}
