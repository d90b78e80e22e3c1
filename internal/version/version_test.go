package version

import "testing"

func TestString(t *testing.T) {
	Version, GitSHA, BuildTime = "1.2.0", "abc123", "2026-01-02"
	t.Cleanup(func() { Version, GitSHA, BuildTime = "dev", "unknown", "unknown" })

	want := "explore 1.2.0 (commit abc123, built 2026-01-02)"
	if got := String("explore"); got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}
