// Package clitest builds command contexts for tests.
package clitest

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/tracker"
)

// New returns a Context over a fresh SQLite store whose clock
// is fixed at now in UTC. Output is captured in the returned buffer and
// input answers confirmation prompts.
func New(t testing.TB, now time.Time, input string) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "habitual.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:   store,
		Tracker: tracker.New(store, tracker.WithClock(func() time.Time { return now }), tracker.WithLocation(time.UTC)),
		LockDir: dir,
		Out:     out,
		In:      strings.NewReader(input),
	}
	t.Cleanup(ctx.ReleaseLock)
	return ctx, out
}
