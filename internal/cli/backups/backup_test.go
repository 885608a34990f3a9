package backups

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/cli/clitest"
)

var now = time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)

func TestCreateListRestore(t *testing.T) {
	ctx, out := clitest.New(t, now, "")

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("unexpected output %q", out.String())
	}

	user, err := ctx.Tracker.CreateUser("alice")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Tracker.CreateHabit(user, "Read", "daily"); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	name := strings.TrimSpace(strings.TrimPrefix(out.String(), "✓ Backup created: "))
	if !strings.HasPrefix(name, "habitual-") {
		t.Fatalf("unexpected backup name %q", name)
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), name) {
		t.Errorf("listing does not mention %s:\n%s", name, out.String())
	}

	if _, err := ctx.Tracker.CompleteToday(user, "Read"); err != nil {
		t.Fatal(err)
	}

	if err := (&BackupRestoreCmd{BackupFile: name, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if err := ctx.Store.Load(); err != nil {
		t.Fatal(err)
	}
	h, err := ctx.Tracker.Habit(user, "Read")
	if err != nil {
		t.Fatal(err)
	}
	if h.CompletionsCount() != 0 {
		t.Errorf("restored habit has %d completions, want 0", h.CompletionsCount())
	}
}

func TestRestoreMissingFile(t *testing.T) {
	ctx, _ := clitest.New(t, now, "")
	err := (&BackupRestoreCmd{BackupFile: filepath.Join(t.TempDir(), "nope.db"), Yes: true}).Run(ctx)
	if err == nil {
		t.Error("expected error for a missing backup")
	}
}

func TestRestoreCancelled(t *testing.T) {
	ctx, out := clitest.New(t, now, "n\n")
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	name := strings.TrimSpace(strings.TrimPrefix(out.String(), "✓ Backup created: "))

	if err := (&BackupRestoreCmd{BackupFile: name}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Restore cancelled.") {
		t.Errorf("expected cancellation, got %q", out.String())
	}
}
