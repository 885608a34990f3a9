package lock

import (
	"errors"
	"os"
	"testing"

	"github.com/mitchellh/go-ps"

	apperrors "github.com/julianstephens/habitual/internal/errors"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

// withProcesses replaces process lookup with a fixed table and pins the
// current pid.
func withProcesses(t *testing.T, self int, procs map[int]string) {
	t.Helper()
	oldFind, oldPid := findProcessFunc, getpid
	t.Cleanup(func() { findProcessFunc, getpid = oldFind, oldPid })

	getpid = func() int { return self }
	findProcessFunc = func(pid int) (ps.Process, error) {
		exe, ok := procs[pid]
		if !ok {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
}

func TestAcquireAndRelease(t *testing.T) {
	dir := t.TempDir()
	withProcesses(t, 100, map[int]string{100: "habitual"})

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "100|habitual" {
		t.Errorf("lockfile content = %q", data)
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(Path(dir)); !os.IsNotExist(err) {
		t.Error("lockfile still present after release")
	}
}

func TestAcquireLiveHolder(t *testing.T) {
	dir := t.TempDir()
	withProcesses(t, 100, map[int]string{100: "habitual", 200: "habitual"})

	if err := os.WriteFile(Path(dir), []byte("200|habitual"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Acquire(dir); !errors.Is(err, apperrors.ErrSessionLocked) {
		t.Errorf("Acquire() error = %v, want ErrSessionLocked", err)
	}
}

func TestAcquireStaleLock(t *testing.T) {
	tests := []struct {
		name    string
		content string
		procs   map[int]string
	}{
		{name: "dead process", content: "200|habitual", procs: map[int]string{}},
		{name: "pid reused by other program", content: "200|habitual", procs: map[int]string{200: "bash"}},
		{name: "malformed", content: "garbage", procs: map[int]string{}},
		{name: "bad pid", content: "abc|habitual", procs: map[int]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			withProcesses(t, 100, tt.procs)

			if err := os.WriteFile(Path(dir), []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			l, err := Acquire(dir)
			if err != nil {
				t.Fatalf("Acquire() error = %v", err)
			}
			defer l.Release()

			holder, _ := Inspect(dir)
			if holder.PID != 100 {
				t.Errorf("holder pid = %d, want 100", holder.PID)
			}
		})
	}
}

func TestReleaseLeavesForeignLock(t *testing.T) {
	dir := t.TempDir()
	withProcesses(t, 100, map[int]string{100: "habitual"})

	l, err := Acquire(dir)
	if err != nil {
		t.Fatal(err)
	}
	// Another session took over after this one was considered stale.
	if err := os.WriteFile(Path(dir), []byte("300|habitual"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := l.Release(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(Path(dir)); err != nil {
		t.Errorf("foreign lockfile removed: %v", err)
	}

	var nilLock *Lock
	if err := nilLock.Release(); err != nil {
		t.Errorf("nil Release() error = %v", err)
	}
}
