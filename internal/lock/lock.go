// Package lock guards a habitual store against concurrent sessions. A
// lockfile holding "pid|executable" sits next to the store; a lockfile
// whose process is gone is treated as stale and taken over.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpid          = os.Getpid
)

// Lock is a held session lock.
type Lock struct {
	path string
	pid  int
}

// Holder describes the process recorded in a lockfile.
type Holder struct {
	PID        int
	Executable string
}

// Path returns the lockfile path used for stores kept in dir.
func Path(dir string) string {
	return filepath.Join(dir, constants.LockfileName)
}

// Acquire takes the session lock in dir. It fails with
// errors.ErrSessionLocked while another live habitual process holds it.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := Path(dir)
	pid := getpid()

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d|%s", pid, executableName())
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			logger.Debug("Acquired session lock", "path", path, "pid", pid)
			return &Lock{path: path, pid: pid}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		holder, live := Inspect(dir)
		if live && holder.PID != pid {
			return nil, fmt.Errorf("%w (pid %d)", apperrors.ErrSessionLocked, holder.PID)
		}
		logger.Warn("Removing stale lockfile", "path", path, "pid", holder.PID)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, fmt.Errorf("failed to acquire lock at %s", path)
}

// Inspect reads the lockfile in dir and reports whether its holder is a
// running habitual process.
func Inspect(dir string) (Holder, bool) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return Holder{}, false
	}
	holder, err := parse(string(data))
	if err != nil {
		return Holder{}, false
	}

	process, err := findProcessFunc(holder.PID)
	if err != nil || process == nil {
		return holder, false
	}
	return holder, process.Executable() == holder.Executable
}

func parse(content string) (Holder, error) {
	pidStr, exe, ok := strings.Cut(strings.TrimSpace(content), "|")
	if !ok || exe == "" {
		return Holder{}, errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return Holder{}, errors.New("invalid process ID in lockfile")
	}
	return Holder{PID: pid, Executable: exe}, nil
}

func executableName() string {
	if p, err := findProcessFunc(getpid()); err == nil && p != nil {
		return p.Executable()
	}
	return filepath.Base(os.Args[0])
}

// Release removes the lockfile if this lock still owns it.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if holder, err := parse(string(data)); err != nil || holder.PID != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	logger.Debug("Released session lock", "path", l.path)
	return nil
}
