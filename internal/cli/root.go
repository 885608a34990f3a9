package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/lock"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tracker"
)

// Context carries the configured store and tracker into every command.
type Context struct {
	Store   storage.Provider
	Tracker *tracker.Tracker
	// User is the --user flag; empty means resolve from settings.
	User string
	// LockDir is where the session lockfile lives.
	LockDir string

	Out io.Writer
	In  io.Reader

	lock *lock.Lock
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// Confirm asks a yes/no question on In and reports a "y" or "yes" answer.
func (c *Context) Confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// ActiveUser resolves the user the command acts for.
func (c *Context) ActiveUser() (models.User, error) {
	return c.Tracker.ResolveUser(c.User)
}

// AcquireLock takes the session lock for mutating commands. It is a no-op
// when no lock directory is configured or the lock is already held.
func (c *Context) AcquireLock() error {
	if c.LockDir == "" || c.lock != nil {
		return nil
	}
	l, err := lock.Acquire(c.LockDir)
	if err != nil {
		return err
	}
	c.lock = l
	return nil
}

// ReleaseLock drops the session lock if held.
func (c *Context) ReleaseLock() {
	if c.lock == nil {
		return
	}
	if err := c.lock.Release(); err != nil {
		logger.Warn("Failed to release session lock", "error", err)
	}
	c.lock = nil
}

// PerformAutomaticBackup snapshots file-backed stores and only logs on
// failure.
func (c *Context) PerformAutomaticBackup() {
	path := c.Store.GetConfigPath()
	if !backup.Supported(path) {
		logger.Debug("Skipping automatic backup", "store", path)
		return
	}
	if _, err := backup.NewManager(path).CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
