// Package lockfile keeps a single TUI instance per local state database.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/MarkBevz50/focusflow/internal/constants"
	"github.com/MarkBevz50/focusflow/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	currentPID      = os.Getpid
)

// ErrLocked is returned when another live focusflow TUI holds the lock.
var ErrLocked = errors.New("another focusflow TUI is already running")

// LockedError names the process holding the lock.
type LockedError struct {
	PID  int
	Path string
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("%v (pid %d)", ErrLocked, e.PID)
}

func (e *LockedError) Is(target error) bool { return target == ErrLocked }

// Hint tells the user how to recover.
func (e *LockedError) Hint() string {
	return fmt.Sprintf("close the other instance, or remove %s if it is not running", e.Path)
}

// Lock is a held lockfile.
type Lock struct {
	path string
}

// Path returns the lockfile location.
func (l *Lock) Path() string { return l.path }

// Release removes the lockfile if it is still ours.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	pid, _, err := read(l.path)
	if err == nil && pid != currentPID() {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Acquire takes the lock in dir, replacing a lockfile left behind by a
// process that no longer runs. It retries until timeout while the lockfile
// is being written by someone else.
func Acquire(dir string, timeout time.Duration) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := filepath.Join(dir, constants.TUILockfileName)
	deadline := time.Now().Add(timeout)

	for {
		err := create(path)
		if err == nil {
			return &Lock{path: path}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		pid, _, rerr := read(path)
		switch {
		case rerr == nil && alive(pid):
			return nil, &LockedError{PID: pid, Path: path}
		case errors.Is(rerr, os.ErrNotExist):
			// released between our create and read
		case errors.Is(rerr, errMalformed) && time.Now().Before(deadline):
			// possibly still being written
			time.Sleep(50 * time.Millisecond)
		case rerr == nil || errors.Is(rerr, errMalformed):
			logger.For(logger.Lockfile).Warn("removing stale lockfile", "path", path, "pid", pid)
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
			}
			continue
		default:
			return nil, rerr
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("timed out acquiring %s", path)
		}
	}
}

func create(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	_, werr := fmt.Fprintf(f, "%d|%s\n", currentPID(), time.Now().UTC().Format(time.RFC3339))
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

var errMalformed = errors.New("lockfile is malformed")

func read(path string) (int, time.Time, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, time.Time{}, err
	}
	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return 0, time.Time{}, errMalformed
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid < 1 {
		return 0, time.Time{}, errMalformed
	}
	started, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return 0, time.Time{}, errMalformed
	}
	return pid, started, nil
}

// alive reports whether pid is a running focusflow process.
func alive(pid int) bool {
	proc, err := findProcessFunc(pid)
	if err != nil || proc == nil {
		return false
	}
	return strings.HasPrefix(proc.Executable(), constants.AppName)
}
