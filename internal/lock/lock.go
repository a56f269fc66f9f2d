package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/opsmith/scriptkit/internal/logging"
)

// Status is the outcome of a lock operation. Lock contention is an expected
// condition for cooperating cron tools, so outcomes are reported as values
// rather than errors; the caller decides whether a timeout aborts the run.
type Status int

const (
	// StatusAcquired means the lock file was created and is now held.
	StatusAcquired Status = iota
	// StatusTimeout means another holder kept the lock for the whole wait.
	StatusTimeout
	// StatusFailed means an I/O error other than contention occurred.
	StatusFailed
	// StatusReleased means the lock file was removed.
	StatusReleased
	// StatusNotHeld means Release found no lock file to remove.
	StatusNotHeld
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusAcquired:
		return "acquired"
	case StatusTimeout:
		return "timeout"
	case StatusFailed:
		return "failed"
	case StatusReleased:
		return "released"
	case StatusNotHeld:
		return "not held"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// DefaultInterval is the poll interval between acquire attempts.
const DefaultInterval = 500 * time.Millisecond

// Manager creates and removes advisory lock files in a shared directory.
// Distinct lock names yield independent locks. The locks are purely
// cooperative: nothing stops a process that skips Acquire, and a lock file
// orphaned by a crash stays on disk for inspection and manual removal.
type Manager struct {
	dir      string
	interval time.Duration
	log      *logging.Controller
}

// Option configures a Manager.
type Option func(*Manager)

// WithDir overrides the lock directory, which defaults to os.TempDir().
func WithDir(dir string) Option {
	return func(m *Manager) { m.dir = dir }
}

// WithInterval overrides the poll interval between acquire attempts.
func WithInterval(d time.Duration) Option {
	return func(m *Manager) { m.interval = d }
}

// New creates a Manager. Locks live in the platform temp directory unless
// WithDir is given.
func New(ctl *logging.Controller, opts ...Option) *Manager {
	m := &Manager{
		dir:      os.TempDir(),
		interval: DefaultInterval,
		log:      ctl,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Path returns the lock file path for name.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.dir, name)
}

// Acquire tries to take the named lock, polling until timeout elapses. The
// owner label is written into the lock file for diagnostics; it confers no
// ownership and any caller may later release the lock.
func (m *Manager) Acquire(owner, name string, timeout time.Duration) Status {
	path := m.Path(name)
	deadline := time.Now().Add(timeout)

	for {
		st, done := m.tryCreate(owner, path)
		if done {
			return st
		}

		if time.Now().After(deadline) {
			holder, _ := m.Holder(name)
			m.log.Warn("timed out waiting for lock",
				zap.String("lock", path),
				zap.String("owner", owner),
				zap.String("holder", holder),
			)
			return StatusTimeout
		}

		holder, _ := m.Holder(name)
		m.log.Debug("lock busy, waiting",
			zap.String("lock", path),
			zap.String("holder", holder),
		)
		time.Sleep(m.interval)
	}
}

// tryCreate attempts one exclusive creation of the lock file. done is false
// only for the already-exists case, which the acquire loop retries.
func (m *Manager) tryCreate(owner, path string) (Status, bool) {
	// O_EXCL with O_CREATE makes creation the atomic test-and-set: whichever
	// process creates the file holds the lock.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return StatusFailed, false
		}
		m.log.Error("lock file creation failed",
			zap.String("lock", path),
			zap.Error(err),
		)
		return StatusFailed, true
	}

	stamp := fmt.Sprintf("locked by %s at %s", owner, time.Now().Format(time.RFC1123))
	_, werr := f.WriteString(stamp)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		// A lock file we cannot write is useless for diagnostics; undo.
		_ = os.Remove(path)
		m.log.Error("writing lock file failed",
			zap.String("lock", path),
			zap.Error(werr),
		)
		return StatusFailed, true
	}

	m.log.Debug("lock acquired",
		zap.String("lock", path),
		zap.String("owner", owner),
	)
	return StatusAcquired, true
}

// Release removes the named lock file. There is no ownership check: any
// caller may release any lock, so only the original requester should call
// this.
func (m *Manager) Release(name string) Status {
	path := m.Path(name)

	holder, err := m.Holder(name)
	if err != nil {
		if os.IsNotExist(err) {
			m.log.Warn("release of lock that is not held", zap.String("lock", path))
			return StatusNotHeld
		}
		// Unreadable content is only a diagnostics loss; still remove.
		holder = ""
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			m.log.Warn("release of lock that is not held", zap.String("lock", path))
			return StatusNotHeld
		}
		m.log.Error("removing lock file failed",
			zap.String("lock", path),
			zap.Error(err),
		)
		return StatusFailed
	}

	m.log.Debug("lock released",
		zap.String("lock", path),
		zap.String("holder", holder),
	)
	return StatusReleased
}

// Holder returns the informational content of the named lock file.
func (m *Manager) Holder(name string) (string, error) {
	data, err := os.ReadFile(m.Path(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
