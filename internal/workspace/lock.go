package workspace

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created in the output directory while a run writes to it.
const LockFileName = ".tracktag.lock"

// ErrOutputLocked is returned when another run holds the output lock.
var ErrOutputLocked = errors.New("another tracktag run is writing to this output directory")

// OutputLock guards an output directory for the duration of a run.
type OutputLock struct {
	lock *flock.Flock
}

// LockOutput acquires the lock file in dir without blocking. The directory
// must exist.
func LockOutput(dir string) (*OutputLock, error) {
	lock := flock.New(filepath.Join(dir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, dir)
	}
	return &OutputLock{lock: lock}, nil
}

// Path returns the lock file path.
func (l *OutputLock) Path() string {
	return l.lock.Path()
}

// Unlock releases the lock. The lock file itself is left in place.
func (l *OutputLock) Unlock() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
