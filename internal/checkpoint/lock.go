package checkpoint

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFile = ".collect.lock"

// ErrLocked is returned when another process holds the collection lock.
var ErrLocked = errors.New("another anglicorpus collection is already running")

// Lock takes the exclusive collection lock for the output directory. The
// returned function releases it.
func (s *Store) Lock() (func() error, error) {
	lockPath := filepath.Join(s.dir, lockFile)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("checkpoint: acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLocked, lockPath)
	}
	return lock.Unlock, nil
}
