package preflight

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"motionpicture/internal/services"
)

// LockFileName is created inside the output directory while a run owns it.
const LockFileName = ".mopi.lock"

// DirLock is an exclusive claim on an output directory.
type DirLock struct {
	lock *flock.Flock
}

// Lock acquires the output directory lock without blocking. The directory
// must already exist.
func Lock(dir string) (*DirLock, error) {
	path := filepath.Join(dir, LockFileName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrPreflight, "preflight", "lock", "Acquire output directory lock", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrPreflight, "preflight", "lock",
			fmt.Sprintf("Another mopi run is writing to %s", dir), nil)
	}
	return &DirLock{lock: lock}, nil
}

// Path returns the lock file location.
func (l *DirLock) Path() string {
	if l == nil || l.lock == nil {
		return ""
	}
	return l.lock.Path()
}

// Release unlocks the directory. The lock file stays behind.
func (l *DirLock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
