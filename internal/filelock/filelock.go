// Package filelock provides scoped shared/exclusive access to files.
//
// The production implementation uses advisory OS locks (flock), which are
// cooperative: they coordinate instances of this program against each other
// but do not stop an unrelated process from ignoring the convention.
package filelock

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// ErrContention is returned when a lock cannot be acquired within the bounded
// retry window. Callers may retry the whole operation.
var ErrContention = errors.New("file lock contention")

// Guard releases a held lock.
type Guard interface {
	Unlock() error
}

// Locker hands out scoped shared or exclusive access to a path.
type Locker interface {
	Shared(path string) (Guard, error)
	Exclusive(path string) (Guard, error)
}

const (
	defaultRetries = 5
	defaultDelay   = 100 * time.Millisecond
)

// Flock acquires advisory OS locks with a bounded try-lock retry loop rather
// than blocking indefinitely on a stuck holder.
type Flock struct {
	Retries int
	Delay   time.Duration
}

// NewFlock returns a Flock with the default retry schedule.
func NewFlock() *Flock {
	return &Flock{Retries: defaultRetries, Delay: defaultDelay}
}

// Shared acquires a shared (read) lock on path.
func (l *Flock) Shared(path string) (Guard, error) {
	return l.acquire(path, (*flock.Flock).TryRLock)
}

// Exclusive acquires an exclusive (write) lock on path.
func (l *Flock) Exclusive(path string) (Guard, error) {
	return l.acquire(path, (*flock.Flock).TryLock)
}

func (l *Flock) acquire(path string, try func(*flock.Flock) (bool, error)) (Guard, error) {
	retries := l.Retries
	if retries <= 0 {
		retries = defaultRetries
	}
	delay := l.Delay
	if delay <= 0 {
		delay = defaultDelay
	}

	fl := flock.New(path)
	for attempt := 0; attempt < retries; attempt++ {
		ok, err := try(fl)
		if err != nil {
			return nil, fmt.Errorf("locking %s: %w", path, err)
		}
		if ok {
			return fl, nil
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("%s: %w", path, ErrContention)
}
