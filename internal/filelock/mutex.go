package filelock

import (
	"path/filepath"
	"sync"
)

// Mutex is an in-process Locker for single-binary deployments and tests.
// It provides the same shared/exclusive semantics as Flock without touching
// the OS lock table, so it cannot coordinate across processes.
type Mutex struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// NewMutex returns an empty in-process Locker.
func NewMutex() *Mutex {
	return &Mutex{locks: make(map[string]*sync.RWMutex)}
}

func (m *Mutex) get(path string) *sync.RWMutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := filepath.Clean(path)
	rw, ok := m.locks[key]
	if !ok {
		rw = &sync.RWMutex{}
		m.locks[key] = rw
	}
	return rw
}

// Shared acquires the read side of the path's lock.
func (m *Mutex) Shared(path string) (Guard, error) {
	rw := m.get(path)
	rw.RLock()
	return guardFunc(func() error {
		rw.RUnlock()
		return nil
	}), nil
}

// Exclusive acquires the write side of the path's lock.
func (m *Mutex) Exclusive(path string) (Guard, error) {
	rw := m.get(path)
	rw.Lock()
	return guardFunc(func() error {
		rw.Unlock()
		return nil
	}), nil
}

type guardFunc func() error

func (g guardFunc) Unlock() error { return g() }
