package locking

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// LocalUserLock serializes per-user scheduling within a single process.
// Used in local mode where no Redis is available.
type LocalUserLock struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewLocalUserLock creates an in-process user lock.
func NewLocalUserLock() *LocalUserLock {
	return &LocalUserLock{
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// Acquire takes the owner's mutex, creating it on first use. Mutexes are
// never evicted; the set of users in a local deployment is tiny.
func (l *LocalUserLock) Acquire(ctx context.Context, ownerID uuid.UUID) (Release, error) {
	l.mu.Lock()
	m, ok := l.locks[ownerID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[ownerID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return func(context.Context) { m.Unlock() }, nil
}
