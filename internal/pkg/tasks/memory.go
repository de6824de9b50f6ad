package tasks

import (
	"context"
	"sync"
	"time"
)

// MemoryTracker keeps statuses in process. Used when Redis is not configured.
type MemoryTracker struct {
	mu       sync.RWMutex
	statuses map[string]Status
}

func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{statuses: make(map[string]Status)}
}

func (t *MemoryTracker) Save(_ context.Context, status Status) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.statuses[status.ID] = status
	return nil
}

func (t *MemoryTracker) Get(_ context.Context, id string) (Status, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	status, ok := t.statuses[id]
	if !ok {
		return Status{}, ErrTaskNotFound
	}
	return status, nil
}

// MemoryLocker is a process-local Locker.
type MemoryLocker struct {
	mu    sync.Mutex
	held  map[string]time.Time
	clock func() time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]time.Time), clock: time.Now}
}

func (l *MemoryLocker) Acquire(_ context.Context, key string, ttl time.Duration) (Release, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if expires, ok := l.held[key]; ok && now.Before(expires) {
		return nil, ErrLockHeld
	}
	expires := now.Add(ttl)
	l.held[key] = expires

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[key].Equal(expires) {
			delete(l.held, key)
		}
		return nil
	}, nil
}
