package lockpkg

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type keyLock struct {
	ch   chan struct{}
	refs int
}

// MemoryManager holds account locks in process memory.
//
// Entries are dropped as soon as no goroutine holds or waits for them.
type MemoryManager struct {
	mu      sync.Mutex
	locks   map[uuid.UUID]*keyLock
	timeout time.Duration
}

// NewMemoryManager returns MemoryManager that waits at most timeout for the locks of one operation.
func NewMemoryManager(timeout time.Duration) *MemoryManager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &MemoryManager{
		locks:   make(map[uuid.UUID]*keyLock),
		timeout: timeout,
	}
}

// WithLock acquires the locks of ids, runs fn and releases the locks on every exit path.
func (m *MemoryManager) WithLock(ctx context.Context, ids []uuid.UUID, fn func(ctx context.Context) error) error {
	return withOrderedLocks(ctx, ids, m.timeout, m.acquire, fn)
}

func (m *MemoryManager) acquire(ctx context.Context, id uuid.UUID) (func(), error) {
	m.mu.Lock()

	kl, ok := m.locks[id]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		m.locks[id] = kl
	}

	kl.refs++
	m.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
		return func() {
			<-kl.ch
			m.unref(id, kl)
		}, nil
	case <-ctx.Done():
		m.unref(id, kl)
		return nil, ctx.Err()
	}
}

func (m *MemoryManager) unref(id uuid.UUID, kl *keyLock) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kl.refs--
	if kl.refs == 0 {
		delete(m.locks, id)
	}
}

// size returns the number of tracked keys.
func (m *MemoryManager) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.locks)
}
