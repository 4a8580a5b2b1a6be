package lock

import (
	"context"
	"sync"
	"time"

	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

type localEntry struct {
	sem  *semaphore.Weighted
	refs int
}

// LocalLocker serializes writers per resource inside one process. Entries are dropped
// once nobody holds or waits on them.
type LocalLocker struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*localEntry
	wait    time.Duration
}

func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{entries: make(map[uuid.UUID]*localEntry), wait: wait}
}

func (l *LocalLocker) Acquire(ctx context.Context, resourceID uuid.UUID) (func(), error) {
	e := l.ref(resourceID)

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()
	if err := e.sem.Acquire(waitCtx, 1); err != nil {
		l.unref(resourceID, e)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errs.Wrapf(shared.ErrLockTimeout, "resource %s after %s", resourceID, l.wait)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(1)
			l.unref(resourceID, e)
		})
	}, nil
}

func (l *LocalLocker) ref(resourceID uuid.UUID) *localEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[resourceID]
	if !ok {
		e = &localEntry{sem: semaphore.NewWeighted(1)}
		l.entries[resourceID] = e
	}
	e.refs++
	return e
}

func (l *LocalLocker) unref(resourceID uuid.UUID, e *localEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, resourceID)
	}
}

// Len reports how many resources currently have a holder or waiter.
func (l *LocalLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
