package outbox

import (
	"context"
	"sync"
	"time"

	"reservation-engine/internal/pkg/clock"

	"github.com/google/uuid"
)

type memoryEntry struct {
	msg           Message
	published     bool
	nextAttemptAt time.Time
	lockedUntil   time.Time
	lastErr       string
}

// MemoryStore keeps the outbox in process memory for the in-memory store driver.
type MemoryStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	entries []*memoryEntry
	byID    map[uuid.UUID]*memoryEntry
}

func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{clock: clk, byID: make(map[uuid.UUID]*memoryEntry)}
}

// Append stores msgs as one batch. Callers hold their own commit lock, so the batch is never split.
func (s *MemoryStore) Append(msgs []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range msgs {
		e := &memoryEntry{msg: m, nextAttemptAt: m.OccurredAt}
		s.entries = append(s.entries, e)
		s.byID[m.ID] = e
	}
}

func (s *MemoryStore) Claim(_ context.Context, limit, maxAttempts int) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	var out []Message
	for _, e := range s.entries {
		if len(out) >= limit {
			break
		}
		if e.published || e.msg.Attempts >= maxAttempts || e.nextAttemptAt.After(now) || e.lockedUntil.After(now) {
			continue
		}
		e.lockedUntil = now.Add(leaseDuration)
		out = append(out, e.msg)
	}
	return out, nil
}

func (s *MemoryStore) MarkPublished(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.byID[id]; ok {
		e.published = true
		e.lockedUntil = time.Time{}
	}
	return nil
}

func (s *MemoryStore) MarkFailed(_ context.Context, id uuid.UUID, nextAttemptAt time.Time, lastErr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.byID[id]; ok {
		e.msg.Attempts++
		e.nextAttemptAt = nextAttemptAt
		e.lastErr = lastErr
		e.lockedUntil = time.Time{}
	}
	return nil
}

// Pending returns the unpublished messages in append order.
func (s *MemoryStore) Pending() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Message
	for _, e := range s.entries {
		if !e.published {
			out = append(out, e.msg)
		}
	}
	return out
}
