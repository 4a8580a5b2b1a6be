package memstore

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"reservation-engine/internal/domain/availability"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/shared/events"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/outbox"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type row struct {
	id          uuid.UUID
	resourceID  uuid.UUID
	requesterID uuid.UUID
	interval    reservation.Interval
	partySize   int
	totalPrice  reservation.Money
	status      reservation.Status
	createdAt   time.Time
	updatedAt   time.Time
}

func rowFrom(res *reservation.Reservation) row {
	return row{
		id:          res.ID(),
		resourceID:  res.ResourceID(),
		requesterID: res.RequesterID(),
		interval:    res.Interval(),
		partySize:   res.PartySize(),
		totalPrice:  res.TotalPrice(),
		status:      res.Status(),
		createdAt:   res.CreatedAt(),
		updatedAt:   res.UpdatedAt(),
	}
}

func (r row) toDomain() *reservation.Reservation {
	return reservation.ReconstructReservation(
		r.id, r.resourceID, r.requesterID,
		r.interval, r.partySize, r.totalPrice, r.status,
		r.createdAt, r.updatedAt,
	)
}

// Store is the in-memory reservation store. Rows are copied in and out, so callers never share
// an entity with the store. Each resource has an interval index over its blocking reservations.
type Store struct {
	mu       sync.RWMutex
	clock    clock.Clock
	logger   *slog.Logger
	rows     map[uuid.UUID]row
	blocking map[uuid.UUID]*availability.IntervalIndex
	outbox   *outbox.MemoryStore
}

func NewStore(clk clock.Clock, logger *slog.Logger, ob *outbox.MemoryStore) *Store {
	return &Store{
		clock:    clk,
		logger:   logger,
		rows:     make(map[uuid.UUID]row),
		blocking: make(map[uuid.UUID]*availability.IntervalIndex),
		outbox:   ob,
	}
}

// Within buffers fn's writes and applies them atomically. The commit re-checks every blocking
// interval against the index and fails with infra.KindOverlap without applying anything.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memTx{store: s, staged: make(map[uuid.UUID]row)}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return s.commit(tx)
}

func (s *Store) commit(tx *memTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	touched := make(map[uuid.UUID]*availability.IntervalIndex)
	indexFor := func(resourceID uuid.UUID) *availability.IntervalIndex {
		if idx, ok := touched[resourceID]; ok {
			return idx
		}
		idx := availability.NewIntervalIndex()
		if cur, ok := s.blocking[resourceID]; ok {
			idx = cur.Clone()
		}
		touched[resourceID] = idx
		return idx
	}

	for _, id := range tx.order {
		next := tx.staged[id]
		idx := indexFor(next.resourceID)
		if prev, ok := s.rows[id]; ok && prev.status.IsBlocking() {
			idx.Delete(id, prev.interval)
		}
		if !next.status.IsBlocking() {
			continue
		}
		if conflicts, ok := idx.Insert(id, next.interval); !ok {
			cause := errs.Newf("reservation %s over %s overlaps %v", id, next.interval, conflicts)
			return infra.WrapRepoErr(s.logger, infra.KindOverlap, "blocking reservations overlap", cause)
		}
	}

	for resourceID, idx := range touched {
		s.blocking[resourceID] = idx
	}
	for _, id := range tx.order {
		s.rows[id] = tx.staged[id]
	}
	if s.outbox != nil && len(tx.messages) > 0 {
		s.outbox.Append(tx.messages)
	}
	return nil
}

// memTx serves as both the reservation and the event repository of one transaction.
type memTx struct {
	store    *Store
	staged   map[uuid.UUID]row
	order    []uuid.UUID
	messages []outbox.Message
}

func (t *memTx) Reservations() shared.ReservationRepository { return t }
func (t *memTx) Events() shared.EventRepository             { return t }

func (t *memTx) lookup(id uuid.UUID) (row, bool) {
	if r, ok := t.staged[id]; ok {
		return r, true
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	r, ok := t.store.rows[id]
	return r, ok
}

func (t *memTx) stage(r row) {
	if _, ok := t.staged[r.id]; !ok {
		t.order = append(t.order, r.id)
	}
	t.staged[r.id] = r
}

func (t *memTx) FindOverlapping(_ context.Context, resourceID uuid.UUID, iv reservation.Interval) ([]*reservation.Reservation, error) {
	seen := make(map[uuid.UUID]bool)
	var out []*reservation.Reservation

	t.store.mu.RLock()
	if idx, ok := t.store.blocking[resourceID]; ok {
		for _, id := range idx.Overlapping(iv) {
			seen[id] = true
			r := t.store.rows[id]
			if staged, ok := t.staged[id]; ok {
				r = staged
			}
			out = append(out, r.toDomain())
		}
	}
	t.store.mu.RUnlock()

	for _, id := range t.order {
		r := t.staged[id]
		if seen[id] || r.resourceID != resourceID || !r.interval.Overlaps(iv) {
			continue
		}
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (t *memTx) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	r, ok := t.lookup(id)
	if !ok {
		return nil, infra.WrapRepoErr(t.store.logger, infra.KindNotFound, "reservation not found", nil)
	}
	return r.toDomain(), nil
}

func (t *memTx) Create(_ context.Context, res *reservation.Reservation) (*reservation.Reservation, error) {
	if _, exists := t.lookup(res.ID()); exists {
		return nil, infra.WrapRepoErr(t.store.logger, infra.KindDuplicateKey, "reservation already exists", nil)
	}
	now := t.store.clock.Now()
	r := rowFrom(res)
	r.createdAt, r.updatedAt = now, now
	t.stage(r)
	return r.toDomain(), nil
}

func (t *memTx) UpdateStatus(_ context.Context, res *reservation.Reservation) (*reservation.Reservation, error) {
	r, ok := t.lookup(res.ID())
	if !ok {
		return nil, infra.WrapRepoErr(t.store.logger, infra.KindNotFound, "reservation not found", nil)
	}
	r.status = res.Status()
	r.updatedAt = t.store.clock.Now()
	t.stage(r)
	return r.toDomain(), nil
}

func (t *memTx) Append(_ context.Context, evts []events.DomainEvent) error {
	msgs, err := outbox.EncodeAll(evts)
	if err != nil {
		return infra.WrapRepoErr(t.store.logger, infra.KindDBFailure, "failed to encode events", err)
	}
	t.messages = append(t.messages, msgs...)
	return nil
}
