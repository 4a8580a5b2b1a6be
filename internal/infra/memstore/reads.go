package memstore

import (
	"bytes"
	"context"
	"slices"
	"time"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/infra"

	"github.com/google/uuid"
)

// FindOverlapping reads committed state only; it backs the availability read path.
func (s *Store) FindOverlapping(_ context.Context, resourceID uuid.UUID, iv reservation.Interval) ([]*reservation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.blocking[resourceID]
	if !ok {
		return nil, nil
	}
	ids := idx.Overlapping(iv)
	out := make([]*reservation.Reservation, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.rows[id].toDomain())
	}
	return out, nil
}

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	s.mu.RLock()
	r, ok := s.rows[id]
	s.mu.RUnlock()
	if !ok {
		return nil, infra.WrapRepoErr(s.logger, infra.KindNotFound, "reservation not found", nil)
	}
	return r.toDomain(), nil
}

func (s *Store) ListByRequester(_ context.Context, requesterID uuid.UUID) ([]*reservation.Reservation, error) {
	return s.collect(func(r row) bool { return r.requesterID == requesterID }), nil
}

func (s *Store) ListByResources(_ context.Context, resourceIDs []uuid.UUID) ([]*reservation.Reservation, error) {
	if len(resourceIDs) == 0 {
		return []*reservation.Reservation{}, nil
	}
	wanted := make(map[uuid.UUID]struct{}, len(resourceIDs))
	for _, id := range resourceIDs {
		wanted[id] = struct{}{}
	}
	return s.collect(func(r row) bool {
		_, ok := wanted[r.resourceID]
		return ok
	}), nil
}

// ListDueForCompletion returns confirmed reservations whose stay ended on or before today, oldest end first.
func (s *Store) ListDueForCompletion(_ context.Context, today time.Time, limit int) ([]uuid.UUID, error) {
	s.mu.RLock()
	var due []row
	for _, r := range s.rows {
		if r.status == reservation.StatusConfirmed && !r.interval.End().After(today) {
			due = append(due, r)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(due, func(a, b row) int {
		if c := a.interval.End().Compare(b.interval.End()); c != 0 {
			return c
		}
		return bytes.Compare(a.id[:], b.id[:])
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	ids := make([]uuid.UUID, len(due))
	for i, r := range due {
		ids[i] = r.id
	}
	return ids, nil
}

// collect returns matching rows newest first, ties broken by id.
func (s *Store) collect(match func(row) bool) []*reservation.Reservation {
	s.mu.RLock()
	matched := make([]row, 0)
	for _, r := range s.rows {
		if match(r) {
			matched = append(matched, r)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b row) int {
		if c := b.createdAt.Compare(a.createdAt); c != 0 {
			return c
		}
		return bytes.Compare(a.id[:], b.id[:])
	})
	out := make([]*reservation.Reservation, len(matched))
	for i, r := range matched {
		out[i] = r.toDomain()
	}
	return out
}
