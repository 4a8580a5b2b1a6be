package availability

import (
	"context"
	"slices"

	"reservation-engine/internal/domain/reservation"

	"github.com/google/uuid"
)

// Index is the store-side lookup the checker runs on. Implementations must use an
// index on (resource, start, end); they may return extra candidates, which the checker filters.
type Index interface {
	FindOverlapping(ctx context.Context, resourceID uuid.UUID, iv reservation.Interval) ([]*reservation.Reservation, error)
}

// Checker is shared by the availability read path and the booking write guard.
type Checker struct {
	index Index
}

func NewChecker(index Index) *Checker {
	return &Checker{index: index}
}

// CheckConflicts returns the blocking reservations of resourceID that overlap iv, ordered by start date.
func (c *Checker) CheckConflicts(ctx context.Context, resourceID uuid.UUID, iv reservation.Interval) ([]*reservation.Reservation, error) {
	candidates, err := c.index.FindOverlapping(ctx, resourceID, iv)
	if err != nil {
		return nil, err
	}

	conflicts := make([]*reservation.Reservation, 0, len(candidates))
	for _, r := range candidates {
		if r.ResourceID() == resourceID && r.Blocks(iv) {
			conflicts = append(conflicts, r)
		}
	}
	slices.SortFunc(conflicts, func(a, b *reservation.Reservation) int {
		return a.Interval().Start().Compare(b.Interval().Start())
	})
	return conflicts, nil
}

type Result struct {
	Available bool
	Blocked   []reservation.Interval
}

// Availability reports which parts of rng are blocked. Blocked intervals are clipped
// to rng and adjacent ones are merged.
func (c *Checker) Availability(ctx context.Context, resourceID uuid.UUID, rng reservation.Interval) (Result, error) {
	conflicts, err := c.CheckConflicts(ctx, resourceID, rng)
	if err != nil {
		return Result{}, err
	}

	blocked := make([]reservation.Interval, 0, len(conflicts))
	for _, r := range conflicts {
		clipped, ok := r.Interval().Intersect(rng)
		if !ok {
			continue
		}
		if n := len(blocked); n > 0 {
			if merged, ok := blocked[n-1].Merge(clipped); ok {
				blocked[n-1] = merged
				continue
			}
		}
		blocked = append(blocked, clipped)
	}

	return Result{Available: len(blocked) == 0, Blocked: blocked}, nil
}
