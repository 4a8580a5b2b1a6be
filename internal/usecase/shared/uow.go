package shared

import (
	"context"

	"reservation-engine/internal/domain/availability"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/shared/events"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within runs fn in one write transaction. Nothing fn wrote is visible unless it returns nil.
	// Retryable storage failures (serialization, deadlock) rerun fn within the retry budget.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Reservations() ReservationRepository
	Events() EventRepository
}

// ReservationRepository is the write-side store. The booking orchestrator is its only caller.
type ReservationRepository interface {
	availability.Index
	// FindByID locks the row for the rest of the transaction where the store supports it.
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// Create inserts res and returns it with store-assigned timestamps.
	// An overlapping blocking reservation fails with infra.KindOverlap.
	Create(ctx context.Context, res *reservation.Reservation) (*reservation.Reservation, error)
	UpdateStatus(ctx context.Context, res *reservation.Reservation) (*reservation.Reservation, error)
}

type EventRepository interface {
	Append(ctx context.Context, evts []events.DomainEvent) error
}
