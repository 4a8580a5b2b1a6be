package commands

import (
	"context"
	"time"

	"reservation-engine/internal/domain/availability"
	"reservation-engine/internal/domain/reservation"

	"github.com/google/uuid"
)

// ReservationReader is the committed-state view the orchestrator consults outside its write transaction.
type ReservationReader interface {
	availability.Index
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// ListDueForCompletion returns confirmed reservations whose end date is on or before today.
	ListDueForCompletion(ctx context.Context, today time.Time, limit int) ([]uuid.UUID, error)
}

type CreateReservationInput struct {
	ResourceID  uuid.UUID
	RequesterID uuid.UUID
	Interval    reservation.Interval
	PartySize   int
}
