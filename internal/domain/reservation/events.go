package reservation

import (
	"time"

	"reservation-engine/internal/domain/shared/events"

	"github.com/google/uuid"
)

const (
	EventCreated   = "reservation.created"
	EventConfirmed = "reservation.confirmed"
	EventCancelled = "reservation.cancelled"
	EventCompleted = "reservation.completed"
)

// Event snapshots the reservation right after the change it describes.
type Event struct {
	events.BaseEvent
	ID          uuid.UUID
	ResourceID  uuid.UUID
	RequesterID uuid.UUID
	Status      Status
	Interval    Interval
	PartySize   int
	TotalPrice  Money
}

func newEvent(name string, r *Reservation, now time.Time) Event {
	return Event{
		BaseEvent: events.BaseEvent{
			Name:      name,
			Aggregate: r.id.String(),
			Time:      now,
		},
		ID:          uuid.New(),
		ResourceID:  r.resourceID,
		RequesterID: r.requesterID,
		Status:      r.status,
		Interval:    r.interval,
		PartySize:   r.partySize,
		TotalPrice:  r.totalPrice,
	}
}

func eventNameFor(to Status) string {
	switch to {
	case StatusConfirmed:
		return EventConfirmed
	case StatusCancelled:
		return EventCancelled
	case StatusCompleted:
		return EventCompleted
	default:
		return EventCreated
	}
}
