package outbox

import (
	"encoding/json"
	"slices"
	"time"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/shared/events"
	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

// Message is one domain event waiting in the outbox.
type Message struct {
	ID          uuid.UUID
	EventType   string
	AggregateID string
	// Key is the partition key. Events of one resource share it so consumers see them in order.
	Key        string
	Payload    []byte
	OccurredAt time.Time
	Attempts   int
}

type reservationPayload struct {
	ReservationID uuid.UUID `json:"reservationId"`
	ResourceID    uuid.UUID `json:"resourceId"`
	RequesterID   uuid.UUID `json:"requesterId"`
	Status        string    `json:"status"`
	CheckIn       string    `json:"checkIn"`
	CheckOut      string    `json:"checkOut"`
	PartySize     int       `json:"partySize"`
	TotalPrice    int64     `json:"totalPrice"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Encode turns a domain event into an outbox message.
func Encode(evt events.DomainEvent) (Message, error) {
	msg := Message{
		ID:          uuid.New(),
		EventType:   evt.EventName(),
		AggregateID: evt.AggregateID(),
		Key:         evt.AggregateID(),
		OccurredAt:  evt.OccurredAt().UTC(),
	}

	var body any = evt
	if e, ok := evt.(reservation.Event); ok {
		msg.ID = e.ID
		msg.Key = e.ResourceID.String()
		body = reservationPayload{
			ReservationID: uuid.MustParse(e.AggregateID()),
			ResourceID:    e.ResourceID,
			RequesterID:   e.RequesterID,
			Status:        e.Status.String(),
			CheckIn:       e.Interval.Start().Format(reservation.DateLayout),
			CheckOut:      e.Interval.End().Format(reservation.DateLayout),
			PartySize:     e.PartySize,
			TotalPrice:    e.TotalPrice.Cents(),
			OccurredAt:    msg.OccurredAt,
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Message{}, errs.Wrapf(err, "encode event %s", evt.EventName())
	}
	msg.Payload = payload
	return msg, nil
}

func EncodeAll(evts []events.DomainEvent) ([]Message, error) {
	out := make([]Message, 0, len(evts))
	for _, evt := range evts {
		msg, err := Encode(evt)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, nil
}

func sortByOccurrence(msgs []Message) {
	slices.SortStableFunc(msgs, func(a, b Message) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})
}
