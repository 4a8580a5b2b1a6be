package queries

import (
	"time"

	"reservation-engine/internal/domain/reservation"

	"github.com/google/uuid"
)

const (
	RoleRequester = "requester"
	RoleOwner     = "owner"
)

const (
	ReasonOK           = "ok"
	ReasonNotRequester = "not_requester"
	ReasonNotCompleted = "not_completed"
)

// ReservationView is the read model returned to callers. Dates use the YYYY-MM-DD wire format.
type ReservationView struct {
	ID          uuid.UUID `json:"id"`
	ResourceID  uuid.UUID `json:"resourceId"`
	RequesterID uuid.UUID `json:"requesterId"`
	CheckIn     string    `json:"checkIn"`
	CheckOut    string    `json:"checkOut"`
	Nights      int       `json:"nights"`
	PartySize   int       `json:"partySize"`
	TotalPrice  int64     `json:"totalPrice"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type IntervalView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type AvailabilityView struct {
	ResourceID       uuid.UUID      `json:"resourceId"`
	Start            string         `json:"start"`
	End              string         `json:"end"`
	Available        bool           `json:"available"`
	BlockedIntervals []IntervalView `json:"blockedIntervals"`
}

type ReviewEligibilityView struct {
	ReservationID uuid.UUID `json:"reservationId"`
	Eligible      bool      `json:"eligible"`
	Reason        string    `json:"reason"`
}

func ToReservationView(r *reservation.Reservation) *ReservationView {
	iv := r.Interval()
	return &ReservationView{
		ID:          r.ID(),
		ResourceID:  r.ResourceID(),
		RequesterID: r.RequesterID(),
		CheckIn:     iv.Start().Format(reservation.DateLayout),
		CheckOut:    iv.End().Format(reservation.DateLayout),
		Nights:      iv.Nights(),
		PartySize:   r.PartySize(),
		TotalPrice:  r.TotalPrice().Cents(),
		Status:      r.Status().String(),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

func ToReservationViews(rs []*reservation.Reservation) []*ReservationView {
	out := make([]*ReservationView, len(rs))
	for i, r := range rs {
		out[i] = ToReservationView(r)
	}
	return out
}

func ToIntervalView(iv reservation.Interval) IntervalView {
	return IntervalView{
		Start: iv.Start().Format(reservation.DateLayout),
		End:   iv.End().Format(reservation.DateLayout),
	}
}
