package response

import (
	"time"

	"reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
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

type IntervalResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type AvailabilityResponse struct {
	ResourceID       uuid.UUID          `json:"resourceId"`
	Start            string             `json:"start"`
	End              string             `json:"end"`
	Available        bool               `json:"available"`
	BlockedIntervals []IntervalResponse `json:"blockedIntervals"`
}

type ReviewEligibilityResponse struct {
	ReservationID uuid.UUID `json:"reservationId"`
	Eligible      bool      `json:"eligible"`
	Reason        string    `json:"reason"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:          v.ID,
		ResourceID:  v.ResourceID,
		RequesterID: v.RequesterID,
		CheckIn:     v.CheckIn,
		CheckOut:    v.CheckOut,
		Nights:      v.Nights,
		PartySize:   v.PartySize,
		TotalPrice:  v.TotalPrice,
		Status:      v.Status,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func FromReservationViews(vs []*queries.ReservationView) []*ReservationResponse {
	out := make([]*ReservationResponse, len(vs))
	for i, v := range vs {
		out[i] = FromReservationView(v)
	}
	return out
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	blocked := make([]IntervalResponse, len(v.BlockedIntervals))
	for i, iv := range v.BlockedIntervals {
		blocked[i] = IntervalResponse{Start: iv.Start, End: iv.End}
	}
	return &AvailabilityResponse{
		ResourceID:       v.ResourceID,
		Start:            v.Start,
		End:              v.End,
		Available:        v.Available,
		BlockedIntervals: blocked,
	}
}

func FromReviewEligibilityView(v *queries.ReviewEligibilityView) *ReviewEligibilityResponse {
	return &ReviewEligibilityResponse{
		ReservationID: v.ReservationID,
		Eligible:      v.Eligible,
		Reason:        v.Reason,
	}
}
