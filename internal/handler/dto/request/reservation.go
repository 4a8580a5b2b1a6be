package request

import (
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	ResourceID uuid.UUID `json:"resourceId" binding:"required"`
	CheckIn    string    `json:"checkIn" binding:"required" example:"2030-01-10"`
	CheckOut   string    `json:"checkOut" binding:"required" example:"2030-01-13"`
	PartySize  int       `json:"partySize" example:"2"`
}

func (r CreateReservationRequest) ToInput(requesterID uuid.UUID) (commands.CreateReservationInput, error) {
	iv, err := reservation.ParseInterval(r.CheckIn, r.CheckOut)
	if err != nil {
		return commands.CreateReservationInput{}, err
	}
	return commands.CreateReservationInput{
		ResourceID:  r.ResourceID,
		RequesterID: requesterID,
		Interval:    iv,
		PartySize:   r.PartySize,
	}, nil
}

type AvailabilityQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

func (q AvailabilityQuery) Interval() (reservation.Interval, error) {
	return reservation.ParseInterval(q.Start, q.End)
}

type ListReservationsQuery struct {
	Role string `form:"role"`
}
