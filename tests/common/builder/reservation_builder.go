//go:build unit || e2e

package builder

import (
	"time"

	"reservation-engine/internal/domain/reservation"
	reqdto "reservation-engine/internal/handler/dto/request"
	"reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ID          uuid.UUID
	ResourceID  uuid.UUID
	RequesterID uuid.UUID
	CheckIn     time.Time
	CheckOut    time.Time
	PartySize   int
	PriceCents  int64
	Status      reservation.Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		ID:          uuid.New(),
		ResourceID:  uuid.New(),
		RequesterID: uuid.New(),
		CheckIn:     Day(10),
		CheckOut:    Day(13),
		PartySize:   2,
		PriceCents:  300,
		Status:      reservation.StatusConfirmed,
		CreatedAt:   Now,
		UpdatedAt:   Now,
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) On(res interface{ ID() uuid.UUID }) *ReservationBuilder {
	b.ResourceID = res.ID()
	return b
}

func (b *ReservationBuilder) Days(checkIn, checkOut int) *ReservationBuilder {
	b.CheckIn, b.CheckOut = Day(checkIn), Day(checkOut)
	return b
}

func (b *ReservationBuilder) WithStatus(s reservation.Status) *ReservationBuilder {
	b.Status = s
	return b
}

func (b *ReservationBuilder) Interval() reservation.Interval {
	iv, err := reservation.NewInterval(b.CheckIn, b.CheckOut)
	if err != nil {
		panic(err)
	}
	return iv
}

func (b *ReservationBuilder) BuildDomain() *reservation.Reservation {
	return reservation.ReconstructReservation(
		b.ID, b.ResourceID, b.RequesterID,
		b.Interval(),
		b.PartySize,
		reservation.NewMoney(b.PriceCents),
		b.Status,
		b.CreatedAt, b.UpdatedAt,
	)
}

func (b *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{
		ResourceID: b.ResourceID,
		CheckIn:    b.CheckIn.Format(reservation.DateLayout),
		CheckOut:   b.CheckOut.Format(reservation.DateLayout),
		PartySize:  b.PartySize,
	}
}

func (b *ReservationBuilder) BuildView() *queries.ReservationView {
	return queries.ToReservationView(b.BuildDomain())
}
