package reservation

import (
	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

type Factory struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
	Policy          ApprovalPolicy
}

func NewFactory(clock clock.Clock, priceCalculator PriceCalculator, policy ApprovalPolicy) *Factory {
	return &Factory{
		Clock:           clock,
		PriceCalculator: priceCalculator,
		Policy:          policy,
	}
}

// CreateReservation validates the request against the resource and prices it.
// It does not check availability.
func (f *Factory) CreateReservation(
	res *resource.Resource,
	requesterID uuid.UUID,
	iv Interval,
	partySize int,
) (*Reservation, error) {
	if err := f.ValidateInterval(iv); err != nil {
		return nil, err
	}
	if partySize < 1 {
		return nil, ErrInvalidPartySize
	}
	if !res.CanHost(partySize) {
		return nil, errs.Wrapf(ErrPartyExceedsCapacity, "party of %d, capacity %d", partySize, res.Capacity())
	}

	price, err := f.PriceCalculator.Price(res, iv)
	if err != nil {
		return nil, err
	}

	return newReservation(res.ID(), requesterID, iv, partySize, price, f.InitialStatus(res), f.Clock.Now()), nil
}

// ValidateInterval rejects empty intervals and check-ins before today.
func (f *Factory) ValidateInterval(iv Interval) error {
	if iv.IsZero() {
		return ErrInvalidInterval
	}
	if iv.Start().Before(clock.Today(f.Clock)) {
		return errs.Wrapf(ErrCheckInInPast, "check-in %s", iv.Start().Format(DateLayout))
	}
	return nil
}

func (f *Factory) InitialStatus(res *resource.Resource) Status {
	switch f.Policy {
	case ApprovalManual:
		return StatusPending
	case ApprovalResource:
		if res.InstantBook() {
			return StatusConfirmed
		}
		return StatusPending
	default:
		return StatusConfirmed
	}
}
