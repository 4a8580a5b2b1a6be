package reservation

import (
	"math"

	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/pkg/errs"
)

type PriceCalculator interface {
	Price(res *resource.Resource, iv Interval) (Money, error)
}

// NightlyPriceCalculator charges the resource's nightly rate per night and enforces its stay bounds.
type NightlyPriceCalculator struct{}

func NewNightlyPriceCalculator() *NightlyPriceCalculator {
	return &NightlyPriceCalculator{}
}

func (NightlyPriceCalculator) Price(res *resource.Resource, iv Interval) (Money, error) {
	nights := iv.Nights()
	if nights <= 0 {
		return Money{}, ErrInvalidInterval
	}
	if nights < res.MinStay() {
		return Money{}, errs.Wrapf(ErrStayTooShort, "%d nights, minimum %d", nights, res.MinStay())
	}
	if nights > res.MaxStay() {
		return Money{}, errs.Wrapf(ErrStayTooLong, "%d nights, maximum %d", nights, res.MaxStay())
	}

	rate := res.NightlyRateCents()
	if rate > 0 && int64(nights) > math.MaxInt64/rate {
		return Money{}, ErrPriceOverflow
	}
	return NewMoney(int64(nights) * rate), nil
}
