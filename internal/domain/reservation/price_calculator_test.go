//go:build unit

package reservation_test

import (
	"math"
	"testing"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNightlyPriceCalculator(t *testing.T) {
	calc := reservation.NewNightlyPriceCalculator()

	testCases := []struct {
		name      string
		resource  *builder.ResourceBuilder
		in, out   int
		wantCents int64
		errIs     error
	}{
		{
			name:      "three nights at 100",
			resource:  builder.NewResourceBuilder(),
			in:        10,
			out:       13,
			wantCents: 300,
		},
		{
			name:      "free resource",
			resource:  builder.NewResourceBuilder().With(func(b *builder.ResourceBuilder) { b.NightlyRateCents = 0 }),
			in:        10,
			out:       12,
			wantCents: 0,
		},
		{
			name:     "one night below minimum of two",
			resource: builder.NewResourceBuilder().WithMinStay(2),
			in:       10,
			out:      11,
			errIs:    reservation.ErrStayTooShort,
		},
		{
			name:      "exactly the minimum",
			resource:  builder.NewResourceBuilder().WithMinStay(2),
			in:        10,
			out:       12,
			wantCents: 200,
		},
		{
			name:     "above maximum",
			resource: builder.NewResourceBuilder().With(func(b *builder.ResourceBuilder) { b.MaxStay = 3 }),
			in:       10,
			out:      14,
			errIs:    reservation.ErrStayTooLong,
		},
		{
			name:     "overflow",
			resource: builder.NewResourceBuilder().With(func(b *builder.ResourceBuilder) { b.NightlyRateCents = math.MaxInt64 / 2 }),
			in:       10,
			out:      13,
			errIs:    reservation.ErrPriceOverflow,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := tc.resource.MustBuildDomain()
			price, err := calc.Price(res, mustInterval(t, tc.in, tc.out))
			if tc.errIs != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.errIs)
				assert.True(t, errs.Is(err, errs.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantCents, price.Cents())
		})
	}

	t.Run("stays longer than time.Duration can span", func(t *testing.T) {
		iv, err := reservation.ParseInterval("2030-01-01", "2400-01-01")
		require.NoError(t, err)
		unbounded := builder.NewResourceBuilder().With(func(b *builder.ResourceBuilder) { b.MaxStay = 1 << 30 })

		price, err := calc.Price(unbounded.MustBuildDomain(), iv)
		require.NoError(t, err)
		assert.Equal(t, int64(135139*100), price.Cents())

		expensive := unbounded.With(func(b *builder.ResourceBuilder) { b.NightlyRateCents = math.MaxInt64 / 100000 })
		_, err = calc.Price(expensive.MustBuildDomain(), iv)
		assert.ErrorIs(t, err, reservation.ErrPriceOverflow)

		capped := builder.NewResourceBuilder().With(func(b *builder.ResourceBuilder) { b.MaxStay = 135138 })
		_, err = calc.Price(capped.MustBuildDomain(), iv)
		assert.ErrorIs(t, err, reservation.ErrStayTooLong)
	})

	t.Run("zero interval", func(t *testing.T) {
		_, err := calc.Price(builder.NewResourceBuilder().MustBuildDomain(), reservation.Interval{})
		assert.ErrorIs(t, err, reservation.ErrInvalidInterval)
	})
}
