//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type factoryCase struct {
	name      string
	mutate    func(*builder.ResourceBuilder)
	in, out   int
	partySize int
	errIs     error
}

func TestFactory_CreateReservation(t *testing.T) {
	newFactory := func(policy reservation.ApprovalPolicy) *reservation.Factory {
		return reservation.NewFactory(clock.NewMockClock(builder.Now), reservation.NewNightlyPriceCalculator(), policy)
	}

	t.Run("basic success case", func(t *testing.T) {
		res := builder.NewResourceBuilder().MustBuildDomain()
		requester := uuid.New()

		r, err := newFactory(reservation.ApprovalInstant).CreateReservation(res, requester, mustInterval(t, 10, 13), 2)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, r.ID())
		assert.Equal(t, res.ID(), r.ResourceID())
		assert.Equal(t, requester, r.RequesterID())
		assert.Equal(t, int64(300), r.TotalPrice().Cents())
		assert.Equal(t, reservation.StatusConfirmed, r.Status())
		assert.True(t, r.CreatedAt().IsZero(), "timestamps are assigned by the store")
		require.Len(t, r.PendingEvents(), 1)
		assert.Equal(t, reservation.EventCreated, r.PendingEvents()[0].EventName())
	})

	cases := []factoryCase{
		{name: "check-in today is allowed", in: 1, out: 3, partySize: 1},
		{name: "check-in in the past", in: 0, out: 3, partySize: 1, errIs: reservation.ErrCheckInInPast},
		{name: "zero party", in: 10, out: 12, partySize: 0, errIs: reservation.ErrInvalidPartySize},
		{name: "party at capacity", in: 10, out: 12, partySize: 4},
		{name: "party above capacity", in: 10, out: 12, partySize: 5, errIs: reservation.ErrPartyExceedsCapacity},
		{
			name:      "stay too short",
			mutate:    func(b *builder.ResourceBuilder) { b.MinStay = 2 },
			in:        10,
			out:       11,
			partySize: 1,
			errIs:     reservation.ErrStayTooShort,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rb := builder.NewResourceBuilder()
			if tc.mutate != nil {
				rb.With(tc.mutate)
			}
			_, err := newFactory(reservation.ApprovalInstant).
				CreateReservation(rb.MustBuildDomain(), uuid.New(), mustInterval(t, tc.in, tc.out), tc.partySize)
			if tc.errIs == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.errIs)
			assert.True(t, errs.Is(err, errs.ErrValidation))
		})
	}

	t.Run("initial status follows policy", func(t *testing.T) {
		instant := builder.NewResourceBuilder().With(func(b *builder.ResourceBuilder) { b.InstantBook = true }).MustBuildDomain()
		manual := builder.NewResourceBuilder().MustBuildDomain()

		assert.Equal(t, reservation.StatusConfirmed, newFactory(reservation.ApprovalInstant).InitialStatus(manual))
		assert.Equal(t, reservation.StatusPending, newFactory(reservation.ApprovalManual).InitialStatus(instant))
		assert.Equal(t, reservation.StatusConfirmed, newFactory(reservation.ApprovalResource).InitialStatus(instant))
		assert.Equal(t, reservation.StatusPending, newFactory(reservation.ApprovalResource).InitialStatus(manual))
	})

	t.Run("today is the UTC date when the clock reports another zone", func(t *testing.T) {
		jst := time.FixedZone("JST", 9*60*60)
		// 2030-01-01 08:00 JST is still 2029-12-31 in UTC.
		f := reservation.NewFactory(
			clock.NewMockClock(time.Date(2030, time.January, 1, 8, 0, 0, 0, jst)),
			reservation.NewNightlyPriceCalculator(),
			reservation.ApprovalInstant,
		)

		assert.NoError(t, f.ValidateInterval(mustInterval(t, 0, 2)))
		err := f.ValidateInterval(mustInterval(t, -1, 2))
		assert.ErrorIs(t, err, reservation.ErrCheckInInPast)
	})

	t.Run("today follows UTC west of Greenwich", func(t *testing.T) {
		pst := time.FixedZone("PST", -8*60*60)
		// 2029-12-31 18:00 PST is already 2030-01-01 in UTC.
		f := reservation.NewFactory(
			clock.NewMockClock(time.Date(2029, time.December, 31, 18, 0, 0, 0, pst)),
			reservation.NewNightlyPriceCalculator(),
			reservation.ApprovalInstant,
		)

		assert.NoError(t, f.ValidateInterval(mustInterval(t, 1, 3)))
		assert.ErrorIs(t, f.ValidateInterval(mustInterval(t, 0, 3)), reservation.ErrCheckInInPast)
	})
}
