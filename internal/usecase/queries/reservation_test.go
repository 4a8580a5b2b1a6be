//go:build unit

package queries_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/infra/memstore"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/queries"
	"reservation-engine/internal/usecase/shared"
	"reservation-engine/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	clock   *clock.MockClock
	store   *memstore.Store
	catalog *memstore.Catalog
	q       queries.ReservationQueries
}

func newFixture(t *testing.T, resources ...*resource.Resource) *fixture {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	clk := clock.NewMockClock(builder.Now)
	store := memstore.NewStore(clk, logger, nil)
	catalog := memstore.NewCatalog(logger)
	for _, res := range resources {
		catalog.Put(res)
	}
	return &fixture{
		clock:   clk,
		store:   store,
		catalog: catalog,
		q:       queries.NewReservationQueries(store, catalog, logger),
	}
}

func (f *fixture) seed(t *testing.T, rs ...*reservation.Reservation) {
	t.Helper()
	for _, r := range rs {
		err := f.store.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
			_, err := tx.Reservations().Create(ctx, r)
			return err
		})
		require.NoError(t, err)
	}
}

func window(in, out int) reservation.Interval {
	return builder.NewReservationBuilder().Days(in, out).Interval()
}

func TestGetAvailability(t *testing.T) {
	ctx := context.Background()
	res := builder.NewResourceBuilder().MustBuildDomain()

	t.Run("free window", func(t *testing.T) {
		f := newFixture(t, res)
		f.seed(t, builder.NewReservationBuilder().On(res).Days(5, 10).BuildDomain())

		got, err := f.q.GetAvailability(ctx, res.ID(), window(10, 15))

		require.NoError(t, err)
		assert.True(t, got.Available)
		assert.Empty(t, got.BlockedIntervals)
		assert.Equal(t, "2030-01-10", got.Start)
		assert.Equal(t, "2030-01-15", got.End)
	})

	t.Run("blocked intervals are clipped to the window and merged when they touch", func(t *testing.T) {
		f := newFixture(t, res)
		f.seed(t,
			builder.NewReservationBuilder().On(res).Days(3, 8).BuildDomain(),
			builder.NewReservationBuilder().On(res).Days(8, 10).WithStatus(reservation.StatusPending).BuildDomain(),
			builder.NewReservationBuilder().On(res).Days(12, 20).BuildDomain(),
			builder.NewReservationBuilder().On(res).Days(10, 12).WithStatus(reservation.StatusCancelled).BuildDomain(),
		)

		got, err := f.q.GetAvailability(ctx, res.ID(), window(5, 15))

		require.NoError(t, err)
		assert.False(t, got.Available)
		want := []queries.IntervalView{
			{Start: "2030-01-05", End: "2030-01-10"},
			{Start: "2030-01-12", End: "2030-01-15"},
		}
		if diff := cmp.Diff(want, got.BlockedIntervals); diff != "" {
			t.Errorf("blocked intervals mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("other resources do not block", func(t *testing.T) {
		f := newFixture(t, res)
		f.seed(t, builder.NewReservationBuilder().Days(10, 15).BuildDomain())

		got, err := f.q.GetAvailability(ctx, res.ID(), window(10, 15))

		require.NoError(t, err)
		assert.True(t, got.Available)
	})

	t.Run("unknown resource", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.q.GetAvailability(ctx, uuid.New(), window(10, 15))

		assert.Equal(t, errs.ErrNotFound, errs.Class(err))
	})

	t.Run("empty window", func(t *testing.T) {
		f := newFixture(t, res)

		_, err := f.q.GetAvailability(ctx, res.ID(), reservation.Interval{})

		assert.Equal(t, errs.ErrValidation, errs.Class(err))
	})
}

func TestListReservationsFor(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	withOwner := func(b *builder.ResourceBuilder) { b.OwnerID = ownerID }
	cabin := builder.NewResourceBuilder().With(withOwner).MustBuildDomain()
	loft := builder.NewResourceBuilder().With(withOwner).MustBuildDomain()
	elsewhere := builder.NewResourceBuilder().MustBuildDomain()
	requesterID := uuid.New()

	older := builder.NewReservationBuilder().On(cabin).With(func(b *builder.ReservationBuilder) {
		b.RequesterID = requesterID
	}).BuildDomain()
	newer := builder.NewReservationBuilder().On(loft).Days(2, 4).BuildDomain()
	foreign := builder.NewReservationBuilder().On(elsewhere).With(func(b *builder.ReservationBuilder) {
		b.RequesterID = requesterID
	}).BuildDomain()

	f := newFixture(t, cabin, loft, elsewhere)
	f.seed(t, older)
	f.clock.Add(time.Hour)
	f.seed(t, newer, foreign)

	ids := func(views []*queries.ReservationView) []uuid.UUID {
		out := make([]uuid.UUID, len(views))
		for i, v := range views {
			out[i] = v.ID
		}
		return out
	}

	testCases := []struct {
		name    string
		actorID uuid.UUID
		role    string
		want    []uuid.UUID
	}{
		{name: "requester sees own bookings newest first", actorID: requesterID, role: queries.RoleRequester, want: []uuid.UUID{foreign.ID(), older.ID()}},
		{name: "owner sees bookings on owned resources", actorID: ownerID, role: queries.RoleOwner, want: []uuid.UUID{newer.ID(), older.ID()}},
		{name: "owner of nothing sees nothing", actorID: uuid.New(), role: queries.RoleOwner, want: []uuid.UUID{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.q.ListReservationsFor(ctx, tc.actorID, tc.role)

			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(got))
		})
	}

	t.Run("unknown role", func(t *testing.T) {
		_, err := f.q.ListReservationsFor(ctx, requesterID, "guest")

		assert.Equal(t, errs.ErrValidation, errs.Class(err))
		assert.True(t, errs.Is(err, queries.ErrUnknownRole))
	})
}

func TestGetReservation(t *testing.T) {
	ctx := context.Background()
	res := builder.NewResourceBuilder().MustBuildDomain()
	r := builder.NewReservationBuilder().On(res).BuildDomain()
	f := newFixture(t, res)
	f.seed(t, r)

	t.Run("requester", func(t *testing.T) {
		got, err := f.q.GetReservation(ctx, r.RequesterID(), r.ID())

		require.NoError(t, err)
		want := &queries.ReservationView{
			ID:          r.ID(),
			ResourceID:  res.ID(),
			RequesterID: r.RequesterID(),
			CheckIn:     "2030-01-10",
			CheckOut:    "2030-01-13",
			Nights:      3,
			PartySize:   2,
			TotalPrice:  300,
			Status:      "confirmed",
			CreatedAt:   builder.Now,
			UpdatedAt:   builder.Now,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("view mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("owner", func(t *testing.T) {
		_, err := f.q.GetReservation(ctx, res.OwnerID(), r.ID())

		require.NoError(t, err)
	})

	t.Run("stranger is refused", func(t *testing.T) {
		_, err := f.q.GetReservation(ctx, uuid.New(), r.ID())

		assert.Equal(t, errs.ErrAuthorization, errs.Class(err))
	})

	t.Run("unknown reservation", func(t *testing.T) {
		_, err := f.q.GetReservation(ctx, r.RequesterID(), uuid.New())

		assert.Equal(t, errs.ErrNotFound, errs.Class(err))
		assert.True(t, errs.Is(err, reservation.ErrReservationNotFound))
	})

	t.Run("requester keeps access after the resource is delisted", func(t *testing.T) {
		orphan := builder.NewReservationBuilder().Days(20, 21).BuildDomain()
		f.seed(t, orphan)

		_, err := f.q.GetReservation(ctx, orphan.RequesterID(), orphan.ID())

		require.NoError(t, err)
	})
}

func TestReviewEligibility(t *testing.T) {
	ctx := context.Background()
	res := builder.NewResourceBuilder().MustBuildDomain()
	completed := builder.NewReservationBuilder().On(res).Days(1, 2).WithStatus(reservation.StatusCompleted).BuildDomain()
	confirmed := builder.NewReservationBuilder().On(res).Days(5, 6).BuildDomain()
	f := newFixture(t, res)
	f.seed(t, completed, confirmed)

	testCases := []struct {
		name     string
		actorID  uuid.UUID
		id       uuid.UUID
		eligible bool
		reason   string
	}{
		{name: "requester of a completed stay", actorID: completed.RequesterID(), id: completed.ID(), eligible: true, reason: queries.ReasonOK},
		{name: "requester of an upcoming stay", actorID: confirmed.RequesterID(), id: confirmed.ID(), reason: queries.ReasonNotCompleted},
		{name: "owner", actorID: res.OwnerID(), id: completed.ID(), reason: queries.ReasonNotRequester},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.q.ReviewEligibility(ctx, tc.actorID, tc.id)

			require.NoError(t, err)
			assert.Equal(t, tc.id, got.ReservationID)
			assert.Equal(t, tc.eligible, got.Eligible)
			assert.Equal(t, tc.reason, got.Reason)
		})
	}

	t.Run("stranger is refused", func(t *testing.T) {
		_, err := f.q.ReviewEligibility(ctx, uuid.New(), completed.ID())

		assert.Equal(t, errs.ErrAuthorization, errs.Class(err))
	})
}
