//go:build unit

package commands_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/infra/lock"
	"reservation-engine/internal/infra/memstore"
	"reservation-engine/internal/infra/outbox"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/shared"
	"reservation-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"
)

type ReservationCommandsTestSuite struct {
	suite.Suite
	clock    *clock.MockClock
	store    *memstore.Store
	outbox   *outbox.MemoryStore
	catalog  *memstore.Catalog
	locker   *lock.LocalLocker
	uow      shared.UnitOfWork
	resource *resource.Resource
	policy   reservation.ApprovalPolicy
	cmds     commands.ReservationCommands
}

func TestReservationCommandsSuite(t *testing.T) {
	suite.Run(t, new(ReservationCommandsTestSuite))
}

func (s *ReservationCommandsTestSuite) SetupTest() {
	logger := slog.New(slog.DiscardHandler)
	s.clock = clock.NewMockClock(builder.Now)
	s.outbox = outbox.NewMemoryStore(s.clock)
	s.store = memstore.NewStore(s.clock, logger, s.outbox)
	s.catalog = memstore.NewCatalog(logger)
	s.locker = lock.NewLocalLocker(50 * time.Millisecond)
	s.uow = s.store
	s.policy = reservation.ApprovalManual
	s.resource = builder.NewResourceBuilder().MustBuildDomain()
	s.catalog.Put(s.resource)
	s.build()
}

func (s *ReservationCommandsTestSuite) build() {
	factory := reservation.NewFactory(s.clock, reservation.NewNightlyPriceCalculator(), s.policy)
	s.cmds = commands.NewReservationUseCase(s.uow, s.catalog, s.locker, s.store, factory, s.clock, slog.New(slog.DiscardHandler))
}

func (s *ReservationCommandsTestSuite) input(in, out int) commands.CreateReservationInput {
	return commands.CreateReservationInput{
		ResourceID:  s.resource.ID(),
		RequesterID: uuid.New(),
		Interval:    builder.NewReservationBuilder().Days(in, out).Interval(),
		PartySize:   2,
	}
}

func (s *ReservationCommandsTestSuite) mustCreate(in, out int) *reservation.Reservation {
	r, err := s.cmds.CreateReservation(context.Background(), s.input(in, out))
	s.Require().NoError(err)
	return r
}

// ================================================================================
// CreateReservation
// ================================================================================

func (s *ReservationCommandsTestSuite) TestCreate() {
	ctx := context.Background()

	s.Run("success: manual approval starts pending and is priced per night", func() {
		in := s.input(10, 13)
		r, err := s.cmds.CreateReservation(ctx, in)

		s.Require().NoError(err)
		s.Equal(reservation.StatusPending, r.Status())
		s.Equal(in.RequesterID, r.RequesterID())
		s.Equal(int64(300), r.TotalPrice().Cents())
		s.Equal(builder.Now, r.CreatedAt())

		stored, err := s.store.FindByID(ctx, r.ID())
		s.Require().NoError(err)
		s.Equal(r.Interval(), stored.Interval())
	})

	s.Run("success: instant approval confirms immediately", func() {
		s.policy = reservation.ApprovalInstant
		s.build()

		r, err := s.cmds.CreateReservation(ctx, s.input(20, 22))

		s.Require().NoError(err)
		s.Equal(reservation.StatusConfirmed, r.Status())
	})

	s.Run("success: touching stays share the boundary day", func() {
		s.mustCreate(1, 3)
		s.mustCreate(3, 5)
	})
}

func (s *ReservationCommandsTestSuite) TestCreate_EmitsCreatedEvent() {
	r := s.mustCreate(10, 13)

	pending := s.outbox.Pending()
	s.Require().Len(pending, 1)
	s.Equal(reservation.EventCreated, pending[0].EventType)
	s.Equal(r.ID().String(), pending[0].AggregateID)
	s.Equal(s.resource.ID().String(), pending[0].Key)
}

func (s *ReservationCommandsTestSuite) TestCreate_Validation() {
	ctx := context.Background()
	testCases := []struct {
		name   string
		mutate func(in *commands.CreateReservationInput)
		class  error
		target error
	}{
		{
			name:   "check-in in the past",
			mutate: func(in *commands.CreateReservationInput) { in.Interval = pastInterval() },
			class:  errs.ErrValidation,
			target: reservation.ErrCheckInInPast,
		},
		{
			name:   "empty interval",
			mutate: func(in *commands.CreateReservationInput) { in.Interval = reservation.Interval{} },
			class:  errs.ErrValidation,
			target: reservation.ErrInvalidInterval,
		},
		{
			name:   "party of zero",
			mutate: func(in *commands.CreateReservationInput) { in.PartySize = 0 },
			class:  errs.ErrValidation,
			target: reservation.ErrInvalidPartySize,
		},
		{
			name:   "party above capacity",
			mutate: func(in *commands.CreateReservationInput) { in.PartySize = 5 },
			class:  errs.ErrValidation,
			target: reservation.ErrPartyExceedsCapacity,
		},
		{
			name:   "unknown resource",
			mutate: func(in *commands.CreateReservationInput) { in.ResourceID = uuid.New() },
			class:  errs.ErrNotFound,
			target: resource.ErrResourceNotFound,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			in := s.input(10, 13)
			tc.mutate(&in)

			_, err := s.cmds.CreateReservation(ctx, in)

			s.Require().Error(err)
			s.Equal(tc.class, errs.Class(err))
			s.True(errs.Is(err, tc.target), "got %v", err)
		})
	}
	s.Empty(s.outbox.Pending())
}

func pastInterval() reservation.Interval {
	iv, err := reservation.NewInterval(builder.BaseDate.AddDate(0, 0, -2), builder.BaseDate.AddDate(0, 0, 1))
	if err != nil {
		panic(err)
	}
	return iv
}

func (s *ReservationCommandsTestSuite) TestCreate_Conflict() {
	ctx := context.Background()
	existing := s.mustCreate(10, 13)

	_, err := s.cmds.CreateReservation(ctx, s.input(12, 15))

	s.Require().Error(err)
	s.Equal(errs.ErrConflict, errs.Class(err))
	var conflict *reservation.ConflictError
	s.Require().True(errors.As(err, &conflict))
	s.Equal([]uuid.UUID{existing.ID()}, conflict.ConflictingIDs)
	s.Equal(s.resource.ID(), conflict.ResourceID)
	s.Len(s.outbox.Pending(), 1)
}

func (s *ReservationCommandsTestSuite) TestCreate_ConcurrentRequestsForSameDates() {
	ctx := context.Background()
	const attempts = 16
	s.locker = lock.NewLocalLocker(5 * time.Second)
	s.build()

	var (
		mu        sync.Mutex
		created   []*reservation.Reservation
		conflicts int
	)
	var g errgroup.Group
	for range attempts {
		g.Go(func() error {
			r, err := s.cmds.CreateReservation(ctx, s.input(10, 13))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created = append(created, r)
			case errs.Class(err) == errs.ErrConflict:
				conflicts++
			default:
				return err
			}
			return nil
		})
	}

	s.Require().NoError(g.Wait())
	s.Len(created, 1)
	s.Equal(attempts-1, conflicts)
}

func (s *ReservationCommandsTestSuite) TestCreate_BusyWhenWriteScopeIsHeld() {
	ctx := context.Background()
	release, err := s.locker.Acquire(ctx, s.resource.ID())
	s.Require().NoError(err)
	defer release()

	_, err = s.cmds.CreateReservation(ctx, s.input(10, 13))

	s.Require().Error(err)
	s.Equal(errs.ErrConflict, errs.Class(err))
	var conflict *reservation.ConflictError
	s.Require().True(errors.As(err, &conflict))
	s.Empty(conflict.ConflictingIDs)
	s.True(errs.Is(err, shared.ErrLockTimeout))
}

// racingUoW commits a competing reservation after the overlap check passed but before the commit.
type racingUoW struct {
	inner *memstore.Store
	once  sync.Once
	rival *reservation.Reservation
}

func (u *racingUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.inner.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := fn(ctx, tx); err != nil {
			return err
		}
		var rivalErr error
		u.once.Do(func() {
			rivalErr = u.inner.Within(ctx, func(ctx context.Context, rtx shared.Tx) error {
				_, err := rtx.Reservations().Create(ctx, u.rival)
				return err
			})
		})
		return rivalErr
	})
}

func (s *ReservationCommandsTestSuite) TestCreate_StorageOverlapBecomesConflict() {
	ctx := context.Background()
	rival := builder.NewReservationBuilder().On(s.resource).Days(11, 12).
		WithStatus(reservation.StatusPending).BuildDomain()
	s.uow = &racingUoW{inner: s.store, rival: rival}
	s.build()

	_, err := s.cmds.CreateReservation(ctx, s.input(10, 13))

	s.Require().Error(err)
	var conflict *reservation.ConflictError
	s.Require().True(errors.As(err, &conflict))
	s.Equal([]uuid.UUID{rival.ID()}, conflict.ConflictingIDs)
	s.Empty(s.outbox.Pending(), "the losing write emits nothing")
}

// ================================================================================
// CancelReservation / ConfirmReservation
// ================================================================================

func (s *ReservationCommandsTestSuite) TestCancel() {
	ctx := context.Background()

	s.Run("requester cancels and the dates open up", func() {
		r := s.mustCreate(10, 13)
		s.clock.Add(time.Hour)

		cancelled, err := s.cmds.CancelReservation(ctx, r.ID(), r.RequesterID())

		s.Require().NoError(err)
		s.Equal(reservation.StatusCancelled, cancelled.Status())
		s.Equal(builder.Now.Add(time.Hour), cancelled.UpdatedAt())
		s.mustCreate(10, 13)
	})

	s.Run("owner cancels", func() {
		r := s.mustCreate(20, 22)

		cancelled, err := s.cmds.CancelReservation(ctx, r.ID(), s.resource.OwnerID())

		s.Require().NoError(err)
		s.Equal(reservation.StatusCancelled, cancelled.Status())
	})

	s.Run("stranger is rejected", func() {
		r := s.mustCreate(24, 25)

		_, err := s.cmds.CancelReservation(ctx, r.ID(), uuid.New())

		s.Equal(errs.ErrAuthorization, errs.Class(err))
	})

	s.Run("cancelling twice is an invalid transition", func() {
		r := s.mustCreate(26, 27)
		_, err := s.cmds.CancelReservation(ctx, r.ID(), r.RequesterID())
		s.Require().NoError(err)

		_, err = s.cmds.CancelReservation(ctx, r.ID(), r.RequesterID())

		s.Equal(errs.ErrInvalidState, errs.Class(err))
		s.True(errs.Is(err, reservation.ErrInvalidTransition))
	})

	s.Run("requester cancels after the resource is delisted", func() {
		orphan := builder.NewReservationBuilder().Days(20, 21).BuildDomain()
		err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			_, err := tx.Reservations().Create(ctx, orphan)
			return err
		})
		s.Require().NoError(err)

		_, err = s.cmds.CancelReservation(ctx, orphan.ID(), uuid.New())
		s.Equal(errs.ErrAuthorization, errs.Class(err))

		cancelled, err := s.cmds.CancelReservation(ctx, orphan.ID(), orphan.RequesterID())
		s.Require().NoError(err)
		s.Equal(reservation.StatusCancelled, cancelled.Status())
	})

	s.Run("unknown reservation", func() {
		_, err := s.cmds.CancelReservation(ctx, uuid.New(), uuid.New())

		s.Equal(errs.ErrNotFound, errs.Class(err))
		s.True(errs.Is(err, reservation.ErrReservationNotFound))
	})
}

func (s *ReservationCommandsTestSuite) TestConfirm() {
	ctx := context.Background()

	s.Run("owner confirms a pending reservation", func() {
		r := s.mustCreate(10, 13)

		confirmed, err := s.cmds.ConfirmReservation(ctx, r.ID(), s.resource.OwnerID())

		s.Require().NoError(err)
		s.Equal(reservation.StatusConfirmed, confirmed.Status())
		pending := s.outbox.Pending()
		s.Equal(reservation.EventConfirmed, pending[len(pending)-1].EventType)
	})

	s.Run("requester may not confirm", func() {
		r := s.mustCreate(20, 22)

		_, err := s.cmds.ConfirmReservation(ctx, r.ID(), r.RequesterID())

		s.Equal(errs.ErrAuthorization, errs.Class(err))
		s.True(errs.Is(err, reservation.ErrActorNotPermitted))
	})

	s.Run("confirming twice is an invalid transition", func() {
		r := s.mustCreate(24, 25)
		_, err := s.cmds.ConfirmReservation(ctx, r.ID(), s.resource.OwnerID())
		s.Require().NoError(err)

		_, err = s.cmds.ConfirmReservation(ctx, r.ID(), s.resource.OwnerID())

		s.Equal(errs.ErrInvalidState, errs.Class(err))
	})
}

// ================================================================================
// CompleteReservation / SweepCompleted
// ================================================================================

func (s *ReservationCommandsTestSuite) TestComplete() {
	ctx := context.Background()
	r := s.mustCreate(2, 4)
	_, err := s.cmds.ConfirmReservation(ctx, r.ID(), s.resource.OwnerID())
	s.Require().NoError(err)

	_, err = s.cmds.CompleteReservation(ctx, r.ID())
	s.Equal(errs.ErrInvalidState, errs.Class(err), "stay has not ended")

	s.clock.Set(builder.Day(4))
	completed, err := s.cmds.CompleteReservation(ctx, r.ID())
	s.Require().NoError(err)
	s.Equal(reservation.StatusCompleted, completed.Status())

	pendingOne := s.mustCreate(5, 6)
	s.clock.Set(builder.Day(7))
	_, err = s.cmds.CompleteReservation(ctx, pendingOne.ID())
	s.Equal(errs.ErrInvalidState, errs.Class(err), "only confirmed stays complete")
}

func (s *ReservationCommandsTestSuite) TestSweepCompleted() {
	ctx := context.Background()
	confirm := func(r *reservation.Reservation) {
		_, err := s.cmds.ConfirmReservation(ctx, r.ID(), s.resource.OwnerID())
		s.Require().NoError(err)
	}

	endedA := s.mustCreate(1, 3)
	endedB := s.mustCreate(3, 6)
	ongoing := s.mustCreate(6, 9)
	unconfirmed := s.mustCreate(9, 10)
	confirm(endedA)
	confirm(endedB)
	confirm(ongoing)

	s.clock.Set(builder.Day(7).Add(2 * time.Hour))
	n, err := s.cmds.SweepCompleted(ctx)

	s.Require().NoError(err)
	s.Equal(2, n)
	for id, want := range map[uuid.UUID]reservation.Status{
		endedA.ID():      reservation.StatusCompleted,
		endedB.ID():      reservation.StatusCompleted,
		ongoing.ID():     reservation.StatusConfirmed,
		unconfirmed.ID(): reservation.StatusPending,
	} {
		got, err := s.store.FindByID(ctx, id)
		s.Require().NoError(err)
		s.Equal(want, got.Status())
	}

	again, err := s.cmds.SweepCompleted(ctx)
	s.Require().NoError(err)
	s.Zero(again)
}
