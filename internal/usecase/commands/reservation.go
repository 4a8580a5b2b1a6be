package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"reservation-engine/internal/domain/availability"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// ReservationCommands is the booking orchestrator, the only writer of reservations.
type ReservationCommands interface {
	CreateReservation(ctx context.Context, in CreateReservationInput) (*reservation.Reservation, error)
	CancelReservation(ctx context.Context, reservationID, actorID uuid.UUID) (*reservation.Reservation, error)
	ConfirmReservation(ctx context.Context, reservationID, actorID uuid.UUID) (*reservation.Reservation, error)
	CompleteReservation(ctx context.Context, reservationID uuid.UUID) (*reservation.Reservation, error)
	SweepCompleted(ctx context.Context) (int, error)
}

type reservationUseCaseImpl struct {
	uow     shared.UnitOfWork
	catalog shared.ResourceCatalog
	locker  shared.ResourceLocker
	reads   ReservationReader
	factory *reservation.Factory
	clock   clock.Clock
	logger  *slog.Logger
}

func NewReservationUseCase(
	uow shared.UnitOfWork,
	catalog shared.ResourceCatalog,
	locker shared.ResourceLocker,
	reads ReservationReader,
	factory *reservation.Factory,
	clk clock.Clock,
	logger *slog.Logger,
) ReservationCommands {
	return &reservationUseCaseImpl{
		uow:     uow,
		catalog: catalog,
		locker:  locker,
		reads:   reads,
		factory: factory,
		clock:   clk,
		logger:  logger,
	}
}

func (uc *reservationUseCaseImpl) CreateReservation(ctx context.Context, in CreateReservationInput) (*reservation.Reservation, error) {
	if err := uc.factory.ValidateInterval(in.Interval); err != nil {
		return nil, err
	}

	res, err := uc.getResource(ctx, in.ResourceID)
	if err != nil {
		return nil, err
	}

	draft, err := uc.factory.CreateReservation(res, in.RequesterID, in.Interval, in.PartySize)
	if err != nil {
		return nil, err
	}

	release, err := uc.acquire(ctx, res.ID(), in.Interval)
	if err != nil {
		return nil, err
	}
	defer release()

	var created *reservation.Reservation
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		conflicts, err := availability.NewChecker(tx.Reservations()).CheckConflicts(ctx, res.ID(), in.Interval)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return reservation.NewConflictError(res.ID(), in.Interval, conflicts)
		}

		created, err = tx.Reservations().Create(ctx, draft)
		if err != nil {
			return err
		}
		return tx.Events().Append(ctx, draft.PendingEvents())
	})
	if err != nil {
		return nil, uc.translate(ctx, err, res.ID(), in.Interval)
	}
	draft.ClearEvents()

	uc.logger.Info("reservation created",
		"reservation_id", created.ID(),
		"resource_id", created.ResourceID(),
		"interval", created.Interval().String(),
		"status", created.Status())
	return created, nil
}

func (uc *reservationUseCaseImpl) CancelReservation(ctx context.Context, reservationID, actorID uuid.UUID) (*reservation.Reservation, error) {
	authorize := func(r *reservation.Reservation, ownerID uuid.UUID) (reservation.Actor, error) {
		return r.ActorFor(actorID, ownerID)
	}
	apply := func(r *reservation.Reservation, actor reservation.Actor, now time.Time) error {
		return r.Cancel(actor, now)
	}
	return uc.changeStatus(ctx, reservationID, authorize, apply)
}

func (uc *reservationUseCaseImpl) ConfirmReservation(ctx context.Context, reservationID, actorID uuid.UUID) (*reservation.Reservation, error) {
	authorize := func(r *reservation.Reservation, ownerID uuid.UUID) (reservation.Actor, error) {
		actor, err := r.ActorFor(actorID, ownerID)
		if err != nil {
			return "", err
		}
		if actor != reservation.ActorOwner {
			return "", errs.Wrapf(reservation.ErrActorNotPermitted, "only the owner of resource %s confirms", r.ResourceID())
		}
		return actor, nil
	}
	apply := func(r *reservation.Reservation, actor reservation.Actor, now time.Time) error {
		return r.Confirm(actor, now)
	}
	return uc.changeStatus(ctx, reservationID, authorize, apply)
}

func (uc *reservationUseCaseImpl) CompleteReservation(ctx context.Context, reservationID uuid.UUID) (*reservation.Reservation, error) {
	authorize := func(*reservation.Reservation, uuid.UUID) (reservation.Actor, error) {
		return reservation.ActorSystem, nil
	}
	apply := func(r *reservation.Reservation, _ reservation.Actor, now time.Time) error {
		return r.Complete(now)
	}
	return uc.changeStatus(ctx, reservationID, authorize, apply)
}

type authorizeFunc func(r *reservation.Reservation, ownerID uuid.UUID) (reservation.Actor, error)

type applyFunc func(r *reservation.Reservation, actor reservation.Actor, now time.Time) error

// changeStatus authorizes against committed state, then re-reads and applies the transition under
// the resource's write scope so it sees every write that finished before it.
func (uc *reservationUseCaseImpl) changeStatus(ctx context.Context, reservationID uuid.UUID, authorize authorizeFunc, apply applyFunc) (*reservation.Reservation, error) {
	current, err := uc.reads.FindByID(ctx, reservationID)
	if err != nil {
		return nil, uc.notFoundOr(err, reservation.ErrReservationNotFound, reservationID)
	}
	ownerID, err := uc.resolveOwner(ctx, current)
	if err != nil {
		return nil, err
	}
	actor, err := authorize(current, ownerID)
	if err != nil {
		return nil, err
	}

	release, err := uc.acquire(ctx, current.ResourceID(), current.Interval())
	if err != nil {
		return nil, err
	}
	defer release()

	var updated *reservation.Reservation
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := tx.Reservations().FindByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if err := apply(r, actor, uc.clock.Now()); err != nil {
			return err
		}
		updated, err = tx.Reservations().UpdateStatus(ctx, r)
		if err != nil {
			return err
		}
		return tx.Events().Append(ctx, r.PendingEvents())
	})
	if err != nil {
		return nil, uc.translate(ctx, err, current.ResourceID(), current.Interval())
	}

	uc.logger.Info("reservation status changed",
		"reservation_id", updated.ID(),
		"actor", actor,
		"status", updated.Status())
	return updated, nil
}

func (uc *reservationUseCaseImpl) getResource(ctx context.Context, resourceID uuid.UUID) (*resource.Resource, error) {
	res, err := uc.catalog.GetResource(ctx, resourceID)
	if err != nil {
		return nil, uc.notFoundOr(err, resource.ErrResourceNotFound, resourceID)
	}
	return res, nil
}

// resolveOwner returns uuid.Nil for a delisted resource so its requester can still act on the reservation.
func (uc *reservationUseCaseImpl) resolveOwner(ctx context.Context, r *reservation.Reservation) (uuid.UUID, error) {
	res, err := uc.catalog.GetResource(ctx, r.ResourceID())
	switch {
	case err == nil:
		return res.OwnerID(), nil
	case infra.IsKind(err, infra.KindNotFound):
		uc.logger.Warn("reservation references unknown resource", "reservation_id", r.ID(), "resource_id", r.ResourceID())
		return uuid.Nil, nil
	default:
		return uuid.Nil, err
	}
}

func (uc *reservationUseCaseImpl) acquire(ctx context.Context, resourceID uuid.UUID, iv reservation.Interval) (func(), error) {
	release, err := uc.locker.Acquire(ctx, resourceID)
	if err != nil {
		if errors.Is(err, shared.ErrLockTimeout) {
			return nil, reservation.NewBusyError(resourceID, iv, err)
		}
		return nil, err
	}
	return release, nil
}

// notFoundOr replaces a store miss with the domain's not-found sentinel; the store has already logged it.
func (uc *reservationUseCaseImpl) notFoundOr(err, notFound error, id uuid.UUID) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Wrapf(notFound, "id %s", id)
	}
	return err
}

// translate maps storage failures from a write transaction onto the error taxonomy.
func (uc *reservationUseCaseImpl) translate(ctx context.Context, err error, resourceID uuid.UUID, iv reservation.Interval) error {
	var conflict *reservation.ConflictError
	switch {
	case errors.As(err, &conflict):
		return conflict
	case infra.IsKind(err, infra.KindOverlap):
		// a concurrent writer got past the checker; report whoever holds the dates now
		conflicts, cerr := availability.NewChecker(uc.reads).CheckConflicts(ctx, resourceID, iv)
		if cerr != nil || len(conflicts) == 0 {
			return reservation.NewBusyError(resourceID, iv, err)
		}
		return reservation.NewConflictError(resourceID, iv, conflicts)
	case errs.Is(err, shared.ErrMaxRetriesExceeded):
		return reservation.NewBusyError(resourceID, iv, err)
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Wrapf(reservation.ErrReservationNotFound, "on resource %s", resourceID)
	default:
		return err
	}
}
