package queries

import (
	"context"
	"errors"
	"log/slog"

	"reservation-engine/internal/domain/availability"
	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrUnknownRole = errs.Mark(errors.New("role must be requester or owner"), errs.ErrValidation)

type ReservationQueries interface {
	GetAvailability(ctx context.Context, resourceID uuid.UUID, rng reservation.Interval) (*AvailabilityView, error)
	ListReservationsFor(ctx context.Context, actorID uuid.UUID, role string) ([]*ReservationView, error)
	GetReservation(ctx context.Context, actorID, reservationID uuid.UUID) (*ReservationView, error)
	ReviewEligibility(ctx context.Context, actorID, reservationID uuid.UUID) (*ReviewEligibilityView, error)
}

// ReservationReadStore reads committed reservations. List methods return newest first, ties by id.
type ReservationReadStore interface {
	availability.Index
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*reservation.Reservation, error)
	ListByResources(ctx context.Context, resourceIDs []uuid.UUID) ([]*reservation.Reservation, error)
}

type reservationQueriesImpl struct {
	store   ReservationReadStore
	catalog shared.ResourceCatalog
	checker *availability.Checker
	logger  *slog.Logger
}

func NewReservationQueries(store ReservationReadStore, catalog shared.ResourceCatalog, logger *slog.Logger) ReservationQueries {
	return &reservationQueriesImpl{
		store:   store,
		catalog: catalog,
		checker: availability.NewChecker(store),
		logger:  logger,
	}
}

func (q *reservationQueriesImpl) GetAvailability(ctx context.Context, resourceID uuid.UUID, rng reservation.Interval) (*AvailabilityView, error) {
	if rng.IsZero() {
		return nil, reservation.ErrInvalidInterval
	}
	if _, err := q.getResource(ctx, resourceID); err != nil {
		return nil, err
	}

	result, err := q.checker.Availability(ctx, resourceID, rng)
	if err != nil {
		return nil, err
	}

	blocked := make([]IntervalView, len(result.Blocked))
	for i, iv := range result.Blocked {
		blocked[i] = ToIntervalView(iv)
	}
	window := ToIntervalView(rng)
	return &AvailabilityView{
		ResourceID:       resourceID,
		Start:            window.Start,
		End:              window.End,
		Available:        result.Available,
		BlockedIntervals: blocked,
	}, nil
}

func (q *reservationQueriesImpl) ListReservationsFor(ctx context.Context, actorID uuid.UUID, role string) ([]*ReservationView, error) {
	var (
		rs  []*reservation.Reservation
		err error
	)
	switch role {
	case RoleRequester:
		rs, err = q.store.ListByRequester(ctx, actorID)
	case RoleOwner:
		var owned []uuid.UUID
		owned, err = q.catalog.ResourceIDsOwnedBy(ctx, actorID)
		if err != nil {
			return nil, err
		}
		rs, err = q.store.ListByResources(ctx, owned)
	default:
		return nil, errs.Wrapf(ErrUnknownRole, "got %q", role)
	}
	if err != nil {
		return nil, err
	}
	return ToReservationViews(rs), nil
}

// GetReservation shows a reservation to its requester and to the resource owner only.
func (q *reservationQueriesImpl) GetReservation(ctx context.Context, actorID, reservationID uuid.UUID) (*ReservationView, error) {
	r, err := q.participantView(ctx, actorID, reservationID)
	if err != nil {
		return nil, err
	}
	return ToReservationView(r), nil
}

// ReviewEligibility: only the requester of a completed stay may review it. Other participants get
// a negative answer with a reason; non-participants are refused like GetReservation.
func (q *reservationQueriesImpl) ReviewEligibility(ctx context.Context, actorID, reservationID uuid.UUID) (*ReviewEligibilityView, error) {
	r, err := q.participantView(ctx, actorID, reservationID)
	if err != nil {
		return nil, err
	}

	view := &ReviewEligibilityView{ReservationID: r.ID()}
	switch {
	case r.RequesterID() != actorID:
		view.Reason = ReasonNotRequester
	case r.Status() != reservation.StatusCompleted:
		view.Reason = ReasonNotCompleted
	default:
		view.Eligible, view.Reason = true, ReasonOK
	}
	return view, nil
}

func (q *reservationQueriesImpl) participantView(ctx context.Context, actorID, reservationID uuid.UUID) (*reservation.Reservation, error) {
	r, err := q.store.FindByID(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Wrapf(reservation.ErrReservationNotFound, "id %s", reservationID)
		}
		return nil, err
	}

	ownerID := uuid.Nil
	res, err := q.catalog.GetResource(ctx, r.ResourceID())
	switch {
	case err == nil:
		ownerID = res.OwnerID()
	case infra.IsKind(err, infra.KindNotFound):
		// delisted resource: the requester keeps access
		q.logger.Warn("reservation references unknown resource", "reservation_id", r.ID(), "resource_id", r.ResourceID())
	default:
		return nil, err
	}

	if _, err := r.ActorFor(actorID, ownerID); err != nil {
		return nil, errs.Wrapf(err, "reservation %s", reservationID)
	}
	return r, nil
}

func (q *reservationQueriesImpl) getResource(ctx context.Context, resourceID uuid.UUID) (*resource.Resource, error) {
	res, err := q.catalog.GetResource(ctx, resourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Wrapf(resource.ErrResourceNotFound, "id %s", resourceID)
		}
		return nil, err
	}
	return res, nil
}
