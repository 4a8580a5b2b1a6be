package reservation

import (
	"time"

	"reservation-engine/internal/domain/shared/events"
	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

type Reservation struct {
	events.EventRecorder

	id          uuid.UUID
	resourceID  uuid.UUID
	requesterID uuid.UUID
	interval    Interval
	partySize   int
	totalPrice  Money
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
}

func newReservation(
	resourceID, requesterID uuid.UUID,
	interval Interval,
	partySize int,
	totalPrice Money,
	status Status,
	now time.Time,
) *Reservation {
	r := &Reservation{
		id:          uuid.New(),
		resourceID:  resourceID,
		requesterID: requesterID,
		interval:    interval,
		partySize:   partySize,
		totalPrice:  totalPrice,
		status:      status,
	}
	r.Record(newEvent(EventCreated, r, now))
	return r
}

func ReconstructReservation(
	id, resourceID, requesterID uuid.UUID,
	interval Interval,
	partySize int,
	totalPrice Money,
	status Status,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:          id,
		resourceID:  resourceID,
		requesterID: requesterID,
		interval:    interval,
		partySize:   partySize,
		totalPrice:  totalPrice,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Blocks reports whether r occupies any day of iv.
func (r *Reservation) Blocks(iv Interval) bool {
	return r.status.IsBlocking() && r.interval.Overlaps(iv)
}

// ActorFor resolves the role actorID holds on r. The owner role wins when both apply.
func (r *Reservation) ActorFor(actorID, ownerID uuid.UUID) (Actor, error) {
	switch actorID {
	case ownerID:
		return ActorOwner, nil
	case r.requesterID:
		return ActorRequester, nil
	default:
		return "", ErrNotParticipant
	}
}

func (r *Reservation) Confirm(actor Actor, now time.Time) error {
	return r.transition(StatusConfirmed, actor, now)
}

func (r *Reservation) Cancel(actor Actor, now time.Time) error {
	return r.transition(StatusCancelled, actor, now)
}

// Complete is the sweep transition; it is legal only once the stay's end date has passed.
func (r *Reservation) Complete(now time.Time) error {
	if r.status.CanTransitionTo(StatusCompleted) && !r.interval.EndedBy(now) {
		return errs.Wrapf(ErrStayNotEnded, "reservation %s ends %s", r.id, r.interval.End().Format(DateLayout))
	}
	return r.transition(StatusCompleted, ActorSystem, now)
}

func (r *Reservation) transition(to Status, actor Actor, now time.Time) error {
	if !r.status.CanTransitionTo(to) {
		return errs.Wrapf(ErrInvalidTransition, "%s -> %s", r.status, to)
	}
	if !actor.mayMoveTo(to) {
		return errs.Wrapf(ErrActorNotPermitted, "%s cannot move reservation to %s", actor, to)
	}

	r.status = to
	r.updatedAt = now
	r.Record(newEvent(eventNameFor(to), r, now))
	return nil
}

func (r *Reservation) ID() uuid.UUID          { return r.id }
func (r *Reservation) ResourceID() uuid.UUID  { return r.resourceID }
func (r *Reservation) RequesterID() uuid.UUID { return r.requesterID }
func (r *Reservation) Interval() Interval     { return r.interval }
func (r *Reservation) PartySize() int         { return r.partySize }
func (r *Reservation) TotalPrice() Money      { return r.totalPrice }
func (r *Reservation) Status() Status         { return r.status }
func (r *Reservation) CreatedAt() time.Time   { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time   { return r.updatedAt }
