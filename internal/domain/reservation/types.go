package reservation

import (
	"slices"

	"reservation-engine/internal/pkg/errs"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// allowed lifecycle edges; terminal states have none
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", errs.Wrapf(ErrInvalidStatus, "status %q", s)
	}
	return status, nil
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// IsBlocking reports whether a reservation in this status occupies its interval.
func (s Status) IsBlocking() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

func (s Status) CanTransitionTo(to Status) bool {
	return slices.Contains(validTransitions[s], to)
}

// BlockingStatuses lists the statuses that count toward the no-overlap invariant.
func BlockingStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed}
}

// Actor is the role in which a caller acts on a reservation.
type Actor string

const (
	ActorRequester Actor = "requester"
	ActorOwner     Actor = "owner"
	ActorSystem    Actor = "system"
)

var permittedActors = map[Status][]Actor{
	StatusConfirmed: {ActorOwner},
	StatusCancelled: {ActorRequester, ActorOwner},
	StatusCompleted: {ActorSystem},
}

func (a Actor) mayMoveTo(to Status) bool {
	return slices.Contains(permittedActors[to], a)
}

type ApprovalPolicy string

const (
	ApprovalInstant  ApprovalPolicy = "instant"
	ApprovalManual   ApprovalPolicy = "manual"
	ApprovalResource ApprovalPolicy = "resource"
)
