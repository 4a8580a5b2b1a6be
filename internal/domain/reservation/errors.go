package reservation

import (
	"errors"
	"fmt"
	"strings"

	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidInterval      = errs.Mark(errors.New("check-out must be after check-in"), errs.ErrValidation)
	ErrMalformedDate        = errs.Mark(errors.New("dates must be formatted as YYYY-MM-DD"), errs.ErrValidation)
	ErrCheckInInPast        = errs.Mark(errors.New("check-in cannot be in the past"), errs.ErrValidation)
	ErrInvalidPartySize     = errs.Mark(errors.New("party size must be at least 1"), errs.ErrValidation)
	ErrPartyExceedsCapacity = errs.Mark(errors.New("party size exceeds resource capacity"), errs.ErrValidation)
	ErrStayTooShort         = errs.Mark(errors.New("stay is shorter than the minimum"), errs.ErrValidation)
	ErrStayTooLong          = errs.Mark(errors.New("stay is longer than the maximum"), errs.ErrValidation)
	ErrPriceOverflow        = errs.Mark(errors.New("total price out of range"), errs.ErrValidation)
	ErrInvalidStatus        = errs.Mark(errors.New("invalid reservation status"), errs.ErrValidation)

	ErrReservationNotFound = errs.Mark(errors.New("reservation not found"), errs.ErrNotFound)

	ErrNotParticipant    = errs.Mark(errors.New("actor is neither requester nor owner"), errs.ErrAuthorization)
	ErrActorNotPermitted = errs.Mark(errors.New("actor may not perform this transition"), errs.ErrAuthorization)

	ErrInvalidTransition = errs.Mark(errors.New("transition not allowed"), errs.ErrInvalidState)
	ErrStayNotEnded      = errs.Mark(errors.New("stay has not ended yet"), errs.ErrInvalidState)
)

// ConflictError reports the blocking reservations that overlap a requested interval.
// ConflictingIDs is empty when the write scope could not be obtained in time.
type ConflictError struct {
	ResourceID     uuid.UUID
	Interval       Interval
	ConflictingIDs []uuid.UUID
	cause          error
}

func NewConflictError(resourceID uuid.UUID, iv Interval, conflicting []*Reservation) *ConflictError {
	ids := make([]uuid.UUID, 0, len(conflicting))
	for _, r := range conflicting {
		ids = append(ids, r.ID())
	}
	return &ConflictError{ResourceID: resourceID, Interval: iv, ConflictingIDs: ids}
}

// NewBusyError is the conflict returned when the write scope or the retry budget is exhausted.
func NewBusyError(resourceID uuid.UUID, iv Interval, cause error) *ConflictError {
	return &ConflictError{ResourceID: resourceID, Interval: iv, cause: cause}
}

func (e *ConflictError) Error() string {
	if len(e.ConflictingIDs) == 0 {
		msg := fmt.Sprintf("resource %s is busy, retry later", e.ResourceID)
		if e.cause != nil {
			msg += ": " + e.cause.Error()
		}
		return msg
	}
	ids := make([]string, len(e.ConflictingIDs))
	for i, id := range e.ConflictingIDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("interval %s on resource %s conflicts with %s", e.Interval, e.ResourceID, strings.Join(ids, ", "))
}

func (e *ConflictError) Is(target error) bool {
	return target == errs.ErrConflict
}

func (e *ConflictError) Unwrap() error {
	return e.cause
}
