//go:build unit

package reservation_test

import (
	"testing"

	"reservation-engine/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Transitions(t *testing.T) {
	all := []reservation.Status{
		reservation.StatusPending,
		reservation.StatusConfirmed,
		reservation.StatusCancelled,
		reservation.StatusCompleted,
	}
	allowed := map[reservation.Status][]reservation.Status{
		reservation.StatusPending:   {reservation.StatusConfirmed, reservation.StatusCancelled},
		reservation.StatusConfirmed: {reservation.StatusCancelled, reservation.StatusCompleted},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatus_Classification(t *testing.T) {
	assert.True(t, reservation.StatusPending.IsBlocking())
	assert.True(t, reservation.StatusConfirmed.IsBlocking())
	assert.False(t, reservation.StatusCancelled.IsBlocking())
	assert.False(t, reservation.StatusCompleted.IsBlocking())

	assert.True(t, reservation.StatusCancelled.IsTerminal())
	assert.True(t, reservation.StatusCompleted.IsTerminal())
	assert.False(t, reservation.StatusPending.IsTerminal())

	assert.ElementsMatch(t,
		[]reservation.Status{reservation.StatusPending, reservation.StatusConfirmed},
		reservation.BlockingStatuses())
}

func TestParseStatus(t *testing.T) {
	s, err := reservation.ParseStatus("cancelled")
	assert.NoError(t, err)
	assert.Equal(t, reservation.StatusCancelled, s)

	_, err = reservation.ParseStatus("canceled")
	assert.ErrorIs(t, err, reservation.ErrInvalidStatus)
}
