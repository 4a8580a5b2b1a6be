package commands

import (
	"context"

	"reservation-engine/internal/pkg/clock"
)

const sweepBatchSize = 500

// SweepCompleted completes confirmed reservations whose stay has ended. One call handles at most
// one batch; the rest waits for the next run. Failures are logged per reservation and skipped.
func (uc *reservationUseCaseImpl) SweepCompleted(ctx context.Context) (int, error) {
	ids, err := uc.reads.ListDueForCompletion(ctx, clock.Today(uc.clock), sweepBatchSize)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return completed, err
		}
		if _, err := uc.CompleteReservation(ctx, id); err != nil {
			uc.logger.Warn("sweep: failed to complete reservation", "reservation_id", id, "error", err.Error())
			continue
		}
		completed++
	}

	if completed > 0 {
		uc.logger.Info("sweep completed reservations", "count", completed, "due", len(ids))
	}
	return completed, nil
}
