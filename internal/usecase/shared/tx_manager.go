package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"log/slog"
	"time"

	"reservation-engine/internal/pkg/errs"
)

var (
	ErrMaxRetriesExceeded = errs.New("transaction failed after max retries")
	ErrLockTimeout        = errs.New("timed out waiting for resource write scope")
)

// RetryPolicy reruns a transaction body after retryable failures with jittered exponential backoff.
type RetryPolicy struct {
	MaxRetries int
	Base       time.Duration
}

func NewRetryPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{MaxRetries: maxRetries, Base: 50 * time.Millisecond}
}

// Do calls attempt until it succeeds, fails with a non-retryable error, or the budget is spent.
// An exhausted budget returns the last error marked with ErrMaxRetriesExceeded.
func (p RetryPolicy) Do(ctx context.Context, retryable func(error) bool, attempt func(ctx context.Context) error) error {
	for n := 0; ; n++ {
		err := attempt(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		if n >= p.MaxRetries {
			slog.Error("transaction failed after max retries",
				"attempts", n+1,
				"error", err.Error())
			return errs.Mark(err, ErrMaxRetriesExceeded)
		}

		wait := p.backoff(n)
		slog.Warn("retrying transaction due to retryable error",
			"attempt", n+1,
			"wait_ms", wait.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	wait := time.Duration(1<<attempt) * p.Base
	return wait + time.Duration(cryptoRandInt63n(int64(wait/5)))
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	// #nosec G115 -- high bit masked before conversion
	return int64(binary.BigEndian.Uint64(buf[:])&0x7FFFFFFFFFFFFFFF) % n
}
