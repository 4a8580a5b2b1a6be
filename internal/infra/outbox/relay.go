package outbox

import (
	"context"
	"log/slog"
	"time"

	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/config"

	"github.com/google/uuid"
)

// Store is the persistent side of the outbox.
type Store interface {
	// Claim leases up to limit unpublished messages that are due and have fewer than maxAttempts failures.
	Claim(ctx context.Context, limit, maxAttempts int) ([]Message, error)
	MarkPublished(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, nextAttemptAt time.Time, lastErr string) error
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

var defaultBackoff = []time.Duration{
	time.Second,
	5 * time.Second,
	30 * time.Second,
	2 * time.Minute,
}

// Relay moves committed outbox messages to the publisher.
type Relay struct {
	store       Store
	publisher   Publisher
	clock       clock.Clock
	logger      *slog.Logger
	interval    time.Duration
	batchSize   int
	maxAttempts int
	backoff     []time.Duration
}

func NewRelay(store Store, publisher Publisher, clk clock.Clock, logger *slog.Logger, cfg config.OutboxConfig) *Relay {
	r := &Relay{
		store:       store,
		publisher:   publisher,
		clock:       clk,
		logger:      logger,
		interval:    cfg.PollInterval,
		batchSize:   cfg.BatchSize,
		maxAttempts: cfg.MaxAttempts,
		backoff:     defaultBackoff,
	}
	if r.interval <= 0 {
		r.interval = 2 * time.Second
	}
	if r.batchSize <= 0 {
		r.batchSize = 100
	}
	if r.maxAttempts <= 0 {
		r.maxAttempts = 10
	}
	return r
}

// Run flushes on every tick until ctx is done. Flush failures are logged and retried on the next tick.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("outbox flush failed", "error", err)
			}
		}
	}
}

// Flush publishes one batch and returns how many messages were published.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	msgs, err := r.store.Claim(ctx, r.batchSize, r.maxAttempts)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, msg := range msgs {
		if err := r.publisher.Publish(ctx, msg); err != nil {
			next := r.clock.Now().Add(r.nextRetry(msg.Attempts))
			r.logger.Warn("outbox publish failed",
				"event_id", msg.ID,
				"event_type", msg.EventType,
				"attempt", msg.Attempts+1,
				"error", err)
			if markErr := r.store.MarkFailed(ctx, msg.ID, next, err.Error()); markErr != nil {
				return published, markErr
			}
			continue
		}
		if err := r.store.MarkPublished(ctx, msg.ID); err != nil {
			return published, err
		}
		published++
	}
	return published, nil
}

func (r *Relay) nextRetry(attempts int) time.Duration {
	if attempts < len(r.backoff) {
		return r.backoff[attempts]
	}
	return r.backoff[len(r.backoff)-1]
}
