package outbox

import (
	"context"
	"log/slog"
	"time"

	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/db"

	"github.com/google/uuid"
)

const leaseDuration = 30 * time.Second

const insertMessageSQL = `
INSERT INTO outbox_events (id, event_type, aggregate_id, partition_key, payload, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6)`

// A claimed row is leased, not locked, so the publish can happen outside the claiming transaction.
const claimMessagesSQL = `
UPDATE outbox_events
SET locked_until = now() + make_interval(secs => $3)
WHERE id IN (
	SELECT id FROM outbox_events
	WHERE published_at IS NULL
	  AND attempts < $2
	  AND next_attempt_at <= now()
	  AND (locked_until IS NULL OR locked_until < now())
	ORDER BY occurred_at, id
	LIMIT $1
	FOR UPDATE SKIP LOCKED
)
RETURNING id, event_type, aggregate_id, partition_key, payload, occurred_at, attempts`

const markPublishedSQL = `
UPDATE outbox_events SET published_at = now(), locked_until = NULL WHERE id = $1`

const markFailedSQL = `
UPDATE outbox_events
SET attempts = attempts + 1, next_attempt_at = $2, last_error = $3, locked_until = NULL
WHERE id = $1`

// Writer appends messages inside the caller's transaction.
type Writer struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewWriter(dbtx db.DBTX, logger *slog.Logger) *Writer {
	return &Writer{db: dbtx, logger: logger}
}

func (w *Writer) Write(ctx context.Context, msgs []Message) error {
	for _, m := range msgs {
		_, err := w.db.Exec(ctx, insertMessageSQL, m.ID, m.EventType, m.AggregateID, m.Key, m.Payload, m.OccurredAt)
		if err != nil {
			return infra.WrapRepoErr(w.logger, infra.KindOf(err), "failed to append outbox event", err)
		}
	}
	return nil
}

type PostgresStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewPostgresStore(dbtx db.DBTX, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{db: dbtx, logger: logger}
}

func (s *PostgresStore) Claim(ctx context.Context, limit, maxAttempts int) ([]Message, error) {
	rows, err := s.db.Query(ctx, claimMessagesSQL, limit, maxAttempts, leaseDuration.Seconds())
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindOf(err), "failed to claim outbox events", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.EventType, &m.AggregateID, &m.Key, &m.Payload, &m.OccurredAt, &m.Attempts); err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to scan outbox event", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to read outbox events", err)
	}
	// UPDATE ... RETURNING does not keep the subquery order.
	sortByOccurrence(msgs)
	return msgs, nil
}

func (s *PostgresStore) MarkPublished(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.Exec(ctx, markPublishedSQL, id); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindOf(err), "failed to mark outbox event published", err)
	}
	return nil
}

func (s *PostgresStore) MarkFailed(ctx context.Context, id uuid.UUID, nextAttemptAt time.Time, lastErr string) error {
	if _, err := s.db.Exec(ctx, markFailedSQL, id, nextAttemptAt, lastErr); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindOf(err), "failed to mark outbox event failed", err)
	}
	return nil
}
