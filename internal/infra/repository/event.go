package repository

import (
	"context"
	"log/slog"

	"reservation-engine/internal/domain/shared/events"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/db"
	"reservation-engine/internal/infra/outbox"
)

// EventRepository writes domain events to the outbox table in the caller's transaction.
type EventRepository struct {
	writer *outbox.Writer
	logger *slog.Logger
}

func NewEventRepository(dbtx db.DBTX, logger *slog.Logger) *EventRepository {
	return &EventRepository{writer: outbox.NewWriter(dbtx, logger), logger: logger}
}

func (r *EventRepository) Append(ctx context.Context, evts []events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}
	msgs, err := outbox.EncodeAll(evts)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to encode events", err)
	}
	return r.writer.Write(ctx, msgs)
}
