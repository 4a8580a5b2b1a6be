package readstore

import (
	"context"
	"log/slog"
	"time"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/db"
	"reservation-engine/internal/infra/repository/converter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const selectReservations = `SELECT ` + converter.ReservationColumns + ` FROM reservations `

const (
	overlappingSQL = selectReservations + `WHERE resource_id = $1 AND stay && $2::daterange AND status = ANY($3::text[]) ORDER BY lower(stay)`
	byIDSQL        = selectReservations + `WHERE id = $1`
	byRequesterSQL = selectReservations + `WHERE requester_id = $1 ORDER BY created_at DESC, id`
	byResourcesSQL = selectReservations + `WHERE resource_id = ANY($1::uuid[]) ORDER BY created_at DESC, id`
	dueCompleteSQL = `SELECT id FROM reservations WHERE status = $1 AND upper(stay) <= $2 ORDER BY upper(stay), id LIMIT $3`
)

// ReservationReadStore serves the read side straight from the pool, outside any write transaction.
type ReservationReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewReservationReadStore(dbtx db.DBTX, logger *slog.Logger) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx, logger: logger}
}

func (r *ReservationReadStore) FindOverlapping(ctx context.Context, resourceID uuid.UUID, iv reservation.Interval) ([]*reservation.Reservation, error) {
	return r.list(ctx, "failed to find overlapping reservations",
		overlappingSQL, resourceID, converter.IntervalToRange(iv), converter.BlockingStatuses())
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := converter.ScanReservation(r.db.QueryRow(ctx, byIDSQL, id))
	if err != nil {
		kind := infra.KindOf(err)
		if kind == infra.KindNotFound {
			return nil, infra.WrapRepoErr(r.logger, kind, "reservation not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, kind, "failed to find reservation by ID", err)
	}
	return res, nil
}

func (r *ReservationReadStore) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]*reservation.Reservation, error) {
	return r.list(ctx, "failed to list reservations by requester", byRequesterSQL, requesterID)
}

func (r *ReservationReadStore) ListByResources(ctx context.Context, resourceIDs []uuid.UUID) ([]*reservation.Reservation, error) {
	if len(resourceIDs) == 0 {
		return []*reservation.Reservation{}, nil
	}
	return r.list(ctx, "failed to list reservations by resources", byResourcesSQL, resourceIDs)
}

func (r *ReservationReadStore) ListDueForCompletion(ctx context.Context, today time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, dueCompleteSQL,
		reservation.StatusConfirmed.String(), pgtype.Date{Time: today, Valid: true}, limit)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindOf(err), "failed to list reservations due for completion", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan reservation id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to read reservation ids", err)
	}
	return ids, nil
}

func (r *ReservationReadStore) list(ctx context.Context, msg, sql string, args ...any) ([]*reservation.Reservation, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindOf(err), msg, err)
	}
	out, err := converter.ScanReservations(rows)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, msg, err)
	}
	return out, nil
}
