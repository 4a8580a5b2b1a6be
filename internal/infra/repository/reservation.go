package repository

import (
	"context"
	"log/slog"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/db"
	"reservation-engine/internal/infra/repository/converter"

	"github.com/google/uuid"
)

const findOverlappingSQL = `
SELECT ` + converter.ReservationColumns + `
FROM reservations
WHERE resource_id = $1 AND stay && $2::daterange AND status = ANY($3::text[])
ORDER BY lower(stay)`

const findReservationForUpdateSQL = `
SELECT ` + converter.ReservationColumns + `
FROM reservations
WHERE id = $1
FOR UPDATE`

const createReservationSQL = `
INSERT INTO reservations (id, resource_id, requester_id, stay, party_size, total_price_cents, status)
VALUES ($1, $2, $3, $4::daterange, $5, $6, $7)
RETURNING ` + converter.ReservationColumns

const updateReservationStatusSQL = `
UPDATE reservations
SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + converter.ReservationColumns

// ReservationRepository is bound to one transaction by the unit of work.
type ReservationRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewReservationRepository(dbtx db.DBTX, logger *slog.Logger) *ReservationRepository {
	return &ReservationRepository{db: dbtx, logger: logger}
}

func (r *ReservationRepository) FindOverlapping(ctx context.Context, resourceID uuid.UUID, iv reservation.Interval) ([]*reservation.Reservation, error) {
	rows, err := r.db.Query(ctx, findOverlappingSQL, resourceID, converter.IntervalToRange(iv), converter.BlockingStatuses())
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindOf(err), "failed to find overlapping reservations", err)
	}
	out, err := converter.ScanReservations(rows)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan overlapping reservations", err)
	}
	return out, nil
}

// FindByID locks the row until the transaction ends.
func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := converter.ScanReservation(r.db.QueryRow(ctx, findReservationForUpdateSQL, id))
	if err != nil {
		kind := infra.KindOf(err)
		if kind == infra.KindNotFound {
			return nil, infra.WrapRepoErr(r.logger, kind, "reservation not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, kind, "failed to find reservation by ID", err)
	}
	return res, nil
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) (*reservation.Reservation, error) {
	row := r.db.QueryRow(ctx, createReservationSQL,
		res.ID(),
		res.ResourceID(),
		res.RequesterID(),
		converter.IntervalToRange(res.Interval()),
		res.PartySize(),
		res.TotalPrice().Cents(),
		res.Status().String(),
	)
	created, err := converter.ScanReservation(row)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindOf(err), "failed to create reservation", err)
	}
	return created, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, res *reservation.Reservation) (*reservation.Reservation, error) {
	updated, err := converter.ScanReservation(r.db.QueryRow(ctx, updateReservationStatusSQL, res.ID(), res.Status().String()))
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindOf(err), "failed to update reservation status", err)
	}
	return updated, nil
}
