package converter

import (
	"time"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ReservationColumns is the select list ScanReservation expects.
const ReservationColumns = `id, resource_id, requester_id, stay, party_size, total_price_cents, status, created_at, updated_at`

// IntervalToRange encodes iv as a daterange, which Postgres keeps in the same [start,end) form.
func IntervalToRange(iv reservation.Interval) pgtype.Range[pgtype.Date] {
	return pgtype.Range[pgtype.Date]{
		Lower:     pgtype.Date{Time: iv.Start(), Valid: true},
		Upper:     pgtype.Date{Time: iv.End(), Valid: true},
		LowerType: pgtype.Inclusive,
		UpperType: pgtype.Exclusive,
		Valid:     true,
	}
}

func RangeToInterval(r pgtype.Range[pgtype.Date]) (reservation.Interval, error) {
	if !r.Valid || !r.Lower.Valid || !r.Upper.Valid {
		return reservation.Interval{}, errs.New("stay range is unbounded")
	}
	start, end := r.Lower.Time, r.Upper.Time
	// canonical dateranges are [) but a hand-written row may not be
	if r.LowerType == pgtype.Exclusive {
		start = start.AddDate(0, 0, 1)
	}
	if r.UpperType == pgtype.Inclusive {
		end = end.AddDate(0, 0, 1)
	}
	return reservation.NewInterval(start, end)
}

func BlockingStatuses() []string {
	statuses := reservation.BlockingStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}

func ScanReservation(row pgx.Row) (*reservation.Reservation, error) {
	var (
		id, resourceID, requesterID uuid.UUID
		stay                        pgtype.Range[pgtype.Date]
		partySize                   int32
		totalPrice                  int64
		status                      string
		createdAt, updatedAt        time.Time
	)
	if err := row.Scan(&id, &resourceID, &requesterID, &stay, &partySize, &totalPrice, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	iv, err := RangeToInterval(stay)
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s", id)
	}
	st, err := reservation.ParseStatus(status)
	if err != nil {
		return nil, errs.Wrapf(err, "reservation %s", id)
	}

	return reservation.ReconstructReservation(
		id, resourceID, requesterID,
		iv, int(partySize), reservation.NewMoney(totalPrice), st,
		createdAt, updatedAt,
	), nil
}

func ScanReservations(rows pgx.Rows) ([]*reservation.Reservation, error) {
	defer rows.Close()
	out := make([]*reservation.Reservation, 0)
	for rows.Next() {
		res, err := ScanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
