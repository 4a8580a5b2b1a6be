//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/infra/repository/converter"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// InsertResource writes res into the catalog table the engine reads resources from.
func InsertResource(t *testing.T, db DBLike, res *resource.Resource) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO resources (id, owner_id, name, capacity, nightly_rate_cents, min_stay, max_stay, instant_book)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		res.ID(), res.OwnerID(), res.Name(), res.Capacity(), res.NightlyRateCents(),
		res.MinStay(), res.MaxStay(), res.InstantBook())
	require.NoError(t, err)
}

// InsertReservation bypasses the engine, so the exclusion constraint is the only guard.
func InsertReservation(ctx context.Context, db DBLike, r *reservation.Reservation) error {
	_, err := db.Exec(ctx, `
		INSERT INTO reservations (id, resource_id, requester_id, stay, party_size, total_price_cents, status)
		VALUES ($1, $2, $3, $4::daterange, $5, $6, $7)`,
		r.ID(), r.ResourceID(), r.RequesterID(), converter.IntervalToRange(r.Interval()), r.PartySize(), r.TotalPrice().Cents(), r.Status().String())
	return err
}

// CountOutbox returns the number of outbox rows of eventType.
func CountOutbox(t *testing.T, db DBLike, eventType string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM outbox_events WHERE event_type = $1", eventType).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
