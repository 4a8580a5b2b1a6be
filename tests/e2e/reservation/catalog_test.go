//go:build e2e

package reservation_test

import (
	"context"
	"log/slog"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/infra/readstore"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/tests/common/builder"

	"github.com/google/uuid"
)

func (s *ReservationSuite) TestCatalogRowWithoutInstantBookNeedsApproval() {
	ctx := context.Background()
	id := uuid.New()
	_, err := s.DB.Exec(ctx, `
		INSERT INTO resources (id, owner_id, name, capacity, nightly_rate_cents)
		VALUES ($1, $2, 'Lakeside Hut', 2, 100)`, id, uuid.New())
	s.Require().NoError(err)

	res, err := readstore.NewResourceCatalog(s.DB, slog.Default()).GetResource(ctx, id)
	s.Require().NoError(err)

	s.False(res.InstantBook())
	f := reservation.NewFactory(clock.NewMockClock(builder.Now), reservation.NewNightlyPriceCalculator(), reservation.ApprovalResource)
	s.Equal(reservation.StatusPending, f.InitialStatus(res))
}
