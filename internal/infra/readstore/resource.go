package readstore

import (
	"context"
	"log/slog"
	"time"

	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/db"

	"github.com/google/uuid"
)

const getResourceSQL = `
SELECT id, owner_id, name, capacity, nightly_rate_cents, min_stay, max_stay, instant_book, created_at, updated_at
FROM resources
WHERE id = $1`

const resourceIDsByOwnerSQL = `SELECT id FROM resources WHERE owner_id = $1 ORDER BY id`

// ResourceCatalog reads the catalog's resources table. The engine never writes to it.
type ResourceCatalog struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewResourceCatalog(dbtx db.DBTX, logger *slog.Logger) *ResourceCatalog {
	return &ResourceCatalog{db: dbtx, logger: logger}
}

func (c *ResourceCatalog) GetResource(ctx context.Context, id uuid.UUID) (*resource.Resource, error) {
	var (
		p                    resource.Params
		capacity             int32
		minStay, maxStay     int32
		createdAt, updatedAt time.Time
	)
	err := c.db.QueryRow(ctx, getResourceSQL, id).Scan(
		&p.ID, &p.OwnerID, &p.Name, &capacity, &p.NightlyRateCents,
		&minStay, &maxStay, &p.InstantBook, &createdAt, &updatedAt,
	)
	if err != nil {
		kind := infra.KindOf(err)
		if kind == infra.KindNotFound {
			return nil, infra.WrapRepoErr(c.logger, kind, "resource not found", err)
		}
		return nil, infra.WrapRepoErr(c.logger, kind, "failed to find resource by ID", err)
	}
	p.Capacity, p.MinStay, p.MaxStay = int(capacity), int(minStay), int(maxStay)
	p.CreatedAt, p.UpdatedAt = createdAt, updatedAt

	res, err := resource.NewResource(p)
	if err != nil {
		return nil, infra.WrapRepoErr(c.logger, infra.KindDBFailure, "catalog row is invalid", err)
	}
	return res, nil
}

func (c *ResourceCatalog) ResourceIDsOwnedBy(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := c.db.Query(ctx, resourceIDsByOwnerSQL, ownerID)
	if err != nil {
		return nil, infra.WrapRepoErr(c.logger, infra.KindOf(err), "failed to list owned resources", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr(c.logger, infra.KindDBFailure, "failed to scan resource id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(c.logger, infra.KindDBFailure, "failed to read resource ids", err)
	}
	return ids, nil
}
