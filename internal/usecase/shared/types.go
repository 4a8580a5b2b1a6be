package shared

import (
	"context"

	"reservation-engine/internal/domain/resource"

	"github.com/google/uuid"
)

// ResourceCatalog is the read-only view of the external listing catalog.
type ResourceCatalog interface {
	// GetResource fails with infra.KindNotFound when the resource does not exist.
	GetResource(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
	ResourceIDsOwnedBy(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
}

// ResourceLocker scopes writes to a single resource.
type ResourceLocker interface {
	// Acquire waits a bounded time for the resource's write scope. On timeout it returns
	// an error matching ErrLockTimeout. release must be called exactly once.
	Acquire(ctx context.Context, resourceID uuid.UUID) (release func(), err error)
}
