package memstore

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"slices"
	"sync"

	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

// Catalog is an in-memory stand-in for the external resource catalog.
type Catalog struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	resources map[uuid.UUID]*resource.Resource
}

func NewCatalog(logger *slog.Logger) *Catalog {
	return &Catalog{logger: logger, resources: make(map[uuid.UUID]*resource.Resource)}
}

func (c *Catalog) Put(res *resource.Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources[res.ID()] = res
}

func (c *Catalog) GetResource(_ context.Context, id uuid.UUID) (*resource.Resource, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.resources[id]
	if !ok {
		return nil, infra.WrapRepoErr(c.logger, infra.KindNotFound, "resource not found", nil)
	}
	return res, nil
}

func (c *Catalog) ResourceIDsOwnedBy(_ context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]uuid.UUID, 0)
	for id, res := range c.resources {
		if res.IsOwnedBy(ownerID) {
			ids = append(ids, id)
		}
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return ids, nil
}

type seedResource struct {
	ID               uuid.UUID `json:"id"`
	OwnerID          uuid.UUID `json:"ownerId"`
	Name             string    `json:"name"`
	Capacity         int       `json:"capacity"`
	NightlyRateCents int64     `json:"nightlyRate"`
	MinStay          int       `json:"minStay"`
	MaxStay          int       `json:"maxStay"`
	InstantBook      bool      `json:"instantBook"`
}

// LoadSeed reads a JSON array of resources from path into the catalog.
func (c *Catalog) LoadSeed(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, errs.Wrapf(err, "read catalog seed %s", path)
	}
	var seeds []seedResource
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return 0, errs.Wrapf(err, "decode catalog seed %s", path)
	}
	for i, s := range seeds {
		res, err := resource.NewResource(resource.Params{
			ID:               s.ID,
			OwnerID:          s.OwnerID,
			Name:             s.Name,
			Capacity:         s.Capacity,
			NightlyRateCents: s.NightlyRateCents,
			MinStay:          s.MinStay,
			MaxStay:          s.MaxStay,
			InstantBook:      s.InstantBook,
		})
		if err != nil {
			return i, errs.Wrapf(err, "catalog seed entry %d", i)
		}
		c.Put(res)
	}
	return len(seeds), nil
}
