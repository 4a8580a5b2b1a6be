//go:build unit || e2e

package builder

import (
	"reservation-engine/internal/domain/resource"

	"github.com/google/uuid"
)

type ResourceBuilder struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Name             string
	Capacity         int
	NightlyRateCents int64
	MinStay          int
	MaxStay          int
	InstantBook      bool
}

func NewResourceBuilder() *ResourceBuilder {
	return &ResourceBuilder{
		ID:               uuid.New(),
		OwnerID:          uuid.New(),
		Name:             "Test Cabin",
		Capacity:         4,
		NightlyRateCents: 100,
		MinStay:          1,
		MaxStay:          30,
	}
}

func (b *ResourceBuilder) With(mutate func(*ResourceBuilder)) *ResourceBuilder {
	mutate(b)
	return b
}

func (b *ResourceBuilder) WithMinStay(n int) *ResourceBuilder {
	b.MinStay = n
	return b
}

func (b *ResourceBuilder) WithCapacity(n int) *ResourceBuilder {
	b.Capacity = n
	return b
}

func (b *ResourceBuilder) BuildDomain() (*resource.Resource, error) {
	return resource.NewResource(resource.Params{
		ID:               b.ID,
		OwnerID:          b.OwnerID,
		Name:             b.Name,
		Capacity:         b.Capacity,
		NightlyRateCents: b.NightlyRateCents,
		MinStay:          b.MinStay,
		MaxStay:          b.MaxStay,
		InstantBook:      b.InstantBook,
		CreatedAt:        Now,
		UpdatedAt:        Now,
	})
}

func (b *ResourceBuilder) MustBuildDomain() *resource.Resource {
	r, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return r
}
