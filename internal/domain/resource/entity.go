package resource

import (
	"errors"
	"strings"
	"time"

	"reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrEmptyResourceName   = errs.Mark(errors.New("resource name cannot be empty"), errs.ErrValidation)
	ErrResourceNameTooLong = errs.Mark(errors.New("resource name is too long (max 255 characters)"), errs.ErrValidation)
	ErrMissingOwner        = errs.Mark(errors.New("resource must have an owner"), errs.ErrValidation)
	ErrInvalidCapacity     = errs.Mark(errors.New("capacity must be at least 1"), errs.ErrValidation)
	ErrNegativeRate        = errs.Mark(errors.New("nightly rate cannot be negative"), errs.ErrValidation)
	ErrInvalidStayBounds   = errs.Mark(errors.New("stay bounds must satisfy 1 <= min <= max"), errs.ErrValidation)

	ErrResourceNotFound = errs.Mark(errors.New("resource not found"), errs.ErrNotFound)
)

const (
	MaxResourceNameLength = 255
	DefaultMinStay        = 1
	DefaultMaxStay        = 365
)

// Resource is the catalog's view of a bookable listing. The engine never mutates it.
type Resource struct {
	id               uuid.UUID
	ownerID          uuid.UUID
	name             string
	capacity         int
	nightlyRateCents int64
	minStay          int
	maxStay          int
	instantBook      bool
	createdAt        time.Time
	updatedAt        time.Time
}

type Params struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Name             string
	Capacity         int
	NightlyRateCents int64
	MinStay          int // 0 means DefaultMinStay
	MaxStay          int // 0 means DefaultMaxStay
	InstantBook      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewResource(p Params) (*Resource, error) {
	if err := validateResourceName(p.Name); err != nil {
		return nil, err
	}
	if p.OwnerID == uuid.Nil {
		return nil, ErrMissingOwner
	}
	if p.Capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if p.NightlyRateCents < 0 {
		return nil, ErrNegativeRate
	}

	minStay, maxStay := p.MinStay, p.MaxStay
	if minStay == 0 {
		minStay = DefaultMinStay
	}
	if maxStay == 0 {
		maxStay = DefaultMaxStay
	}
	if minStay < 1 || maxStay < minStay {
		return nil, ErrInvalidStayBounds
	}

	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Resource{
		id:               id,
		ownerID:          p.OwnerID,
		name:             strings.TrimSpace(p.Name),
		capacity:         p.Capacity,
		nightlyRateCents: p.NightlyRateCents,
		minStay:          minStay,
		maxStay:          maxStay,
		instantBook:      p.InstantBook,
		createdAt:        p.CreatedAt,
		updatedAt:        p.UpdatedAt,
	}, nil
}

func (r *Resource) CanHost(partySize int) bool {
	return partySize >= 1 && partySize <= r.capacity
}

func (r *Resource) IsOwnedBy(actorID uuid.UUID) bool {
	return r.ownerID == actorID
}

func validateResourceName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyResourceName
	}
	if len(name) > MaxResourceNameLength {
		return ErrResourceNameTooLong
	}
	return nil
}

func (r *Resource) ID() uuid.UUID           { return r.id }
func (r *Resource) OwnerID() uuid.UUID      { return r.ownerID }
func (r *Resource) Name() string            { return r.name }
func (r *Resource) Capacity() int           { return r.capacity }
func (r *Resource) NightlyRateCents() int64 { return r.nightlyRateCents }
func (r *Resource) MinStay() int            { return r.minStay }
func (r *Resource) MaxStay() int            { return r.maxStay }
func (r *Resource) InstantBook() bool       { return r.instantBook }
func (r *Resource) CreatedAt() time.Time    { return r.createdAt }
func (r *Resource) UpdatedAt() time.Time    { return r.updatedAt }
