package usecase

import (
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/pkg/jwt"

	"github.com/google/uuid"
)

var ErrAnonymousToken = errs.New("token carries no user id")

// TokenValidator resolves a bearer token to the acting user's id.
type TokenValidator interface {
	ValidateToken(tokenString string) (uuid.UUID, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (uuid.UUID, error) {
	userID, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	if userID == uuid.Nil {
		return uuid.Nil, ErrAnonymousToken
	}
	return userID, nil
}
