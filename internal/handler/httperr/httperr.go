package httperr

import (
	"errors"
	"net/http"

	"reservation-engine/internal/domain/reservation"
	"reservation-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

type ConflictDetail struct {
	ResourceID                uuid.UUID   `json:"resourceId"`
	ConflictingReservationIDs []uuid.UUID `json:"conflictingReservationIds"`
}

// AbortWithError keeps err on the gin context for the logging middleware and writes resp.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// StatusFor maps the error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch errs.Class(err) {
	case errs.ErrValidation:
		return http.StatusBadRequest
	case errs.ErrAuthorization:
		return http.StatusForbidden
	case errs.ErrNotFound:
		return http.StatusNotFound
	case errs.ErrConflict:
		return http.StatusConflict
	case errs.ErrInvalidState:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithDomainError answers with the status of err's class. Unclassified errors never leak their message.
func AbortWithDomainError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		AbortWithError(c, status, err, "Internal server error", nil)
		return
	}

	var detail any
	var conflict *reservation.ConflictError
	if errors.As(err, &conflict) {
		ids := conflict.ConflictingIDs
		if ids == nil {
			ids = []uuid.UUID{}
		}
		detail = ConflictDetail{ResourceID: conflict.ResourceID, ConflictingReservationIDs: ids}
	}
	AbortWithError(c, status, err, err.Error(), detail)
}
