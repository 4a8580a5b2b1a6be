package api

import (
	"net/http"

	reqdto "reservation-engine/internal/handler/dto/request"
	resdto "reservation-engine/internal/handler/dto/response"
	"reservation-engine/internal/handler/httperr"
	"reservation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	q queries.ReservationQueries
}

func NewAvailabilityHandler(q queries.ReservationQueries) *AvailabilityHandler {
	return &AvailabilityHandler{q: q}
}

// @Summary Resource availability
// @Description Blocked date ranges of a resource within [start, end), clipped and merged
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Param start query string true "YYYY-MM-DD"
// @Param end query string true "YYYY-MM-DD"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /resources/{id}/availability [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	resourceID, ok := parseID(c)
	if !ok {
		return
	}
	var query reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "start and end are required", nil)
		return
	}
	rng, err := query.Interval()
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}

	view, err := h.q.GetAvailability(c.Request.Context(), resourceID, rng)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}
