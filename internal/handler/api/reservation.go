package api

import (
	"net/http"

	reqdto "reservation-engine/internal/handler/dto/request"
	resdto "reservation-engine/internal/handler/dto/response"
	"reservation-engine/internal/handler/httperr"
	"reservation-engine/internal/handler/middleware"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/commands"
	"reservation-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	errUnauthenticated = errs.New("no authenticated user on request")
	errInvalidID       = errs.Mark(errs.New("id must be a UUID"), errs.ErrValidation)
)

type ReservationHandler struct {
	cmds commands.ReservationCommands
	q    queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, q queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{cmds: cmds, q: q}
}

// @Summary Create reservation
// @Description Book a resource for a half-open range of dates [checkIn, checkOut)
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}
	input, err := req.ToInput(userID)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}

	created, err := h.cmds.CreateReservation(c.Request.Context(), input)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}

	c.Header("Location", "/api/reservations/"+created.ID().String())
	c.JSON(http.StatusCreated, resdto.FromReservationView(queries.ToReservationView(created)))
}

// @Summary Cancel reservation
// @Description Cancel a pending or confirmed reservation. Allowed for the requester and the resource owner.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id}/cancel [put]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	userID, id, ok := userAndID(c)
	if !ok {
		return
	}
	updated, err := h.cmds.CancelReservation(c.Request.Context(), id, userID)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(queries.ToReservationView(updated)))
}

// @Summary Confirm reservation
// @Description Approve a pending reservation. Only the resource owner may confirm.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations/{id}/confirm [put]
func (h *ReservationHandler) Confirm(c *gin.Context) {
	userID, id, ok := userAndID(c)
	if !ok {
		return
	}
	updated, err := h.cmds.ConfirmReservation(c.Request.Context(), id, userID)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(queries.ToReservationView(updated)))
}

// @Summary Get reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	userID, id, ok := userAndID(c)
	if !ok {
		return
	}
	view, err := h.q.GetReservation(c.Request.Context(), userID, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary List reservations
// @Description Reservations the caller made (role=requester) or received on owned resources (role=owner). Newest first.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param role query string false "requester or owner" default(requester)
// @Success 200 {array} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Router /reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var query reqdto.ListReservationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	if query.Role == "" {
		query.Role = queries.RoleRequester
	}

	views, err := h.q.ListReservationsFor(c.Request.Context(), userID, query.Role)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationViews(views))
}

// @Summary Review eligibility
// @Description Whether the caller may review the stay. Only the requester of a completed stay is eligible.
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReviewEligibilityResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id}/review-eligibility [get]
func (h *ReservationHandler) ReviewEligibility(c *gin.Context) {
	userID, id, ok := userAndID(c)
	if !ok {
		return
	}
	view, err := h.q.ReviewEligibility(c.Request.Context(), userID, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReviewEligibilityView(view))
}

func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
		return uuid.Nil, false
	}
	return userID, true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Wrap(errInvalidID, err.Error()), "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func userAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := requireUser(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, ok := parseID(c)
	return userID, id, ok
}
