//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/handler/api"
	resdto "reservation-engine/internal/handler/dto/response"
	"reservation-engine/internal/usecase/queries"
	"reservation-engine/tests/common/builder"
	"reservation-engine/tests/common/httptest"
	queriesmock "reservation-engine/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AvailabilityHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockReservationQueries
}

func (s *AvailabilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	h := api.NewAvailabilityHandler(s.mockQueries)
	s.router.GET("/resources/:id/availability", h.Get)
}

func TestAvailabilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityHandlerTestSuite))
}

func (s *AvailabilityHandlerTestSuite) TestGet() {
	resourceID := uuid.New()
	base := "/resources/" + resourceID.String() + "/availability"
	rng := builder.NewReservationBuilder().Days(1, 31).Interval()

	s.Run("success: returns blocked intervals", func() {
		view := &queries.AvailabilityView{
			ResourceID: resourceID,
			Start:      "2030-01-01",
			End:        "2030-01-31",
			BlockedIntervals: []queries.IntervalView{
				{Start: "2030-01-10", End: "2030-01-15"},
			},
		}
		s.mockQueries.EXPECT().GetAvailability(gomock.Any(), resourceID, rng).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"?start=2030-01-01&end=2030-01-31", nil, "")

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.False(body.Available)
		s.Equal([]resdto.IntervalResponse{{Start: "2030-01-10", End: "2030-01-15"}}, body.BlockedIntervals)
	})

	s.Run("error: 400 Bad Request on bad query", func() {
		cases := map[string]string{
			"missing end":      base + "?start=2030-01-01",
			"end before start": base + "?start=2030-01-10&end=2030-01-01",
			"malformed date":   base + "?start=2030-1-1&end=2030-01-31",
			"bad resource id":  "/resources/nope/availability?start=2030-01-01&end=2030-01-31",
		}
		for name, url := range cases {
			s.Run(name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 404 Not Found for unknown resource", func() {
		s.mockQueries.EXPECT().GetAvailability(gomock.Any(), resourceID, rng).
			Return(nil, resource.ErrResourceNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"?start=2030-01-01&end=2030-01-31", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "")
	})
}
