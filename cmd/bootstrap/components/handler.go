package components

import (
	"reservation-engine/internal/handler"
	"reservation-engine/internal/handler/api"
	"reservation-engine/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewReservationHandler,
		api.NewAvailabilityHandler,
		middleware.NewAuthMiddleware,
		func(r *api.ReservationHandler, a *api.AvailabilityHandler, auth *middleware.AuthMiddleware) handler.Handlers {
			return handler.Handlers{Reservation: r, Availability: a, Auth: auth}
		},
	),
	fx.Invoke(handler.NewRouter),
)
