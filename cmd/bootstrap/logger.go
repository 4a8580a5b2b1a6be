package bootstrap

import (
	"log/slog"

	"reservation-engine/internal/handler/middleware"
	"reservation-engine/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewAppLogger,
		NewLogger,
	),
)

func NewAppLogger(cfg config.Config) *middleware.Logger {
	return middleware.NewLogger(cfg.Log)
}

func NewLogger(appLogger *middleware.Logger) *slog.Logger {
	return appLogger.GetSlogLogger()
}
