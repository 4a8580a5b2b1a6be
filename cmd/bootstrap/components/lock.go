package components

import (
	"context"
	"log/slog"

	"reservation-engine/internal/infra/lock"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/pkg/errs"
	"reservation-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var LockModule = fx.Module("lock",
	fx.Provide(
		NewResourceLocker,
	),
)

// NewResourceLocker uses an in-process locker for a single instance and Redis when
// several instances share one store.
func NewResourceLocker(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.ResourceLocker, error) {
	switch cfg.Lock.Driver {
	case config.LockDriverLocal:
		return lock.NewLocalLocker(cfg.Booking.LockWait), nil
	case config.LockDriverRedis:
		client := lock.NewRedisClient(cfg.Lock.RedisAddr, cfg.Lock.RedisPassword, cfg.Lock.RedisDB)
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := client.Ping(ctx).Err(); err != nil {
					return errs.Wrapf(err, "ping redis at %s", cfg.Lock.RedisAddr)
				}
				return nil
			},
			OnStop: func(_ context.Context) error {
				return client.Close()
			},
		})
		return lock.NewRedisLocker(client, cfg.Lock.TTL, cfg.Booking.LockWait, logger), nil
	default:
		return nil, errs.Newf("unknown lock driver %q", cfg.Lock.Driver)
	}
}
