package components

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"reservation-engine/internal/infra/outbox"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/pkg/config"
	"reservation-engine/internal/usecase/commands"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		func(store outbox.Store, publisher outbox.Publisher, clk clock.Clock, logger *slog.Logger, cfg config.Config) *outbox.Relay {
			return outbox.NewRelay(store, publisher, clk, logger, cfg.Outbox)
		},
	),
	fx.Invoke(
		startRelay,
		startSweeper,
	),
)

// background runs loop until OnStop cancels it and waits for it to return.
func background(lc fx.Lifecycle, logger *slog.Logger, name string, loop func(ctx context.Context) error) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := loop(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("worker stopped", "worker", name, "error", err.Error())
				}
			}()
			logger.Info("worker started", "worker", name)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func startRelay(lc fx.Lifecycle, relay *outbox.Relay, logger *slog.Logger) {
	background(lc, logger, "outbox-relay", relay.Run)
}

func startSweeper(lc fx.Lifecycle, cfg config.Config, cmds commands.ReservationCommands, logger *slog.Logger) {
	if !cfg.Sweep.Enabled {
		return
	}
	background(lc, logger, "completion-sweeper", func(ctx context.Context) error {
		ticker := time.NewTicker(cfg.Sweep.Interval)
		defer ticker.Stop()
		for {
			if _, err := cmds.SweepCompleted(ctx); err != nil && ctx.Err() == nil {
				logger.Error("completion sweep failed", "error", err.Error())
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	})
}
