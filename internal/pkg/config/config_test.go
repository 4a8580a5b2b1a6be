//go:build unit

package config_test

import (
	"testing"
	"time"

	"reservation-engine/internal/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:   "test config is valid",
			mutate: func(*config.Config) {},
		},
		{
			name:    "unknown store driver",
			mutate:  func(c *config.Config) { c.Store.Driver = "sqlite" },
			wantErr: "STORE_DRIVER",
		},
		{
			name:    "postgres without credentials",
			mutate:  func(c *config.Config) { c.Store.Driver = config.StoreDriverPostgres; c.DB.User = "" },
			wantErr: "DB_USER",
		},
		{
			name:    "unknown approval policy",
			mutate:  func(c *config.Config) { c.Booking.ApprovalPolicy = "auto" },
			wantErr: "BOOKING_APPROVAL_POLICY",
		},
		{
			name:    "zero lock wait",
			mutate:  func(c *config.Config) { c.Booking.LockWait = 0 },
			wantErr: "BOOKING_LOCK_WAIT",
		},
		{
			name:    "unknown lock driver",
			mutate:  func(c *config.Config) { c.Lock.Driver = "etcd" },
			wantErr: "LOCK_DRIVER",
		},
		{
			name:    "redis lock with zero ttl",
			mutate:  func(c *config.Config) { c.Lock.Driver = config.LockDriverRedis; c.Lock.TTL = 0 },
			wantErr: "LOCK_TTL",
		},
		{
			name:   "local lock ignores ttl",
			mutate: func(c *config.Config) { c.Lock.TTL = 0 },
		},
		{
			name:    "zero outbox poll interval",
			mutate:  func(c *config.Config) { c.Outbox.PollInterval = 0 },
			wantErr: "OUTBOX_POLL_INTERVAL",
		},
		{
			name:    "enabled sweep with zero interval",
			mutate:  func(c *config.Config) { c.Sweep.Enabled = true; c.Sweep.Interval = 0 },
			wantErr: "SWEEP_INTERVAL",
		},
		{
			name:    "enabled sweep with negative interval",
			mutate:  func(c *config.Config) { c.Sweep.Enabled = true; c.Sweep.Interval = -time.Second },
			wantErr: "SWEEP_INTERVAL",
		},
		{
			name:   "disabled sweep ignores interval",
			mutate: func(c *config.Config) { c.Sweep.Enabled = false; c.Sweep.Interval = 0 },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.NewTestConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
