package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: values that differ between environments (port, DB connection, secrets)
// - default: values shared by every environment (timezone, timeouts, policies)
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Store   StoreConfig
	Booking BookingConfig
	Lock    LockConfig
	Kafka   KafkaConfig
	Outbox  OutboxConfig
	Sweep   SweepConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"2"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Location"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type StoreConfig struct {
	Driver string `envconfig:"STORE_DRIVER" default:"postgres"`
	// JSON array of resources loaded into the in-memory catalog at startup
	SeedFile string `envconfig:"STORE_SEED_FILE"`
}

const (
	ApprovalInstant  = "instant"
	ApprovalManual   = "manual"
	ApprovalResource = "resource"
)

type BookingConfig struct {
	// instant | manual | resource (defer to the resource's instant-book flag)
	ApprovalPolicy string        `envconfig:"BOOKING_APPROVAL_POLICY" default:"instant"`
	LockWait       time.Duration `envconfig:"BOOKING_LOCK_WAIT" default:"2s"`
	MaxTxRetries   int           `envconfig:"BOOKING_MAX_TX_RETRIES" default:"3"`
}

const (
	LockDriverLocal = "local"
	LockDriverRedis = "redis"
)

type LockConfig struct {
	Driver        string        `envconfig:"LOCK_DRIVER" default:"local"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	TTL           time.Duration `envconfig:"LOCK_TTL" default:"10s"`
}

type KafkaConfig struct {
	Brokers  []string `envconfig:"KAFKA_BROKERS"`
	Topic    string   `envconfig:"KAFKA_TOPIC" default:"reservations.events.v1"`
	ClientID string   `envconfig:"KAFKA_CLIENT_ID" default:"reservation-engine"`
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type OutboxConfig struct {
	PollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"2s"`
	BatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	MaxAttempts  int           `envconfig:"OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type SweepConfig struct {
	Enabled  bool          `envconfig:"SWEEP_ENABLED" default:"true"`
	Interval time.Duration `envconfig:"SWEEP_INTERVAL" default:"1h"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.DB.User == "" || c.DB.DBName == "" {
			return fmt.Errorf("DB_USER and DB_NAME are required for store driver %q", c.Store.Driver)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	switch c.Booking.ApprovalPolicy {
	case ApprovalInstant, ApprovalManual, ApprovalResource:
	default:
		return fmt.Errorf("unknown BOOKING_APPROVAL_POLICY %q", c.Booking.ApprovalPolicy)
	}
	if c.Booking.LockWait <= 0 {
		return fmt.Errorf("BOOKING_LOCK_WAIT must be positive")
	}
	if c.Booking.MaxTxRetries < 0 {
		return fmt.Errorf("BOOKING_MAX_TX_RETRIES must not be negative")
	}

	switch c.Lock.Driver {
	case LockDriverLocal:
	case LockDriverRedis:
		if c.Lock.TTL <= 0 {
			return fmt.Errorf("LOCK_TTL must be positive for lock driver %q", c.Lock.Driver)
		}
	default:
		return fmt.Errorf("unknown LOCK_DRIVER %q", c.Lock.Driver)
	}

	// both feed time.NewTicker, which panics on non-positive durations
	if c.Outbox.PollInterval <= 0 {
		return fmt.Errorf("OUTBOX_POLL_INTERVAL must be positive")
	}
	if c.Sweep.Enabled && c.Sweep.Interval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive when SWEEP_ENABLED is set")
	}
	return nil
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 20,
			MinConns: 1,
		},
		Log: LogConfig{
			Level:      "error", // error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Store: StoreConfig{
			Driver: StoreDriverMemory,
		},
		Booking: BookingConfig{
			ApprovalPolicy: ApprovalInstant,
			LockWait:       500 * time.Millisecond,
			MaxTxRetries:   3,
		},
		Lock: LockConfig{
			Driver: LockDriverLocal,
			TTL:    5 * time.Second,
		},
		Kafka: KafkaConfig{
			Topic:    "reservations.events.v1",
			ClientID: "reservation-engine-test",
		},
		Outbox: OutboxConfig{
			PollInterval: 100 * time.Millisecond,
			BatchSize:    50,
			MaxAttempts:  3,
		},
		Sweep: SweepConfig{
			Enabled:  false,
			Interval: time.Minute,
		},
	}
}
