package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port          string   `env:"PORT,            default=8080"`
	Env           string   `env:"ENV,             default=development"`
	LogLevel      string   `env:"LOG_LEVEL,       default=info"`
	LogFile       string   `env:"LOG_FILE"`
	LogFileMaxMB  int      `env:"LOG_FILE_MAX_MB,  default=50"`
	LogFileKeep   int      `env:"LOG_FILE_BACKUPS, default=5"`
	LogFileDays   int      `env:"LOG_FILE_MAX_AGE_DAYS, default=28"`
	PublicBaseURL string   `env:"PUBLIC_BASE_URL"`
	AllowOrigins  []string `env:"ALLOWED_ORIGINS, default=http://localhost:3000"`

	Session  SessionConfig
	DB       DBConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Payment  PaymentConfig
	Activity ActivityConfig
	Auth     AuthConfig

	OccupancyAuditSchedule string `env:"OCCUPANCY_AUDIT_SCHEDULE, default=@every 15m"`
}

type SessionConfig struct {
	TenantSecret string        `env:"TENANT_JWT_SECRET, required"`
	AdminSecret  string        `env:"ADMIN_JWT_SECRET,  required"`
	TTL          time.Duration `env:"SESSION_TTL,       default=24h"`
	CookieSecure bool          `env:"COOKIE_SECURE,     default=false"`
}

type DBConfig struct {
	Path          string `env:"DB_PATH,            default=rental.db"`
	MaxOpenConns  int    `env:"DB_MAX_OPEN_CONNS,  default=1"`
	BusyTimeoutMS int    `env:"DB_BUSY_TIMEOUT_MS, default=5000"`
}

// MongoConfig is optional; an empty URI disables the activity trail store.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=rental_activity"`
}

// RedisConfig is optional; an empty address disables the payment claim guard.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type PaymentConfig struct {
	StripeKey string        `env:"STRIPE_SECRET_KEY, required"`
	APIURL    string        `env:"STRIPE_API_URL"`
	Currency  string        `env:"PAYMENT_CURRENCY,  default=usd"`
	Timeout   time.Duration `env:"PAYMENT_TIMEOUT,   default=10s"`
}

type ActivityConfig struct {
	Workers int `env:"ACTIVITY_WORKERS, default=4"`
}

type AuthConfig struct {
	RateLimit float64 `env:"AUTH_RATE_LIMIT, default=1"`
	RateBurst int     `env:"AUTH_RATE_BURST, default=5"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Session.TenantSecret == c.Session.AdminSecret {
		return errors.New("TENANT_JWT_SECRET and ADMIN_JWT_SECRET must differ")
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.DB.MaxOpenConns < 1 {
		return errors.New("DB_MAX_OPEN_CONNS must be at least 1")
	}
	if c.Payment.Timeout <= 0 {
		return errors.New("PAYMENT_TIMEOUT must be positive")
	}
	if c.Activity.Workers < 1 {
		return errors.New("ACTIVITY_WORKERS must be at least 1")
	}
	return nil
}

// ToolConfig is the subset of settings the maintenance commands need. It does
// not require session or payment secrets.
type ToolConfig struct {
	LogLevel string `env:"LOG_LEVEL, default=info"`
	DB       DBConfig
}

// LoadTool reads ToolConfig from l.
func LoadTool(ctx context.Context, l envconfig.Lookuper) (*ToolConfig, error) {
	var cfg ToolConfig
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.DB.MaxOpenConns < 1 {
		return nil, errors.New("config: DB_MAX_OPEN_CONNS must be at least 1")
	}
	return &cfg, nil
}
