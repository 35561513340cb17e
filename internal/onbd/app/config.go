package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/onbd/pkg/cryptox"
	"github.com/aussiebroadwan/onbd/pkg/httpx"
	"github.com/aussiebroadwan/onbd/pkg/jwtx"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrInvalidConfig wraps every configuration problem found by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Issuer    string `env:"ONBD_ISSUER"     envDefault:"onbd"`
	JWTSecret string `env:"ONBD_JWT_SECRET"` // Required: HS256 secret, at least 32 bytes
	AESKey    string `env:"ONBD_AES_KEY"`    // Required: 64 hex chars

	AccessTokenTTL time.Duration `env:"ONBD_ACCESS_TOKEN_TTL" envDefault:"1h"`
	InviteTTL      time.Duration `env:"ONBD_INVITE_TTL"       envDefault:"24h"`
	BcryptCost     int           `env:"ONBD_BCRYPT_COST"      envDefault:"10"`

	DatabaseDriver string `env:"ONBD_DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseFile   string `env:"ONBD_DATABASE_FILE"   envDefault:"onbd.db"`
	DatabaseURL    string `env:"ONBD_DATABASE_URL"` // postgres DSN

	// RedisURL enables the shared rate limiter when set.
	RedisURL string `env:"ONBD_REDIS_URL"`

	// TrustedProxies are addresses or CIDRs of reverse proxies whose
	// X-Forwarded-For and X-Real-IP headers are believed.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	BootstrapToken string `env:"BOOTSTRAP_TOKEN"` // Optional: enables POST /bootstrap

	Env                  string        `env:"ENV"                   envDefault:"dev"`
	LogLevel             string        `env:"LOG_LEVEL"             envDefault:"info"`
	LogFormat            string        `env:"LOG_FORMAT"            envDefault:"json"`
	Port                 int           `env:"PORT"                  envDefault:"8080"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
	AuditBufferSize      int           `env:"AUDIT_BUFFER_SIZE"     envDefault:"1024"`
}

// LoadConfig reads an optional .env file, then the process environment, and
// validates the result.
func LoadConfig() (Config, error) {
	_ = godotenv.Load() // .env is optional

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem at once so operators can fix them together.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	switch {
	case c.JWTSecret == "":
		add("ONBD_JWT_SECRET is required")
	case len(c.JWTSecret) < jwtx.MinSecretBytes:
		add("ONBD_JWT_SECRET must be at least %d bytes", jwtx.MinSecretBytes)
	}

	if _, err := cryptox.NewFieldCipher(c.AESKey); err != nil {
		add("ONBD_AES_KEY: %v", err)
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			add("ONBD_DATABASE_FILE is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			add("ONBD_DATABASE_URL is required for the postgres driver")
		}
	default:
		add("ONBD_DATABASE_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DatabaseDriver)
	}

	if c.BcryptCost < cryptox.DefaultPasswordCost || c.BcryptCost > bcrypt.MaxCost {
		add("ONBD_BCRYPT_COST must be between %d and %d", cryptox.DefaultPasswordCost, bcrypt.MaxCost)
	}
	if c.AccessTokenTTL <= 0 {
		add("ONBD_ACCESS_TOKEN_TTL must be positive")
	}
	if c.InviteTTL <= 0 {
		add("ONBD_INVITE_TTL must be positive")
	}
	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		add("TRUSTED_PROXIES: %v", err)
	}
	if c.Port <= 0 || c.Port > 65535 {
		add("PORT must be between 1 and 65535")
	}

	return errors.Join(errs...)
}
