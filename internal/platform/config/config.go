package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	GatewayDriverHTTP      = "http"
	GatewayDriverSimulated = "simulated"

	defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"
)

// Config holds application configuration.
type Config struct {
	Port          string `validate:"required,numeric"`
	IsProduction  bool
	LogLevel      string `validate:"oneof=debug info warn error"`
	StorageDriver string `validate:"oneof=postgres memory"`
	DatabaseURL   string `validate:"required_if=StorageDriver postgres"`
	EnableDBCheck bool

	MigrationsPath     string `validate:"required"` // golang-migrate source URL, e.g. file://migrations
	MemorySeedFile     string
	JWTSecret          string `validate:"required,min=16"`
	RateLimit          string `validate:"required"` // ulule formatted rate, e.g. 100-M
	CORSAllowedOrigins []string

	DefaultCurrency        string          `validate:"len=3,uppercase"`
	RecoveryCapPercent     decimal.Decimal `validate:"-"`
	LivingWageFloorPercent decimal.Decimal `validate:"-"`

	PayoutGatewayTimeout    time.Duration `validate:"gt=0"`
	PayoutReconcileInterval time.Duration `validate:"gt=0"`

	GatewayDriver      string        `validate:"oneof=http simulated"`
	GatewayBaseURL     string        `validate:"required_if=GatewayDriver http,omitempty,url"`
	GatewayAPIKey      string
	GatewayHTTPTimeout time.Duration `validate:"gt=0"`

	RedisURL            string `validate:"omitempty,url"`
	NotifyChannelPrefix string `validate:"required"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("MEMORY_SEED_FILE", "")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("DEFAULT_CURRENCY", "KES")
	v.SetDefault("RECOVERY_CAP_PERCENT", "0.30")
	v.SetDefault("LIVING_WAGE_FLOOR_PERCENT", "0.70")
	v.SetDefault("PAYOUT_GATEWAY_TIMEOUT", "5m")
	v.SetDefault("PAYOUT_RECONCILE_INTERVAL", "1m")
	v.SetDefault("GATEWAY_DRIVER", GatewayDriverSimulated)
	v.SetDefault("GATEWAY_BASE_URL", "")
	v.SetDefault("GATEWAY_API_KEY", "")
	v.SetDefault("GATEWAY_HTTP_TIMEOUT", "15s")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("NOTIFY_CHANNEL_PREFIX", "farmer-events")
}

func fromViper(v *viper.Viper) (*Config, error) {
	capPercent, err := decimal.NewFromString(v.GetString("RECOVERY_CAP_PERCENT"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECOVERY_CAP_PERCENT: %w", err)
	}
	floorPercent, err := decimal.NewFromString(v.GetString("LIVING_WAGE_FLOOR_PERCENT"))
	if err != nil {
		return nil, fmt.Errorf("invalid LIVING_WAGE_FLOOR_PERCENT: %w", err)
	}

	cfg := &Config{
		Port:                    v.GetString("PORT"),
		IsProduction:            v.GetBool("IS_PRODUCTION"),
		LogLevel:                strings.ToLower(v.GetString("LOG_LEVEL")),
		StorageDriver:           strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DatabaseURL:             v.GetString("PGSQL_URL"),
		EnableDBCheck:           v.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:          v.GetString("MIGRATIONS_PATH"),
		MemorySeedFile:          v.GetString("MEMORY_SEED_FILE"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		RateLimit:               v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:      splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		DefaultCurrency:         v.GetString("DEFAULT_CURRENCY"),
		RecoveryCapPercent:      capPercent,
		LivingWageFloorPercent:  floorPercent,
		PayoutGatewayTimeout:    v.GetDuration("PAYOUT_GATEWAY_TIMEOUT"),
		PayoutReconcileInterval: v.GetDuration("PAYOUT_RECONCILE_INTERVAL"),
		GatewayDriver:           strings.ToLower(v.GetString("GATEWAY_DRIVER")),
		GatewayBaseURL:          v.GetString("GATEWAY_BASE_URL"),
		GatewayAPIKey:           v.GetString("GATEWAY_API_KEY"),
		GatewayHTTPTimeout:      v.GetDuration("GATEWAY_HTTP_TIMEOUT"),
		RedisURL:                v.GetString("REDIS_URL"),
		NotifyChannelPrefix:     v.GetString("NOTIFY_CHANNEL_PREFIX"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == defaultJWTSecret {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	return cfg, nil
}

// Validate checks field tags and the recovery policy bounds.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	one := decimal.NewFromInt(1)
	if c.RecoveryCapPercent.IsNegative() || c.RecoveryCapPercent.GreaterThan(one) {
		return fmt.Errorf("invalid configuration: RECOVERY_CAP_PERCENT must be within [0,1], got %s", c.RecoveryCapPercent)
	}
	if c.LivingWageFloorPercent.IsNegative() || c.LivingWageFloorPercent.GreaterThan(one) {
		return fmt.Errorf("invalid configuration: LIVING_WAGE_FLOOR_PERCENT must be within [0,1], got %s", c.LivingWageFloorPercent)
	}
	if c.IsProduction && c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("invalid configuration: JWT_SECRET must be set in production")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
