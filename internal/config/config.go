package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Supported values for DB_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the runtime configuration of the service.
type Config struct {
	AppPort               string
	DBDriver              string
	DatabaseDSN           string
	JWTSecret             string
	RabbitMQURL           string // empty disables order event publishing
	TaxRate               decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
	SeedData              bool
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", DriverMemory)
	v.SetDefault("DATABASE_DSN", "file::memory:?cache=shared")
	v.SetDefault("JWT_SECRET", "change_me_jwt_secret")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("TAX_RATE", "0.08")
	v.SetDefault("FREE_SHIPPING_THRESHOLD", "50.00")
	v.SetDefault("SHIPPING_FEE", "5.99")
	v.SetDefault("SEED_DATA", true)
}

// Load reads the configuration from v, which should already have its
// defaults, environment and config file sources set up.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:     v.GetString("APP_PORT"),
		DBDriver:    strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DatabaseDSN: v.GetString("DATABASE_DSN"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		RabbitMQURL: strings.TrimSpace(v.GetString("RABBITMQ_URL")),
		SeedData:    v.GetBool("SEED_DATA"),
	}

	switch cfg.DBDriver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("invalid DB_DRIVER %q: want %s, %s or %s", cfg.DBDriver, DriverMemory, DriverSQLite, DriverPostgres)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}

	var err error
	if cfg.TaxRate, err = nonNegativeDecimal(v, "TAX_RATE"); err != nil {
		return nil, err
	}
	if cfg.FreeShippingThreshold, err = nonNegativeDecimal(v, "FREE_SHIPPING_THRESHOLD"); err != nil {
		return nil, err
	}
	if cfg.ShippingFee, err = nonNegativeDecimal(v, "SHIPPING_FEE"); err != nil {
		return nil, err
	}
	return cfg, nil
}

// New builds a viper instance reading the process environment and loads it.
func New() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return Load(v)
}

func nonNegativeDecimal(v *viper.Viper, key string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
