package config_test

import (
	"testing"

	"storefront/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, config.DriverMemory, cfg.DBDriver)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.Equal(t, "0.08", cfg.TaxRate.String())
	assert.Equal(t, "50", cfg.FreeShippingThreshold.String())
	assert.Equal(t, "5.99", cfg.ShippingFee.String())
	assert.True(t, cfg.SeedData)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("TAX_RATE", "0.2")
	t.Setenv("SEED_DATA", "false")

	v := newViper()
	v.AutomaticEnv()
	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, config.DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "0.2", cfg.TaxRate.String())
	assert.False(t, cfg.SeedData)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"DB_DRIVER":    "mongo",
		"TAX_RATE":     "-0.1",
		"SHIPPING_FEE": "cheap",
		"JWT_SECRET":   "",
	}
	for key, value := range cases {
		v := newViper()
		v.Set(key, value)
		_, err := config.Load(v)
		assert.Error(t, err, key)
	}
}
