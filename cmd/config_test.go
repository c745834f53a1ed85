package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"HTTP_PORT", "DELIVERY_INCENTIVE", "UPI_CURRENCY", "EARNINGS_TIMEZONE",
		"COURIER_LOCATION_TTL", "AUTO_MIGRATE", "OUTBOX_RELAY_SCHEDULE",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "50", cfg.DeliveryIncentive.String())
	assert.Equal(t, "INR", cfg.UPICurrency)
	assert.Equal(t, time.Local, cfg.EarningsLocation)
	assert.Equal(t, 10*time.Minute, cfg.CourierLocationTTL)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "*/2 * * * * *", cfg.OutboxRelaySchedule)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DELIVERY_INCENTIVE", "62.50")
	t.Setenv("EARNINGS_TIMEZONE", "Asia/Kolkata")
	t.Setenv("COURIER_LOCATION_TTL", "90s")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "orders")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "62.5", cfg.DeliveryIncentive.String())
	assert.Equal(t, "Asia/Kolkata", cfg.EarningsLocation.String())
	assert.Equal(t, 90*time.Second, cfg.CourierLocationTTL)
	assert.False(t, cfg.AutoMigrate)
	assert.Contains(t, cfg.DSN(), "host=db")
	assert.Contains(t, cfg.DSN(), "dbname=orders")
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"DELIVERY_INCENTIVE":   "fifty",
		"EARNINGS_TIMEZONE":    "Mars/Olympus",
		"COURIER_LOCATION_TTL": "soon",
		"AUTO_MIGRATE":         "maybe",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(key, value)

			_, err := LoadConfig()

			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadConfig_NegativeIncentive(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DELIVERY_INCENTIVE", "-5")

	_, err := LoadConfig()

	assert.ErrorContains(t, err, "DELIVERY_INCENTIVE")
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		t.Run(env, func(t *testing.T) {
			logger, err := NewLogger(Config{AppEnv: env, AppName: "lastmile"})

			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}
