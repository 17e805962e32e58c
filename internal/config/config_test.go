package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "leadhub", cfg.Database.DBName)
	assert.Equal(t, int64(10), cfg.Database.MaxTxConc)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 600, cfg.Redis.IdempotencyTTLSeconds)
	assert.Equal(t, "Asia/Jakarta", cfg.Report.Timezone)
	assert.Equal(t, 5, cfg.Report.TopCities)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "leadhub_test")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REPORT_TOP_CITIES", "10")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	cfg := fromViper(v)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "leadhub_test", cfg.Database.DBName)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 10, cfg.Report.TopCities)
}

func TestDSN(t *testing.T) {
	t.Parallel()

	cfg := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "leadhub", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=leadhub sslmode=disable", cfg.DSN())
}
