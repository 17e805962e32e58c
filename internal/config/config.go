package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Report   ReportConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxTxConc    int64
}

type RedisConfig struct {
	Enabled               bool
	URL                   string
	Host                  string
	Port                  string
	Password              string
	DB                    int
	IdempotencyTTLSeconds int
}

type ReportConfig struct {
	Timezone  string
	TopCities int
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		v := viper.New()
		setDefaults(v)
		v.AutomaticEnv()

		instance = fromViper(v)
	})

	return instance
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "leadhub")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_MAX_CONCURRENT_TX", 10)
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("IDEMPOTENCY_TTL_SECONDS", 600)
	v.SetDefault("REPORT_TIMEZONE", "Asia/Jakarta")
	v.SetDefault("REPORT_TOP_CITIES", 5)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("METRICS_PATH", "/metrics")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			DBName:       v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxTxConc:    v.GetInt64("DB_MAX_CONCURRENT_TX"),
		},
		Redis: RedisConfig{
			Enabled:               v.GetBool("REDIS_ENABLED"),
			URL:                   v.GetString("REDIS_URL"),
			Host:                  v.GetString("REDIS_HOST"),
			Port:                  v.GetString("REDIS_PORT"),
			Password:              v.GetString("REDIS_PASSWORD"),
			DB:                    v.GetInt("REDIS_DB"),
			IdempotencyTTLSeconds: v.GetInt("IDEMPOTENCY_TTL_SECONDS"),
		},
		Report: ReportConfig{
			Timezone:  v.GetString("REPORT_TIMEZONE"),
			TopCities: v.GetInt("REPORT_TOP_CITIES"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
			Path:    v.GetString("METRICS_PATH"),
		},
	}
}

// DSN renders the connection string used by the pgx stdlib driver.
func (c DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}
