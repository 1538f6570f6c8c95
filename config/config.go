package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the app shell and the dev gateway.
type Config struct {
	App  AppConfig
	Stub StubConfig
}

// AppConfig holds the client-side settings.
type AppConfig struct {
	GatewayURL     string        `mapstructure:"GATEWAY_URL"`
	GatewayAPIKey  string        `mapstructure:"GATEWAY_API_KEY"`
	RequestTimeout time.Duration `mapstructure:"GATEWAY_REQUEST_TIMEOUT"`
	SplashMinTime  time.Duration `mapstructure:"SPLASH_MIN_TIME"`
}

// StubConfig holds the dev gateway daemon settings. Postgres and Redis are
// optional: an empty DSN or address selects the in-memory equivalent.
type StubConfig struct {
	Host         string        `mapstructure:"STUB_HOST"`
	Port         int           `mapstructure:"STUB_PORT"`
	ReadTimeout  time.Duration `mapstructure:"STUB_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"STUB_WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `mapstructure:"STUB_IDLE_TIMEOUT"`

	APIKey    string        `mapstructure:"STUB_API_KEY"`
	JWTSecret string        `mapstructure:"STUB_JWT_SECRET"`
	TokenTTL  time.Duration `mapstructure:"STUB_TOKEN_TTL"`

	PostgresDSN   string `mapstructure:"PG_DSN"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
}

// Addr returns the stub listen address in host:port format.
func (s *StubConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// ── Defaults ────────────────────────────────────────
	viper.SetDefault("GATEWAY_URL", "http://localhost:8080")
	viper.SetDefault("GATEWAY_API_KEY", "dev-anon-key")
	viper.SetDefault("GATEWAY_REQUEST_TIMEOUT", "10s")
	viper.SetDefault("SPLASH_MIN_TIME", "3s")

	viper.SetDefault("STUB_HOST", "0.0.0.0")
	viper.SetDefault("STUB_PORT", 8080)
	viper.SetDefault("STUB_READ_TIMEOUT", "5s")
	viper.SetDefault("STUB_WRITE_TIMEOUT", "10s")
	viper.SetDefault("STUB_IDLE_TIMEOUT", "120s")
	viper.SetDefault("STUB_API_KEY", "dev-anon-key")
	viper.SetDefault("STUB_JWT_SECRET", "rideflow-dev-secret")
	viper.SetDefault("STUB_TOKEN_TTL", "1h")

	viper.SetDefault("PG_DSN", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	// Try to read .env file. If it doesn't exist (e.g., inside Docker),
	// env vars injected by docker-compose env_file are used instead.
	_ = viper.ReadInConfig()

	cfg := &Config{}

	// ── App ─────────────────────────────────────────────
	cfg.App = AppConfig{
		GatewayURL:     viper.GetString("GATEWAY_URL"),
		GatewayAPIKey:  viper.GetString("GATEWAY_API_KEY"),
		RequestTimeout: viper.GetDuration("GATEWAY_REQUEST_TIMEOUT"),
		SplashMinTime:  viper.GetDuration("SPLASH_MIN_TIME"),
	}

	// ── Stub gateway ────────────────────────────────────
	cfg.Stub = StubConfig{
		Host:          viper.GetString("STUB_HOST"),
		Port:          viper.GetInt("STUB_PORT"),
		ReadTimeout:   viper.GetDuration("STUB_READ_TIMEOUT"),
		WriteTimeout:  viper.GetDuration("STUB_WRITE_TIMEOUT"),
		IdleTimeout:   viper.GetDuration("STUB_IDLE_TIMEOUT"),
		APIKey:        viper.GetString("STUB_API_KEY"),
		JWTSecret:     viper.GetString("STUB_JWT_SECRET"),
		TokenTTL:      viper.GetDuration("STUB_TOKEN_TTL"),
		PostgresDSN:   viper.GetString("PG_DSN"),
		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),
		RedisDB:       viper.GetInt("REDIS_DB"),
	}

	return cfg, nil
}
