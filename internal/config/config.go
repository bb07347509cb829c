package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to a documented env var.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production
	CORSOrigin     string `mapstructure:"CORS_ORIGIN"`
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`
	LoginRateLimit int    `mapstructure:"LOGIN_RATE_LIMIT"` // attempts per minute per IP
	APIRateLimit   int    `mapstructure:"API_RATE_LIMIT"`   // requests per minute per IP

	// Database
	DBHost        string `mapstructure:"DB_HOST"`
	DBPort        int    `mapstructure:"DB_PORT"`
	DBUser        string `mapstructure:"DB_USER"`
	DBPassword    string `mapstructure:"DB_PASSWORD"`
	DBName        string `mapstructure:"DB_NAME"`
	DBSSLMode     string `mapstructure:"DB_SSLMODE"`
	DBAutoMigrate bool   `mapstructure:"DB_AUTO_MIGRATE"`

	// Redis (optional: empty disables the job queue and uses in-memory rate limiting)
	RedisURL string `mapstructure:"REDIS_URL"`

	// Auth
	JWTSecret            string `mapstructure:"JWT_SECRET"`
	JWTExpirationMinutes int    `mapstructure:"JWT_EXPIRATION_MINUTES"`

	// SMTP (optional: empty host disables notifications)
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`
}

var keys = []string{
	"PORT", "APP_ENV", "CORS_ORIGIN", "WORKER_POOL_SIZE", "LOGIN_RATE_LIMIT", "API_RATE_LIMIT",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "DB_AUTO_MIGRATE",
	"REDIS_URL", "JWT_SECRET", "JWT_EXPIRATION_MINUTES",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "SMTP_FROM",
}

// ErrMissingSecret is returned by Load when JWT_SECRET is not set.
var ErrMissingSecret = errors.New("JWT_SECRET es obligatorio")

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	// AutomaticEnv only resolves keys viper already knows about when unmarshalling.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// Sensible defaults for development
	v.SetDefault("PORT", 3001)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CORS_ORIGIN", "http://localhost:3000")
	v.SetDefault("WORKER_POOL_SIZE", 2)
	v.SetDefault("LOGIN_RATE_LIMIT", 20)
	v.SetDefault("API_RATE_LIMIT", 600)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "evidencias")
	v.SetDefault("DB_NAME", "evidencias")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("JWT_EXPIRATION_MINUTES", 60)
	v.SetDefault("SMTP_PORT", 587)

	// Optional .env file for local development; a missing file is fine
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server must not start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	if c.JWTExpirationMinutes <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_MINUTES debe ser positivo, es %d", c.JWTExpirationMinutes)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT fuera de rango: %d", c.Port)
	}
	return nil
}

// DatabaseDSN builds a postgres URL from the DB_* settings.
func (c *Config) DatabaseDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool { return c.Env == "production" }
