// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config holds everything the server needs at start-up.
//
// Either DATABASE_URL or the DB_* parts must be provided.
type Config struct {
	Port   string `env:"PORT,default=5000"`
	AppEnv string `env:"APP_ENV,default=development"`

	DatabaseURL string `env:"DATABASE_URL"`
	DBUser      string `env:"DB_USER"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBHost      string `env:"DB_HOST,default=localhost"`
	DBPort      string `env:"DB_PORT,default=5432"`
	DBName      string `env:"DB_NAME,default=ecosync"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,default=168h"`

	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	GeminiModel   string        `env:"GEMINI_MODEL,default=gemini-2.5-flash"`
	GeminiBaseURL string        `env:"GEMINI_BASE_URL,default=https://generativelanguage.googleapis.com/v1beta"`
	AITimeout     time.Duration `env:"AI_TIMEOUT,default=30s"`

	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT,default=20"`
	BodyLimit     string  `env:"BODY_LIMIT,default=50M"`
}

// Load reads an optional .env file and decodes the environment into a Config.
func Load(envFiles ...string) (*Config, error) {
	// .env is optional; real deployments set the variables directly.
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode env: %w", err)
	}
	if cfg.DatabaseURL == "" && cfg.DBUser == "" {
		return nil, errors.New("database not configured: set DATABASE_URL or DB_USER/DB_PASSWORD/DB_HOST/DB_PORT/DB_NAME")
	}
	return &cfg, nil
}

// DSN returns the Postgres connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   c.DBHost + ":" + c.DBPort,
		Path:   "/" + c.DBName,
	}
	return u.String()
}

// AIEnabled reports whether generative AI credentials were provided.
func (c *Config) AIEnabled() bool { return c.GeminiAPIKey != "" }

// Production reports whether the server runs with production settings.
func (c *Config) Production() bool { return c.AppEnv == "production" }
