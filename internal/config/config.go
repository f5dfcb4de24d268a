package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string `env:"APP_NAME" envDefault:"Acme"`
	AppEnv  string `env:"APP_ENV,required,notEmpty"` // 'development' or 'production'
	AppURL  string `env:"APP_URL,required,notEmpty"` // base URL for email links and OAuth redirects
	Port    string `env:"PORT" envDefault:"8090"`

	// Database (driver switch via ENV, default: sqlite)
	DBDriver     string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBConnection string `env:"DB_CONNECTION" envDefault:"./data/authgate.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"`

	// Security
	JWTSecret              string        `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiry              time.Duration `env:"JWT_EXPIRY" envDefault:"168h"`
	TokenEmailVerifyExpiry time.Duration `env:"TOKEN_EMAIL_VERIFY_EXPIRY" envDefault:"24h"`
	// Set only behind a reverse proxy that overwrites X-Forwarded-For
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// OAuth
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`

	// Email
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"noreply@example.com"`
	ResendAPIKey string `env:"RESEND_API_KEY"`

	// Observability (optional)
	SentryDSN string `env:"SENTRY_DSN"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	return Parse()
}

// Parse builds a Config from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.IsProduction() {
		err = validateProduction(cfg)
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// validateProduction ensures required services are configured for production deployments.
// Development falls back to logging emails instead of sending them.
func validateProduction(cfg *Config) error {
	if cfg.ResendAPIKey == "" {
		return errors.New("production deployment requires RESEND_API_KEY (set APP_ENV=development for email log mode)")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func (c *Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx, templates and client-facing contexts.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		AppURL:  c.AppURL,
		Port:    c.Port,

		EmailFrom: c.EmailFrom,

		GoogleClientID: c.GoogleClientID,
		GitHubClientID: c.GitHubClientID,
	}
}
