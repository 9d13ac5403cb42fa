// Package config loads typed configuration from the environment, with
// .env support for local development.
package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full configuration surface. DATABASE_URL is the only
// required value; everything else has a default or is optional.
type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	Port        int    `envconfig:"PORT" default:"8080"`
	// Env affects error-response verbosity: anything other than
	// "production" attaches internal detail to 500 responses.
	Env string `envconfig:"APP_ENV" default:"development"`

	// ContactRateLimit caps POST /api/contact requests per client IP
	// per rolling hour.
	ContactRateLimit int `envconfig:"CONTACT_RATE_LIMIT" default:"5"`

	// SMTP credentials are an optional pair; when unset, notification
	// dispatch is skipped entirely.
	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	AdminEmail   string `envconfig:"ADMIN_EMAIL"`
}

// Load reads .env (if present) and processes the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
