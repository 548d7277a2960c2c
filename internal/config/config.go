package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// DatabaseType selects the SQL backend: sqlite, postgres, or mysql.
	// Postgres and MySQL read DATABASE_URL; sqlite reads DB_PATH.
	DatabaseType string `env:"DB_TYPE" envDefault:"sqlite"`
	DatabasePath string `env:"DB_PATH" envDefault:"./eggadventure.db"`
	DatabaseURL  string `env:"DATABASE_URL"`

	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"720h"`

	GoogleClientID       string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret   string `env:"GOOGLE_CLIENT_SECRET"`
	OAuthRedirectBaseURL string `env:"OAUTH_REDIRECT_BASE_URL"`

	AWSRegion    string `env:"AWS_REGION" envDefault:"us-east-1"`
	SESFromEmail string `env:"SES_FROM_EMAIL"`
	SESFromName  string `env:"SES_FROM_NAME" envDefault:"Egg Adventure"`

	Debug bool `env:"DEBUG"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
