package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"geoveil/internal/types"
)

// LoadConfig runs the loading sequence:
//
//  1. Load a .env file via godotenv (non-fatal if absent).
//  2. Process struct tags and defaults with envconfig.
//  3. Validate the struct with go-playground/validator.
//  4. Apply cross-field rules that tags cannot express.
//
// Any invalid value fails immediately; a process running with a broken
// privacy configuration is worse than one that refuses to start.
func LoadConfig() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	if cfg.Store.Backend == string(types.BackendPostgres) && cfg.Store.PostgresURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=postgres")
	}

	return &cfg, nil
}
