// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// MinSessionSecretLength is the minimum required length for the session
// secret. 32 bytes keeps session tokens unguessable.
const MinSessionSecretLength = 32

// Config holds the application configuration loaded from environment variables.
// Admin credentials are injected here rather than compiled in as literals.
type Config struct {
	DBPath        string `env:"CAMPUS_DB_PATH" envDefault:"./data/campusconnect.db"`
	SessionSecret string `env:"CAMPUS_SESSION_SECRET,required"`
	ServerHost    string `env:"CAMPUS_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"CAMPUS_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"CAMPUS_ENV" envDefault:"development"`
	LogLevel      string `env:"CAMPUS_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"CAMPUS_UPLOADS_DIR" envDefault:"./static/uploads"`

	// Admin credentials for the single-tenant admin realm. No admin row
	// exists in the store; these are checked in-process.
	AdminUser     string `env:"CAMPUS_ADMIN_USER" envDefault:"admin"`
	AdminPassword string `env:"CAMPUS_ADMIN_PASSWORD,required"`

	// Seeding configuration
	DoSeed bool `env:"CAMPUS_DO_SEED" envDefault:"false"` // Enable test-user seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("CAMPUS_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("CAMPUS_ADMIN_PASSWORD must not be empty")
	}

	return cfg, nil
}
