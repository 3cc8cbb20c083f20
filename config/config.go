package config

import (
	"fmt"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string `env:"DATABASE_URL" env-description:"Postgres connection URL"`

	// Transport configuration
	ListenAddr string `env:"LISTEN_ADDR" env-default:":3000" env-description:"Webhook listen address"`
	SendURL    string `env:"SEND_URL" env-description:"Chat gateway send-API URL"`

	// Environment: "development", "production" or "test"
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load reads configuration from environment variables
func load() (*Config, error) {
	var config Config
	if err := cleanenv.ReadEnv(&config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.SendURL == "" {
			return nil, fmt.Errorf("SEND_URL is required")
		}
	}

	return &config, nil
}
