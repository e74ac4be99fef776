package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Admin    AdminConfig
	Shares   SharesConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// AdminConfig holds admin-gating and at-rest encryption configuration.
// PaymentRefKey is a base64 fernet key used to encrypt payout payment
// references before they are persisted; empty disables encryption.
type AdminConfig struct {
	APIKey        string
	PaymentRefKey string
}

// SharesConfig holds the schedule for refreshing the derived available_shares
// cache. The cache is display-only; allocation always recomputes from
// investment rows.
type SharesConfig struct {
	RefreshSchedule string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/property_manager.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost"), ","),
		},
		Admin: AdminConfig{
			APIKey:        os.Getenv("ADMIN_API_KEY"),
			PaymentRefKey: os.Getenv("PAYMENT_REF_KEY"),
		},
		Shares: SharesConfig{
			RefreshSchedule: getEnv("SHARES_REFRESH_SCHEDULE", "@hourly"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
