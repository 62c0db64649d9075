package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	AppEnv     string
	Port       string
	JWTSecret  string
	Database   DatabaseConfig
	Purchasing PurchasingConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// PurchasingConfig holds the connection to the external purchasing system.
// Leaving URL empty disables the bridge; requests then stay local only.
type PurchasingConfig struct {
	URL      string
	Database string
	Username string
	Password string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "3210"),
		JWTSecret: jwtSecret,
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "fieldops"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
		Purchasing: PurchasingConfig{
			URL:      os.Getenv("PURCHASING_URL"),
			Database: getEnv("PURCHASING_DB", "purchasing"),
			Username: os.Getenv("PURCHASING_USERNAME"),
			Password: os.Getenv("PURCHASING_PASSWORD"),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
