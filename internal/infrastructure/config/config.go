// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cashlens/cashlens/pkg/observability"
	"github.com/cashlens/cashlens/pkg/openbanking"
	pgpkg "github.com/cashlens/cashlens/pkg/postgres"
)

// Config holds all configuration for the service binaries.
type Config struct {
	HTTPPort    int
	ServiceName string

	Database pgpkg.Config
	Plaid    openbanking.PlaidConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Log      observability.LogConfig

	// MigrationsDir is the golang-migrate source URL.
	MigrationsDir string
}

// KafkaConfig holds Kafka connection settings.
type KafkaConfig struct {
	Brokers []string
}

// JWTConfig holds token validation settings for the query surface.
type JWTConfig struct {
	Secret        string
	PublicKeyFile string
	Issuer        string
	Expiration    time.Duration
}

// Validate checks required configuration values.
func (c Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" && c.JWT.PublicKeyFile == "" {
		return fmt.Errorf("JWT_SECRET or JWT_PUBLIC_KEY_FILE is required")
	}
	return nil
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		HTTPPort:      getEnvInt("HTTP_PORT", 8080),
		ServiceName:   getEnv("SERVICE_NAME", "cashlens"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "file://./migrations"),
		Database: pgpkg.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "cashlens"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "cashlens"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Plaid: openbanking.PlaidConfig{
			ClientID:    getEnv("PLAID_CLIENT_ID", ""),
			Secret:      getEnv("PLAID_SECRET", ""),
			Environment: getEnv("PLAID_ENV", "sandbox"),
			BaseURL:     getEnv("PLAID_BASE_URL", "https://sandbox.plaid.com"),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", ""),
			PublicKeyFile: getEnv("JWT_PUBLIC_KEY_FILE", ""),
			Issuer:        getEnv("JWT_ISSUER", "cashlens"),
			Expiration:    getEnvDuration("JWT_EXPIRATION", 24*time.Hour),
		},
		Log: observability.LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
