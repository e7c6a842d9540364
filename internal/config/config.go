package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Detection DetectionConfig
	Logging   LoggingConfig
	Telemetry TelemetryConfig
	Training  *TrainingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds MongoDB connection configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// RedisConfig holds Redis connection configuration.
// An empty Addr disables caching, idempotency and the distributed lock.
type RedisConfig struct {
	Addr     string
	Password string
}

// DetectionConfig tunes PR detection concurrency
type DetectionConfig struct {
	LockTTLSeconds int64
	MaxRetries     int64
}

// LoggingConfig mirrors logging.SetupParams
type LoggingConfig struct {
	Level       string
	LogsPath    string
	LogToStdout bool
	FormatJSON  bool
}

// TelemetryConfig holds OpenTelemetry settings
type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	Insecure     bool
	Environment  string
}

// Load reads configuration from environment variables
// It attempts to load from .env file first, then falls back to system env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "liftlog"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Detection: DetectionConfig{
			LockTTLSeconds: getEnvAsInt64("LOCK_TTL_SECONDS", 10),
			MaxRetries:     getEnvAsInt64("DETECTION_MAX_RETRIES", 3),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			LogsPath:    getEnv("LOGS_PATH", ""),
			LogToStdout: getEnvAsBool("LOG_TO_STDOUT", true),
			FormatJSON:  getEnvAsBool("LOG_FORMAT_JSON", false),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getEnvAsBool("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "liftlog"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			Insecure:     getEnvAsBool("OTEL_INSECURE", true),
			Environment:  getEnv("ENVIRONMENT", "development"),
		},
	}

	training, err := LoadTraining(getEnv("TRAINING_CONFIG_PATH", ""))
	if err != nil {
		return nil, err
	}
	cfg.Training = training

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present
func (c *Config) Validate() error {
	if c.MongoDB.URI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	if c.MongoDB.Database == "" {
		return fmt.Errorf("MONGODB_DATABASE is required")
	}
	if c.Detection.LockTTLSeconds <= 0 {
		return fmt.Errorf("LOCK_TTL_SECONDS must be positive")
	}
	if c.Detection.MaxRetries <= 0 {
		return fmt.Errorf("DETECTION_MAX_RETRIES must be positive")
	}
	if c.Training != nil {
		if err := c.Training.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 retrieves an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool accepts 1/0, true/false, yes/no
func getEnvAsBool(key string, defaultValue bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return defaultValue
	}
}
