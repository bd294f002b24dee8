package config

import (
	"os"
	"strconv"
	"time"

	"edakit/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Analysis AnalysisConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds database connection settings.
// When URL is empty the service falls back to in-memory stores.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// StorageConfig holds job/result store settings
type StorageConfig struct {
	JobTTL     time.Duration
	ResultTTL  time.Duration
	DatasetDir string
}

// AnalysisConfig holds analysis engine defaults
type AnalysisConfig struct {
	HistogramBins        int
	CategoricalTopN      int
	CorrelationThreshold float64
	Workers              int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			URL:     getEnvOrDefault("DATABASE_URL", ""),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Storage: StorageConfig{
			JobTTL:     getEnvDurationOrDefault("JOB_TTL", 24*time.Hour),
			ResultTTL:  getEnvDurationOrDefault("RESULT_TTL", 24*time.Hour),
			DatasetDir: getEnvOrDefault("DATASET_DIR", "./data/datasets"),
		},
		Analysis: AnalysisConfig{
			HistogramBins:        getEnvIntOrDefault("HISTOGRAM_BINS", 10),
			CategoricalTopN:      getEnvIntOrDefault("CATEGORICAL_TOP_N", 10),
			CorrelationThreshold: getEnvFloatOrDefault("CORRELATION_THRESHOLD", 0.3),
			Workers:              getEnvIntOrDefault("ANALYSIS_WORKERS", 1),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(c *Config) error {
	if c.Server.Port == "" {
		return errors.ConfigInvalid("PORT cannot be empty")
	}
	if c.Analysis.HistogramBins < 1 {
		return errors.ConfigInvalid("HISTOGRAM_BINS must be at least 1")
	}
	if c.Analysis.CategoricalTopN < 1 {
		return errors.ConfigInvalid("CATEGORICAL_TOP_N must be at least 1")
	}
	if c.Analysis.CorrelationThreshold < 0 || c.Analysis.CorrelationThreshold > 1 {
		return errors.ConfigInvalid("CORRELATION_THRESHOLD must be within [0,1]")
	}
	if c.Analysis.Workers < 1 {
		return errors.ConfigInvalid("ANALYSIS_WORKERS must be at least 1")
	}
	if c.Storage.JobTTL <= 0 || c.Storage.ResultTTL <= 0 {
		return errors.ConfigInvalid("store TTLs must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
