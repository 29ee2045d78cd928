package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"cellxplore/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Fields    FieldConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	GinMode     string
	CORSOrigins []string
}

// DataConfig describes where the dataset comes from. Exactly one of
// ServiceURL (HTTP data service) or FilePath (local CSV/XLSX) is used, with
// the service taking precedence when both are set.
type DataConfig struct {
	ServiceURL   string
	DataPath     string // optional JSON path to the record array
	FilePath     string
	FetchTimeout time.Duration
}

// FieldConfig names the columns the core reads. Different datasets name them
// differently (prob vs lr_probs, pval vs cellchat_pvals), so they are supplied
// by configuration rather than hard-coded.
type FieldConfig struct {
	Source      string
	Target      string
	Probability string
	PValue      string
	Pair        string
}

// ProfilingConfig holds settings for the ops server (health + pprof)
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:        getEnvOrDefault("PORT", "8080"),
			GinMode:     getEnvOrDefault("GIN_MODE", "debug"),
			CORSOrigins: splitList(getEnvOrDefault("CORS_ORIGINS", "*")),
		},
		Data: DataConfig{
			ServiceURL:   os.Getenv("DATA_SERVICE_URL"),
			DataPath:     os.Getenv("DATA_SERVICE_JSON_PATH"),
			FilePath:     os.Getenv("DATA_FILE"),
			FetchTimeout: getEnvDurationOrDefault("DATA_FETCH_TIMEOUT", 30*time.Second),
		},
		Fields: FieldConfig{
			Source:      getEnvOrDefault("FIELD_SOURCE", "source"),
			Target:      getEnvOrDefault("FIELD_TARGET", "target"),
			Probability: getEnvOrDefault("FIELD_PROBABILITY", "prob"),
			PValue:      getEnvOrDefault("FIELD_PVALUE", "pval"),
			Pair:        getEnvOrDefault("FIELD_PAIR", "Interacting_Pair"),
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("OPS_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("OPS_ENABLED", true),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Data.ServiceURL == "" && config.Data.FilePath == "" {
		return errors.ConfigInvalid("one of DATA_SERVICE_URL or DATA_FILE is required")
	}
	if config.Fields.Source == "" || config.Fields.Target == "" {
		return errors.ConfigInvalid("FIELD_SOURCE and FIELD_TARGET must not be empty")
	}
	if config.Fields.Probability == "" || config.Fields.PValue == "" {
		return errors.ConfigInvalid("FIELD_PROBABILITY and FIELD_PVALUE must not be empty")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
