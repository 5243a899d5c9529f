package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gobioact/domain/descriptor"
	"gobioact/domain/stage"
	"gobioact/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Config represents the complete application configuration
type Config struct {
	Pipeline  stage.PipelineConfig `validate:"required"`
	Server    ServerConfig         `validate:"required"`
	Cache     CacheConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port         string        `validate:"required,numeric"`
	ReadTimeout  time.Duration `validate:"gt=0"`
	WriteTimeout time.Duration `validate:"gt=0"`
	MaxBodyBytes int64         `validate:"gt=0"`
}

// CacheConfig bounds the stage result cache
type CacheConfig struct {
	Size int `validate:"gte=1,lte=100000"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `validate:"oneof=ERROR WARN INFO DEBUG TRACE"`
}

// TelemetryConfig holds tracing settings
type TelemetryConfig struct {
	TraceStdout bool
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	pipelineConfig, err := loadPipelineConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load pipeline configuration")
	}
	config.Pipeline = *pipelineConfig

	config.Server = ServerConfig{
		Port:         getEnvOrDefault("PORT", "8080"),
		ReadTimeout:  getEnvDurationOrDefault("READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getEnvDurationOrDefault("WRITE_TIMEOUT", 60*time.Second),
		MaxBodyBytes: int64(getEnvIntOrDefault("MAX_BODY_BYTES", 32<<20)),
	}
	config.Cache = CacheConfig{Size: getEnvIntOrDefault("CACHE_SIZE", 128)}
	config.Log = LogConfig{Level: strings.ToUpper(strings.TrimSpace(getEnvOrDefault("LOG_LEVEL", "INFO")))}
	config.Telemetry = TelemetryConfig{TraceStdout: getEnvBoolOrDefault("TRACE_STDOUT", false)}

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Validate checks struct constraints and the descriptor registry
func Validate(config *Config) error {
	if err := validate.Struct(config); err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	normalized, err := config.Pipeline.Normalize()
	if err != nil {
		return errors.Wrap(err, "invalid pipeline configuration")
	}
	config.Pipeline = normalized
	return nil
}

func loadPipelineConfig() (*stage.PipelineConfig, error) {
	cfg := stage.DefaultPipelineConfig()

	names, err := descriptor.ParseList(os.Getenv("DESCRIPTORS"))
	if err != nil {
		return nil, err
	}
	cfg.Descriptors = names

	if value := os.Getenv("POTENCY_CEILING"); value != "" {
		ceiling, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, errors.ConfigInvalid("POTENCY_CEILING must be a number")
		}
		cfg.PotencyCeiling = ceiling
	}
	cfg.RemoveIntermediate = getEnvBoolOrDefault("REMOVE_INTERMEDIATE", cfg.RemoveIntermediate)
	cfg.TestPotency = getEnvBoolOrDefault("TEST_POTENCY", cfg.TestPotency)

	return &cfg, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
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
