// Package config loads and validates chronograph's YAML configuration:
// shard count, snapshot location, and the two API servers' listen
// addresses. It follows the teacher corpus's validator.v10 struct-tag
// convention rather than hand-rolling field-by-field checks.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// GraphConfig is chronograph's top-level configuration.
type GraphConfig struct {
	ShardCount int             `yaml:"shard_count" validate:"required,min=1"`
	Snapshot   SnapshotConfig  `yaml:"snapshot"`
	Metrics    MetricsConfig   `yaml:"metrics"`
	Ingest     IngestConfig    `yaml:"ingest"`
	GraphQL    GraphQLConfig   `yaml:"graphql"`
	Log        LogConfig       `yaml:"log"`
}

// SnapshotConfig describes where periodic snapshots are written.
type SnapshotConfig struct {
	Path     string        `yaml:"path" validate:"omitempty"`
	Interval time.Duration `yaml:"interval" validate:"omitempty"`
	S3Bucket string        `yaml:"s3_bucket" validate:"omitempty"`
	S3Region string        `yaml:"s3_region" validate:"omitempty"`
	S3Key    string        `yaml:"s3_key" validate:"omitempty"`
}

// MetricsConfig configures the Prometheus exposition endpoint.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr" validate:"omitempty,hostname_port|ip4_addr"`
	Path       string `yaml:"path" validate:"omitempty"`
}

// IngestConfig configures the JWT-secured ingestion facade.
type IngestConfig struct {
	ListenAddr string `yaml:"listen_addr" validate:"omitempty,hostname_port|ip4_addr"`
	JWTSecret  string `yaml:"jwt_secret" validate:"omitempty,min=16"`
}

// GraphQLConfig configures the read-only GraphQL surface.
type GraphQLConfig struct {
	ListenAddr string `yaml:"listen_addr" validate:"omitempty,hostname_port|ip4_addr"`
	Path       string `yaml:"path" validate:"omitempty"`
}

// LogConfig configures the default logger.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// Default returns a GraphConfig with sane single-process defaults.
func Default() *GraphConfig {
	return &GraphConfig{
		ShardCount: 16,
		Snapshot: SnapshotConfig{
			Path:     "chronograph.snapshot",
			Interval: 5 * time.Minute,
		},
		Metrics: MetricsConfig{
			ListenAddr: "127.0.0.1:9090",
			Path:       "/metrics",
		},
		Ingest: IngestConfig{
			ListenAddr: "127.0.0.1:8080",
		},
		GraphQL: GraphQLConfig{
			ListenAddr: "127.0.0.1:8081",
			Path:       "/graphql",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file at path, merges it over Default, and
// validates the result.
func Load(path string) (*GraphConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate runs struct-tag validation over the config, returning the first
// failure in a readable form.
func (c *GraphConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	if err == nil {
		return nil
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()
		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}
	return err
}
