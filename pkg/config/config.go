// Package config provides the unified configuration for Quasar.
// A single Config structure covers service selection, warehouse
// credentials, polling behavior and logging, and is loaded from YAML
// with environment-variable substitution.
package config

import (
	"fmt"
	"time"
)

// Service names accepted in Config.Service.
const (
	ServiceSnowflake = "snowflake"
	ServiceBigQuery  = "bigquery"
)

// Config is the top-level configuration for the connector layer.
type Config struct {
	// Service selects the warehouse backend: "snowflake" or "bigquery".
	Service string `yaml:"service" json:"service"`

	// Snowflake holds the Snowflake connection settings.
	Snowflake SnowflakeConfig `yaml:"snowflake" json:"snowflake"`

	// BigQuery holds the BigQuery connection settings.
	BigQuery BigQueryConfig `yaml:"bigquery" json:"bigquery"`

	// Polling controls the completion-verification loop.
	Polling PollingConfig `yaml:"polling" json:"polling"`

	// Logging configures the structured logger.
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SnowflakeConfig contains Snowflake connection settings.
type SnowflakeConfig struct {
	Account   string `yaml:"account" json:"account"`
	User      string `yaml:"user" json:"user"`
	Password  string `yaml:"password" json:"password"`
	Database  string `yaml:"database" json:"database"`
	Schema    string `yaml:"schema" json:"schema"`
	Warehouse string `yaml:"warehouse" json:"warehouse"`
	Role      string `yaml:"role" json:"role"`
	// MaxOpenConns caps the connection pool; 0 uses the default.
	MaxOpenConns int `yaml:"max_open_conns" json:"max_open_conns"`
}

// Validate checks the fields required to build a DSN.
func (s *SnowflakeConfig) Validate() error {
	if s.Account == "" {
		return fmt.Errorf("snowflake account is required")
	}
	if s.User == "" {
		return fmt.Errorf("snowflake user is required")
	}
	if s.Database == "" {
		return fmt.Errorf("snowflake database is required")
	}
	if s.Schema == "" {
		return fmt.Errorf("snowflake schema is required")
	}
	return nil
}

// PoolSize returns the configured pool size, defaulting to 4.
func (s *SnowflakeConfig) PoolSize() int {
	if s.MaxOpenConns <= 0 {
		return 4
	}
	return s.MaxOpenConns
}

// BigQueryConfig contains BigQuery connection settings.
type BigQueryConfig struct {
	ProjectID string `yaml:"project_id" json:"project_id"`
}

// PollingConfig controls how job completion is awaited.
type PollingConfig struct {
	// SamplePeriod is the starting inter-poll delay; values below one
	// second are clamped upward by the verifier.
	SamplePeriod time.Duration `yaml:"sample_period" json:"sample_period"`
	// OverallTimeout bounds the whole wait; zero or negative means no
	// limit.
	OverallTimeout time.Duration `yaml:"overall_timeout" json:"overall_timeout"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level       string `yaml:"level" json:"level"`
	Development bool   `yaml:"development" json:"development"`
	Encoding    string `yaml:"encoding" json:"encoding"` // json or console
}

// Default returns a Config with production-ready defaults.
func Default() *Config {
	return &Config{
		Service: ServiceSnowflake,
		Polling: PollingConfig{
			SamplePeriod:   2 * time.Second,
			OverallTimeout: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// Validate validates the configuration for correctness.
func (c *Config) Validate() error {
	switch c.Service {
	case ServiceSnowflake:
		if err := c.Snowflake.Validate(); err != nil {
			return err
		}
	case ServiceBigQuery:
		if c.BigQuery.ProjectID == "" {
			return fmt.Errorf("bigquery project_id is required")
		}
	default:
		return fmt.Errorf("unknown service %q", c.Service)
	}
	if c.Polling.SamplePeriod < 0 {
		return fmt.Errorf("sample_period cannot be negative")
	}
	return nil
}
