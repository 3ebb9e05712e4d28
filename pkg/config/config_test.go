package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	cfg.Snowflake = SnowflakeConfig{
		Account:  "xy12345",
		User:     "loader",
		Database: "ANALYTICS",
		Schema:   "PUBLIC",
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config with credentials to validate, got %v", err)
	}
}

func TestValidateRejectsUnknownService(t *testing.T) {
	cfg := Default()
	cfg.Service = "redshift"

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown service")
	}
}

func TestValidateRequiresBigQueryProject(t *testing.T) {
	cfg := Default()
	cfg.Service = ServiceBigQuery

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing project_id")
	}
}

func TestSnowflakeValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       SnowflakeConfig
		wantError bool
	}{
		{
			name: "complete",
			cfg: SnowflakeConfig{
				Account: "xy12345", User: "u", Database: "db", Schema: "public",
			},
			wantError: false,
		},
		{
			name:      "missing account",
			cfg:       SnowflakeConfig{User: "u", Database: "db", Schema: "public"},
			wantError: true,
		},
		{
			name:      "missing schema",
			cfg:       SnowflakeConfig{Account: "xy12345", User: "u", Database: "db"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestPoolSizeDefault(t *testing.T) {
	cfg := SnowflakeConfig{}
	if got := cfg.PoolSize(); got != 4 {
		t.Errorf("expected default pool size 4, got %d", got)
	}

	cfg.MaxOpenConns = 16
	if got := cfg.PoolSize(); got != 16 {
		t.Errorf("expected pool size 16, got %d", got)
	}
}

func TestLoadSubstitutesEnvVars(t *testing.T) {
	t.Setenv("QUASAR_TEST_PASSWORD", "s3cret")

	content := `service: snowflake
snowflake:
  account: xy12345
  user: loader
  password: ${QUASAR_TEST_PASSWORD}
  database: ANALYTICS
  schema: PUBLIC
polling:
  sample_period: 3s
  overall_timeout: 15m
`
	path := filepath.Join(t.TempDir(), "quasar.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := Load(path, cfg); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Snowflake.Password != "s3cret" {
		t.Errorf("expected env-substituted password, got %q", cfg.Snowflake.Password)
	}
	if cfg.Polling.SamplePeriod != 3*time.Second {
		t.Errorf("expected 3s sample period, got %v", cfg.Polling.SamplePeriod)
	}
	if cfg.Polling.OverallTimeout != 15*time.Minute {
		t.Errorf("expected 15m overall timeout, got %v", cfg.Polling.OverallTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config failed validation: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg := Default()
	if err := Load("/nonexistent/quasar.yaml", cfg); err == nil {
		t.Error("expected error for missing file")
	}
}
