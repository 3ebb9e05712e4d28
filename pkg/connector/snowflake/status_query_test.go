package snowflake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parallaxdata/quasar/pkg/config"
	"github.com/parallaxdata/quasar/pkg/connector/core"
)

func TestMapState(t *testing.T) {
	tests := []struct {
		executionStatus string
		want            core.JobState
	}{
		{"QUEUED", core.StatePending},
		{"RESUMING_WAREHOUSE", core.StatePending},
		{"BLOCKED", core.StatePending},
		{"RUNNING", core.StateInProgress},
		{"running", core.StateInProgress},
		{"SUCCESS", core.StateCompleted},
		{"FAILED_WITH_ERROR", core.StateFailed},
		{"FAILED_WITH_INCIDENT", core.StateFailed},
		{"ABORTED", core.StateFailed},
		{"DISCONNECTED", core.StateFailed},
		{"SOMETHING_NEW", core.StateUnknown},
		{"", core.StateUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.executionStatus, func(t *testing.T) {
			assert.Equal(t, tt.want, mapState(tt.executionStatus))
		})
	}
}

func TestBuildDSN(t *testing.T) {
	cfg := config.SnowflakeConfig{
		Account:   "xy12345.eu-west-1",
		User:      "loader",
		Password:  "hunter2",
		Database:  "ANALYTICS",
		Schema:    "PUBLIC",
		Warehouse: "LOAD_WH",
		Role:      "LOADER_ROLE",
	}

	dsn := buildDSN(cfg)
	assert.Equal(t,
		"loader:hunter2@xy12345.eu-west-1/ANALYTICS/PUBLIC?warehouse=LOAD_WH&role=LOADER_ROLE&ocspFailOpen=true&clientSessionKeepAlive=true",
		dsn)
}

func TestBuildDSNWithoutOptionalParams(t *testing.T) {
	cfg := config.SnowflakeConfig{
		Account:  "xy12345",
		User:     "loader",
		Password: "hunter2",
		Database: "ANALYTICS",
		Schema:   "PUBLIC",
	}

	dsn := buildDSN(cfg)
	assert.Equal(t,
		"loader:hunter2@xy12345/ANALYTICS/PUBLIC?ocspFailOpen=true&clientSessionKeepAlive=true",
		dsn)
}

func TestNewStatusQueryRejectsInvalidConfig(t *testing.T) {
	_, err := NewStatusQuery(config.SnowflakeConfig{Account: "only-account"})
	assert.Error(t, err)
}
