// Package snowflake implements core.StatusQuery for Snowflake.
// Asynchronous Snowflake statements are tracked by query id; one fetch
// is a single-row lookup against INFORMATION_SCHEMA.QUERY_HISTORY.
package snowflake

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/parallaxdata/quasar/pkg/config"
	"github.com/parallaxdata/quasar/pkg/connector/core"
	"github.com/parallaxdata/quasar/pkg/errors"
	"github.com/parallaxdata/quasar/pkg/logger"

	// Snowflake driver
	_ "github.com/snowflakedb/gosnowflake"
)

// statusSQL returns at most one row: execution status, error message
// and query id for the given query id, scoped to the current session's
// history.
const statusSQL = `SELECT EXECUTION_STATUS, COALESCE(ERROR_MESSAGE, ''), QUERY_ID
FROM TABLE(INFORMATION_SCHEMA.QUERY_HISTORY())
WHERE QUERY_ID = ?`

// StatusQuery fetches job status from Snowflake over a pooled
// database/sql connection.
type StatusQuery struct {
	db  *sql.DB
	log *zap.Logger
}

// NewStatusQuery opens a connection pool against the configured
// Snowflake account. The pool is lazy; use Ping to validate
// connectivity eagerly.
func NewStatusQuery(cfg config.SnowflakeConfig) (*StatusQuery, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid snowflake configuration")
	}

	db, err := sql.Open("snowflake", buildDSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to open snowflake connection pool")
	}

	db.SetMaxOpenConns(cfg.PoolSize())
	db.SetMaxIdleConns(cfg.PoolSize() / 2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &StatusQuery{
		db:  db,
		log: logger.With(zap.String("component", "snowflake_status_query"), zap.String("account", cfg.Account)),
	}, nil
}

// Ping verifies connectivity to Snowflake.
func (q *StatusQuery) Ping(ctx context.Context) error {
	if err := q.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to ping snowflake")
	}
	return nil
}

// Fetch issues one status check for the job.
func (q *StatusQuery) Fetch(ctx context.Context, job core.JobHandle) (core.JobStatus, error) {
	var executionStatus, errorMessage, queryID string

	row := q.db.QueryRowContext(ctx, statusSQL, string(job))
	if err := row.Scan(&executionStatus, &errorMessage, &queryID); err != nil {
		if err == sql.ErrNoRows {
			// The query id is not visible in session history yet;
			// report unknown rather than failing the poll.
			q.log.Warn("query id not found in history", zap.String("job_id", string(job)))
			return core.JobStatus{State: core.StateUnknown, OperationID: string(job)}, nil
		}
		return core.JobStatus{}, errors.Wrap(err, errors.ErrorTypeQuery, "failed to fetch query status").
			WithDetail("job_id", string(job))
	}

	return core.JobStatus{
		State:       mapState(executionStatus),
		Detail:      errorMessage,
		OperationID: queryID,
	}, nil
}

// Close releases the connection pool.
func (q *StatusQuery) Close() error {
	return q.db.Close()
}

// mapState converts a Snowflake EXECUTION_STATUS into a JobState.
func mapState(executionStatus string) core.JobState {
	switch strings.ToUpper(executionStatus) {
	case "QUEUED", "QUEUED_REPAIRING_WAREHOUSE", "RESUMING_WAREHOUSE", "BLOCKED":
		return core.StatePending
	case "RUNNING":
		return core.StateInProgress
	case "SUCCESS":
		return core.StateCompleted
	case "FAILED_WITH_ERROR", "FAILED_WITH_INCIDENT", "ABORTED", "ABORTING", "DISCONNECTED":
		return core.StateFailed
	default:
		return core.StateUnknown
	}
}

// buildDSN builds a gosnowflake connection string.
// Format: username:password@account/database/schema?warehouse=wh&role=role
func buildDSN(cfg config.SnowflakeConfig) string {
	dsn := fmt.Sprintf("%s:%s@%s/%s/%s",
		cfg.User, cfg.Password, cfg.Account, cfg.Database, cfg.Schema)

	params := []string{}
	if cfg.Warehouse != "" {
		params = append(params, fmt.Sprintf("warehouse=%s", cfg.Warehouse))
	}
	if cfg.Role != "" {
		params = append(params, fmt.Sprintf("role=%s", cfg.Role))
	}

	params = append(params, "ocspFailOpen=true")
	params = append(params, "clientSessionKeepAlive=true")

	return dsn + "?" + strings.Join(params, "&")
}
