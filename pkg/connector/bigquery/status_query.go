// Package bigquery implements core.StatusQuery for Google BigQuery.
// BigQuery jobs (loads, exports, queries) are identified by job id; one
// fetch is a jobs.get call through the official client.
package bigquery

import (
	"context"

	"cloud.google.com/go/bigquery"
	"go.uber.org/zap"

	"github.com/parallaxdata/quasar/pkg/connector/core"
	"github.com/parallaxdata/quasar/pkg/errors"
	"github.com/parallaxdata/quasar/pkg/logger"
)

// StatusQuery fetches job status from BigQuery.
type StatusQuery struct {
	client *bigquery.Client
	log    *zap.Logger
}

// NewStatusQuery creates a BigQuery-backed status query for the given
// project. Credentials are resolved through Application Default
// Credentials.
func NewStatusQuery(ctx context.Context, projectID string) (*StatusQuery, error) {
	if projectID == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "bigquery project id is required")
	}

	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to create bigquery client")
	}

	return &StatusQuery{
		client: client,
		log:    logger.With(zap.String("component", "bigquery_status_query"), zap.String("project_id", projectID)),
	}, nil
}

// Fetch issues one status check for the job.
func (q *StatusQuery) Fetch(ctx context.Context, job core.JobHandle) (core.JobStatus, error) {
	bqJob, err := q.client.JobFromID(ctx, string(job))
	if err != nil {
		return core.JobStatus{}, errors.Wrap(err, errors.ErrorTypeQuery, "failed to look up bigquery job").
			WithDetail("job_id", string(job))
	}

	status, err := bqJob.Status(ctx)
	if err != nil {
		return core.JobStatus{}, errors.Wrap(err, errors.ErrorTypeQuery, "failed to fetch bigquery job status").
			WithDetail("job_id", string(job))
	}

	return core.JobStatus{
		State:       mapState(status),
		Detail:      statusDetail(status),
		OperationID: bqJob.ID(),
	}, nil
}

// Close releases the underlying client.
func (q *StatusQuery) Close() error {
	return q.client.Close()
}

// mapState converts a BigQuery job status into a JobState.
func mapState(status *bigquery.JobStatus) core.JobState {
	switch status.State {
	case bigquery.Pending:
		return core.StatePending
	case bigquery.Running:
		return core.StateInProgress
	case bigquery.Done:
		if status.Err() != nil {
			return core.StateFailed
		}
		return core.StateCompleted
	default:
		return core.StateUnknown
	}
}

// statusDetail extracts the terminal error text, if any.
func statusDetail(status *bigquery.JobStatus) string {
	if err := status.Err(); err != nil {
		return err.Error()
	}
	return ""
}
