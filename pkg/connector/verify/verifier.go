// Package verify monitors a long-running remote warehouse job until it
// finishes, fails, or times out. It layers the backoff scheduler from
// pkg/poll over a connector-provided StatusQuery and converts the last
// observed status into a structured error.
package verify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/parallaxdata/quasar/pkg/connector/core"
	"github.com/parallaxdata/quasar/pkg/errors"
	"github.com/parallaxdata/quasar/pkg/logger"
	"github.com/parallaxdata/quasar/pkg/metrics"
	"github.com/parallaxdata/quasar/pkg/poll"
)

const (
	// minSamplePeriod is the floor for the polling period. A zero or
	// sub-second period is clamped upward to avoid a busy loop.
	minSamplePeriod = time.Second

	// budgetMargin is added to the derived iteration budget so the
	// scheduler's own cap does not race the explicit timeout check.
	budgetMargin = 5
)

// Verifier awaits the completion of remote jobs through a StatusQuery.
// It is stateless and safe for concurrent use.
type Verifier struct {
	query core.StatusQuery
	log   *zap.Logger
}

// New creates a Verifier over the given status query.
func New(query core.StatusQuery) *Verifier {
	return &Verifier{
		query: query,
		log:   logger.With(zap.String("component", "verifier")),
	}
}

// Await polls the job's status until the job leaves its in-progress
// state, then returns the final outcome. With a finite overallTimeout
// the status is sampled every samplePeriod; with no timeout the
// sampling delay doubles after each probe, capped at one minute.
//
// samplePeriod is clamped to at least one second. overallTimeout <= 0
// means no limit: Await then blocks until the job resolves, which can
// be forever if the remote job never leaves in-progress — the accepted
// trade-off for "no timeout requested".
//
// The returned error is nil only when the job completed successfully.
// Timeouts (including an exhausted iteration budget) carry
// errors.ErrorTypeTimeout; a failed or unrecognized terminal state
// carries errors.ErrorTypeOperation with the operation id, state and
// status detail; a status query failure is propagated as a query error
// without further polling.
func (v *Verifier) Await(
	ctx context.Context,
	job core.JobHandle,
	samplePeriod time.Duration,
	overallTimeout time.Duration,
) (core.Outcome, error) {
	if samplePeriod < minSamplePeriod {
		samplePeriod = minSamplePeriod
	}

	maxIterations := 0
	if overallTimeout > 0 {
		maxIterations = iterationBudget(overallTimeout, samplePeriod)
	}

	v.log.Info("awaiting remote job completion",
		zap.String("job_id", string(job)),
		zap.Duration("sample_period", samplePeriod),
		zap.Duration("overall_timeout", overallTimeout),
		zap.Int("max_iterations", maxIterations))

	probe := func(ctx context.Context) (core.JobStatus, error) {
		return v.query.Fetch(ctx, job)
	}
	// Pending counts as still running: a queued job has not reached a
	// terminal state yet.
	keepPolling := func(s core.JobStatus) bool {
		return s.State == core.StateInProgress || s.State == core.StatePending
	}
	onStop := func(s core.JobStatus) {
		v.log.Debug("job left in-progress state",
			zap.String("job_id", string(job)),
			zap.String("operation_id", s.OperationID),
			zap.String("state", string(s.State)))
	}

	// With a finite timeout the job is sampled at a constant rate so
	// the derived iteration budget tracks the timeout; without one the
	// delay backs off exponentially up to the one-minute ceiling.
	multiplier := 2.0
	if overallTimeout > 0 {
		multiplier = 1.0
	}

	handle := poll.New(probe, keepPolling, onStop, poll.Config{
		InitialDelay:  samplePeriod,
		StepDelay:     samplePeriod,
		Multiplier:    multiplier,
		MaxIterations: maxIterations,
	}).Start(ctx)

	outcome, err := v.awaitHandle(handle, job, overallTimeout)
	if err != nil {
		return outcome, err
	}

	last := outcome.LastStatus
	if last == nil {
		// Polling stopped without a single observation; the scheduler
		// only does this on a fault path, so treat it as one.
		metrics.Verifications.WithLabelValues("fault").Inc()
		return outcome, errors.New(errors.ErrorTypeInternal, "poll resolved without observing a status").
			WithDetail("job_id", string(job))
	}

	if last.State != core.StateCompleted {
		metrics.Verifications.WithLabelValues("failed").Inc()
		return outcome, errors.New(errors.ErrorTypeOperation, "remote operation did not complete").
			WithDetail("job_id", string(job)).
			WithDetail("operation_id", last.OperationID).
			WithDetail("state", string(last.State)).
			WithDetail("detail", last.Detail)
	}

	metrics.Verifications.WithLabelValues("completed").Inc()
	v.log.Info("remote job completed",
		zap.String("job_id", string(job)),
		zap.String("operation_id", last.OperationID))
	return outcome, nil
}

// awaitHandle blocks on the wait handle, bounded by overallTimeout when
// one was requested, and maps scheduler-level failures onto the error
// taxonomy.
func (v *Verifier) awaitHandle(
	handle *poll.Handle[core.JobStatus],
	job core.JobHandle,
	overallTimeout time.Duration,
) (core.Outcome, error) {
	var err error
	if overallTimeout > 0 {
		var resolved bool
		resolved, err = handle.WaitTimeout(overallTimeout)
		if !resolved {
			// The background poll keeps running until its iteration
			// budget ends it; its delayed result is discarded.
			metrics.Verifications.WithLabelValues("timeout").Inc()
			return core.Outcome{TimedOut: true},
				errors.New(errors.ErrorTypeTimeout, "job did not complete within timeout").
					WithDetail("job_id", string(job)).
					WithDetail("timeout", overallTimeout.String())
		}
	} else {
		err = handle.Wait()
	}

	outcome := core.Outcome{Resolved: true}
	if last, ok := handle.Last(); ok {
		status := last
		outcome.LastStatus = &status
	}

	if err != nil {
		if errors.IsType(err, errors.ErrorTypeTimeout) {
			metrics.Verifications.WithLabelValues("timeout").Inc()
			outcome.TimedOut = true
			return outcome, errors.Wrap(err, errors.ErrorTypeTimeout, "polling budget exhausted before job completed").
				WithDetail("job_id", string(job))
		}
		metrics.Verifications.WithLabelValues("fault").Inc()
		return outcome, errors.Wrap(err, errors.ErrorTypeQuery, "status probe failed").
			WithDetail("job_id", string(job))
	}

	return outcome, nil
}

// iterationBudget derives the scheduler's probe budget from the overall
// timeout: floor(timeout / period) plus a small safety margin.
func iterationBudget(overallTimeout, samplePeriod time.Duration) int {
	return int(overallTimeout/samplePeriod) + budgetMargin
}
