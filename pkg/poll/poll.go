// Package poll provides a reusable exponentially-backed-off polling
// scheduler. A Poller repeatedly invokes a caller-supplied probe on a
// background goroutine, growing the inter-probe delay (doubling by
// default) up to a fixed ceiling, until the probe's result says to
// stop, the iteration budget runs out, the probe fails, or the context
// is cancelled. Start returns a Handle the caller can block on, with
// or without a deadline.
//
// Exactly one probe invocation is in flight at a time: the next probe
// is scheduled only after the previous one returns, so invocations of a
// single poller are totally ordered and the stop callback always sees
// the chronologically last result.
package poll

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/parallaxdata/quasar/pkg/errors"
	"github.com/parallaxdata/quasar/pkg/logger"
	"github.com/parallaxdata/quasar/pkg/metrics"
)

// DefaultMaxDelay is the backoff ceiling: the inter-probe delay grows
// exponentially but never exceeds this value.
const DefaultMaxDelay = time.Minute

// Config controls the timing and budget of a polling run.
type Config struct {
	// InitialDelay is the delay before the first probe invocation.
	InitialDelay time.Duration
	// StepDelay is the starting inter-probe delay. It grows by
	// Multiplier after every probe that keeps polling, capped at
	// MaxDelay.
	StepDelay time.Duration
	// MaxDelay caps the inter-probe delay. Zero means DefaultMaxDelay.
	MaxDelay time.Duration
	// Multiplier grows the inter-probe delay after every probe that
	// keeps polling. Zero means the default of 2; 1 keeps the delay
	// constant at StepDelay.
	Multiplier float64
	// MaxIterations caps the number of probe invocations. Exhausting
	// the budget while the stop condition still holds is a
	// timeout-class failure, not a silent success. Zero or negative
	// means unbounded.
	MaxIterations int
}

// Poller repeatedly invokes a probe until its result stops satisfying
// the keep-polling predicate. The zero value is not usable; construct
// with New.
type Poller[R any] struct {
	probe       func(context.Context) (R, error)
	keepPolling func(R) bool
	onStop      func(R)
	cfg         Config
	log         *zap.Logger
}

// New creates a Poller. probe fetches one observation; keepPolling
// returns true while another probe should be scheduled; onStop, if
// non-nil, is invoked exactly once on the scheduler goroutine with the
// last observed result when polling stops normally. onStop is not
// invoked when the probe fails or the iteration budget is exhausted.
func New[R any](
	probe func(context.Context) (R, error),
	keepPolling func(R) bool,
	onStop func(R),
	cfg Config,
) *Poller[R] {
	return &Poller[R]{
		probe:       probe,
		keepPolling: keepPolling,
		onStop:      onStop,
		cfg:         cfg,
		log:         logger.With(zap.String("component", "poller")),
	}
}

// Start begins polling on a background goroutine and returns
// immediately. The returned Handle resolves exactly once, when polling
// terminates for any reason.
func (p *Poller[R]) Start(ctx context.Context) *Handle[R] {
	h := newHandle[R]()
	go p.run(ctx, h)
	return h
}

// run drives the polling loop. A single loop rather than recursive
// rescheduling keeps cancellation a single select per step.
func (p *Poller[R]) run(ctx context.Context, h *Handle[R]) {
	maxDelay := p.cfg.MaxDelay
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}
	multiplier := p.cfg.Multiplier
	if multiplier <= 0 {
		multiplier = 2
	}

	wait := p.cfg.InitialDelay
	delay := p.cfg.StepDelay
	remaining := p.cfg.MaxIterations

	for {
		if err := sleep(ctx, wait); err != nil {
			h.fail(err)
			return
		}

		timer := metrics.NewTimer()
		result, err := p.probe(ctx)
		metrics.ObserveProbe(timer.Stop(), err)

		if err != nil {
			// A probe failure is fatal to the poll, not retried.
			p.log.Error("probe failed, abandoning poll", zap.Error(err))
			h.fail(err)
			return
		}

		h.observe(result)

		if p.cfg.MaxIterations > 0 {
			remaining--
			if remaining <= 0 {
				h.fail(errors.New(errors.ErrorTypeTimeout, "polling iteration budget exhausted").
					WithDetail("max_iterations", p.cfg.MaxIterations))
				return
			}
		}

		if !p.keepPolling(result) {
			if p.onStop != nil {
				p.onStop(result)
			}
			h.complete()
			return
		}

		wait = delay
		delay = nextDelay(delay, maxDelay, multiplier)
		metrics.BackoffDelay.Set(wait.Seconds())
	}
}

// nextDelay grows the current delay by multiplier, capped at ceiling.
// Once at the ceiling the delay stays constant.
func nextDelay(current, ceiling time.Duration, multiplier float64) time.Duration {
	next := time.Duration(float64(current) * multiplier)
	if next > ceiling {
		return ceiling
	}
	return next
}

// sleep blocks for d or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
