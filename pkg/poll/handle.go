package poll

import (
	"sync"
	"time"
)

// Handle is the completion signal for a polling run. It is resolved
// exactly once by the scheduler goroutine; re-resolving an already
// resolved handle is a no-op. Callers block on Wait or WaitTimeout.
type Handle[R any] struct {
	done chan struct{}

	mu       sync.Mutex
	resolved bool
	err      error
	last     R
	observed bool
}

func newHandle[R any]() *Handle[R] {
	return &Handle[R]{done: make(chan struct{})}
}

// observe records the most recent probe result.
func (h *Handle[R]) observe(r R) {
	h.mu.Lock()
	h.last = r
	h.observed = true
	h.mu.Unlock()
}

// complete resolves the handle on the success path.
func (h *Handle[R]) complete() {
	h.resolve(nil)
}

// fail resolves the handle with a terminal error, releasing any
// blocked waiters.
func (h *Handle[R]) fail(err error) {
	h.resolve(err)
}

func (h *Handle[R]) resolve(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.resolved {
		return
	}
	h.resolved = true
	h.err = err
	close(h.done)
}

// Wait blocks until the handle resolves and returns the terminal
// error, if any. With an unbounded poller and a job that never leaves
// its in-progress state this blocks forever; callers that need a bound
// use WaitTimeout.
func (h *Handle[R]) Wait() error {
	<-h.done
	return h.Err()
}

// WaitTimeout blocks up to timeout. It reports whether the handle
// resolved in time; the error is meaningful only when resolved is
// true. On a false return the poll keeps running in the background
// until its own budget or stop condition ends it.
func (h *Handle[R]) WaitTimeout(timeout time.Duration) (resolved bool, err error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-h.done:
		return true, h.Err()
	case <-timer.C:
		return false, nil
	}
}

// Done returns a channel closed when the handle resolves.
func (h *Handle[R]) Done() <-chan struct{} {
	return h.done
}

// Err returns the terminal error once the handle has resolved, nil
// before resolution or on the success path.
func (h *Handle[R]) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Last returns the most recent probe result, and whether any probe has
// produced one.
func (h *Handle[R]) Last() (R, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last, h.observed
}
