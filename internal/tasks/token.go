package tasks

import "sync/atomic"

// CancelToken is a set-once cooperative cancellation flag.
//
// Cancel may be called any number of times from any goroutine; once set the
// token never resets. Workers poll Cancelled between units of work and stop
// before starting the next one.
type CancelToken struct {
	cancelled atomic.Bool
}

// Cancel requests cancellation. Idempotent.
func (t *CancelToken) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether cancellation has been requested.
func (t *CancelToken) Cancelled() bool {
	return t.cancelled.Load()
}
