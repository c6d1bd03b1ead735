// Package debounce delays invocation of a function until a quiet period has
// elapsed since the most recent call, replacing any still-pending invocation.
// Only the last call inside a quiet window ever reaches the wrapped function.
package debounce

import (
	"sync"
	"time"
)

// Debouncer wraps a function of one argument with a quiet-period timer.
// Each Call resets the timer; when it finally fires, the wrapped function
// runs on the timer goroutine with the most recent argument. There is no
// queuing: superseded calls are dropped, not coalesced.
type Debouncer[T any] struct {
	mu    sync.Mutex
	wait  time.Duration
	fn    func(T)
	timer *time.Timer
}

// New creates a Debouncer around fn with the given quiet period.
func New[T any](wait time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		wait: wait,
		fn:   fn,
	}
}

// Call schedules fn(arg) after the quiet period, cancelling any pending
// invocation first. Calling again from inside fn schedules a fresh,
// independent timer.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() {
		d.fn(arg)
	})
}

// Stop cancels the pending invocation, if any. It reports whether a pending
// invocation was actually cancelled. It does not wait for a function that
// has already started running.
func (d *Debouncer[T]) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	stopped := d.timer.Stop()
	d.timer = nil
	return stopped
}

// Wait returns the configured quiet period.
func (d *Debouncer[T]) Wait() time.Duration {
	return d.wait
}
