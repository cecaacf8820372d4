// Package watch provides change coalescing and database file monitoring.
package watch

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is how long input must stay idle before a pending
// trigger fires. Matches the autosave delay used for list renames.
const DefaultQuietPeriod = 1 * time.Second

// Debouncer coalesces bursts of Trigger calls into a single callback
// invocation, fired once the quiet period elapses without a new trigger.
// The callback runs on a timer goroutine.
type Debouncer struct {
	quiet time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewDebouncer returns a debouncer that calls fn after quiet period of
// inactivity. A non-positive quiet period falls back to DefaultQuietPeriod.
func NewDebouncer(quiet time.Duration, fn func()) *Debouncer {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Debouncer{quiet: quiet, fn: fn}
}

// Trigger schedules the callback, resetting the countdown if one is
// already pending. Calls after Stop are ignored.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}

// Flush fires a pending trigger immediately instead of waiting out the
// quiet period. No-op if nothing is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.timer != nil && d.timer.Stop()
	if pending {
		d.timer = nil
	}
	stopped := d.stopped
	d.mu.Unlock()

	if pending && !stopped {
		d.fn()
	}
}

// Stop cancels any pending trigger and makes further triggers no-ops.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
