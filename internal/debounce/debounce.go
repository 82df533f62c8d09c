// Package debounce coalesces bursts of triggers into a single call.
package debounce

import (
	"sync"
	"time"
)

// Debouncer calls fn once delay has elapsed since the last Trigger.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func()
	timer   *time.Timer
	gen     uint64
	pending bool
	stopped bool
}

// New creates a debouncer. Nothing runs until Trigger is called.
func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{
		delay: delay,
		fn:    fn,
	}
}

// Trigger (re)arms the timer, cancelling a call that has not fired yet.
// It does nothing once the debouncer is stopped.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.pending = true
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(gen)
	})
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// a newer trigger or a stop superseded this timer
	if d.stopped || gen != d.gen {
		d.mu.Unlock()

		return
	}

	d.pending = false
	d.mu.Unlock()

	d.fn()
}

// Pending reports whether a call is scheduled and has not fired yet.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.pending
}

// Stop cancels the pending call, if any, and disables further triggers.
// A call already running is not interrupted.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.pending = false

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
