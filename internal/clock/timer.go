// Package clock provides a frame-driven timer.
//
// A Timer never sleeps. It is advanced by Tick with the timestamp of the
// current frame and measures elapsed wall-clock time from the first frame it
// sees, so its accuracy is bounded by the frame rate of whoever calls Tick.
package clock

import (
	"errors"
	"time"
)

// ErrTimerActive is returned when Schedule is called on a running timer.
var ErrTimerActive = errors.New("timer already active")

// Timer runs one timed phase at a time.
type Timer struct {
	duration   time.Duration
	onTick     func(remaining time.Duration)
	onComplete func()

	start   time.Time
	started bool
	active  bool
}

// Schedule arms the timer. onTick may be nil. The timer starts counting on
// the next Tick.
func (t *Timer) Schedule(d time.Duration, onTick func(remaining time.Duration), onComplete func()) error {
	if t.active {
		return ErrTimerActive
	}
	if d < 0 {
		d = 0
	}
	t.duration = d
	t.onTick = onTick
	t.onComplete = onComplete
	t.started = false
	t.start = time.Time{}
	t.active = true
	return nil
}

// Cancel stops the timer. No callback fires after Cancel returns.
func (t *Timer) Cancel() {
	t.active = false
	t.onTick = nil
	t.onComplete = nil
}

// Active reports whether the timer is armed.
func (t *Timer) Active() bool {
	return t.active
}

// Remaining returns the time left, or the full duration before the first tick.
func (t *Timer) Remaining(now time.Time) time.Duration {
	if !t.active {
		return 0
	}
	if !t.started {
		return t.duration
	}
	left := t.duration - now.Sub(t.start)
	if left < 0 {
		return 0
	}
	return left
}

// Tick advances the timer to now.
func (t *Timer) Tick(now time.Time) {
	if !t.active {
		return
	}
	if !t.started {
		t.start = now
		t.started = true
	}
	elapsed := now.Sub(t.start)
	remaining := t.duration - elapsed
	if remaining < 0 {
		remaining = 0
	}
	if t.onTick != nil {
		t.onTick(remaining)
		// onTick may cancel.
		if !t.active {
			return
		}
	}
	if elapsed < t.duration {
		return
	}
	done := t.onComplete
	t.active = false
	t.onTick = nil
	t.onComplete = nil
	if done != nil {
		done()
	}
}
