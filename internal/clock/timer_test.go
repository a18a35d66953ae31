package clock

import (
	"errors"
	"testing"
	"time"
)

func at(ms int) time.Time {
	return time.Unix(0, 0).Add(time.Duration(ms) * time.Millisecond)
}

func TestTimerCompletesOnce(t *testing.T) {
	var tm Timer
	completed := 0
	var ticks []time.Duration
	err := tm.Schedule(100*time.Millisecond, func(remaining time.Duration) {
		ticks = append(ticks, remaining)
	}, func() {
		completed++
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	for _, ms := range []int{1000, 1016, 1050, 1099, 1100, 1116, 1200} {
		tm.Tick(at(ms))
	}
	if completed != 1 {
		t.Fatalf("expected one completion, got %d", completed)
	}
	if tm.Active() {
		t.Fatalf("expected timer inactive after completion")
	}
	want := []time.Duration{100, 84, 50, 1, 0}
	if len(ticks) != len(want) {
		t.Fatalf("expected %d ticks, got %d (%v)", len(want), len(ticks), ticks)
	}
	for i, w := range want {
		if ticks[i] != w*time.Millisecond {
			t.Fatalf("tick %d: expected %v, got %v", i, w*time.Millisecond, ticks[i])
		}
	}
}

func TestTimerCancelSuppressesCallbacks(t *testing.T) {
	var tm Timer
	fired := false
	if err := tm.Schedule(10*time.Millisecond, func(time.Duration) { fired = true }, func() { fired = true }); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	tm.Cancel()
	tm.Tick(at(0))
	tm.Tick(at(100))
	if fired {
		t.Fatalf("expected no callbacks after cancel")
	}
}

func TestTimerRejectsOverlappingSchedule(t *testing.T) {
	var tm Timer
	if err := tm.Schedule(time.Second, nil, func() {}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := tm.Schedule(time.Second, nil, func() {}); !errors.Is(err, ErrTimerActive) {
		t.Fatalf("expected ErrTimerActive, got %v", err)
	}
	tm.Cancel()
	if err := tm.Schedule(time.Second, nil, func() {}); err != nil {
		t.Fatalf("expected schedule after cancel to succeed: %v", err)
	}
}

func TestTimerCompletionMayReschedule(t *testing.T) {
	var tm Timer
	rounds := 0
	var arm func()
	arm = func() {
		if err := tm.Schedule(10*time.Millisecond, nil, func() {
			rounds++
			if rounds < 3 {
				arm()
			}
		}); err != nil {
			t.Fatalf("schedule: %v", err)
		}
	}
	arm()
	for ms := 0; ms <= 100; ms += 5 {
		tm.Tick(at(ms))
	}
	if rounds != 3 {
		t.Fatalf("expected 3 chained completions, got %d", rounds)
	}
}

func TestTimerZeroDurationCompletesOnFirstTick(t *testing.T) {
	var tm Timer
	done := false
	if err := tm.Schedule(0, nil, func() { done = true }); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	tm.Tick(at(5))
	if !done {
		t.Fatalf("expected completion on first tick")
	}
}

func TestTimerRemaining(t *testing.T) {
	var tm Timer
	if err := tm.Schedule(3*time.Second, nil, func() {}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if got := tm.Remaining(at(0)); got != 3*time.Second {
		t.Fatalf("expected full duration before first tick, got %v", got)
	}
	tm.Tick(at(0))
	if got := tm.Remaining(at(1200)); got != 1800*time.Millisecond {
		t.Fatalf("expected 1.8s remaining, got %v", got)
	}
}
