// Package calibrate measures how often the host actually delivers frames so
// the speed floor never drops below one visible frame.
package calibrate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/verte-zerg/glyphflash/internal/scoring"
)

// ErrNoSamples is returned when nothing was measured.
var ErrNoSamples = errors.New("no frame samples")

// Result is a finished measurement.
type Result struct {
	Samples int
	Median  time.Duration
	Floor   time.Duration
}

// Measure ticks at interval until n deltas are collected or ctx ends, and
// reduces them with Floor.
func Measure(ctx context.Context, interval time.Duration, n int) (Result, error) {
	if interval <= 0 {
		return Result{}, fmt.Errorf("interval must be positive")
	}
	if n < 1 {
		n = 1
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	samples := make([]time.Duration, 0, n)
	last := time.Now()
	for len(samples) < n {
		select {
		case <-ctx.Done():
			if len(samples) == 0 {
				return Result{}, fmt.Errorf("failed to calibrate: %w", ctx.Err())
			}
			return reduce(samples)
		case now := <-ticker.C:
			samples = append(samples, now.Sub(last))
			last = now
		}
	}
	return reduce(samples)
}

func reduce(samples []time.Duration) (Result, error) {
	median, err := Median(samples)
	if err != nil {
		return Result{}, err
	}
	return Result{Samples: len(samples), Median: median, Floor: Floor(median)}, nil
}

// Median returns the middle sample, averaging the two middle ones for an
// even count. samples is not modified.
func Median(samples []time.Duration) (time.Duration, error) {
	if len(samples) == 0 {
		return 0, ErrNoSamples
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], nil
	}
	return (sorted[mid-1] + sorted[mid]) / 2, nil
}

// Floor turns a frame interval into a speed floor: the interval rounded up
// to the millisecond, never below the stock minimum.
func Floor(frame time.Duration) time.Duration {
	floor := ((frame + time.Millisecond - 1) / time.Millisecond) * time.Millisecond
	if floor < scoring.DefaultMinSpeed {
		return scoring.DefaultMinSpeed
	}
	return floor
}
