package calibrate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/glyphflash/internal/scoring"
)

func TestMedian(t *testing.T) {
	odd := []time.Duration{30, 10, 20}
	if got, err := Median(odd); err != nil || got != 20 {
		t.Fatalf("expected 20, got %v (%v)", got, err)
	}
	if odd[0] != 30 {
		t.Fatalf("input was reordered")
	}
	if got, _ := Median([]time.Duration{10, 40, 20, 30}); got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
	if _, err := Median(nil); !errors.Is(err, ErrNoSamples) {
		t.Fatalf("expected ErrNoSamples, got %v", err)
	}
}

func TestFloor(t *testing.T) {
	if got := Floor(16600 * time.Microsecond); got != scoring.DefaultMinSpeed {
		t.Fatalf("expected stock floor for 60Hz, got %v", got)
	}
	if got := Floor(33300 * time.Microsecond); got != 34*time.Millisecond {
		t.Fatalf("expected 34ms for 30Hz, got %v", got)
	}
	if got := Floor(40 * time.Millisecond); got != 40*time.Millisecond {
		t.Fatalf("expected exact ms to stay, got %v", got)
	}
}

func TestMeasure(t *testing.T) {
	res, err := Measure(context.Background(), 2*time.Millisecond, 5)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if res.Samples != 5 || res.Median <= 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Floor < scoring.DefaultMinSpeed {
		t.Fatalf("floor %v below stock minimum", res.Floor)
	}
}

func TestMeasureCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Measure(ctx, time.Hour, 3); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
