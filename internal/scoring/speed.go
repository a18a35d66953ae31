package scoring

import "time"

// Speed tuning, in milliseconds.
const (
	DefaultInitialSpeed = 300 * time.Millisecond
	DefaultMinSpeed     = 20 * time.Millisecond
	DefaultMaxSpeed     = 700 * time.Millisecond

	correctDecreaseMs = 25.0
	perfectBoostMs    = 20.0
	mistakePenalty    = 30 * time.Millisecond

	fastBandMs  = 100.0
	floorBandMs = 50.0
)

// Limits bounds the display speed.
type Limits struct {
	Initial time.Duration
	Min     time.Duration
	Max     time.Duration
}

// DefaultLimits returns the stock speed bounds.
func DefaultLimits() Limits {
	return Limits{Initial: DefaultInitialSpeed, Min: DefaultMinSpeed, Max: DefaultMaxSpeed}
}

// Clamp keeps d within [Min, Max].
func (l Limits) Clamp(d time.Duration) time.Duration {
	if d < l.Min {
		return l.Min
	}
	if d > l.Max {
		return l.Max
	}
	return d
}

// Multiplier is InitialSpeed / speed, floored at 0.2.
func (l Limits) Multiplier(speed time.Duration) float64 {
	if speed <= 0 {
		speed = l.Min
	}
	if speed <= 0 {
		return 1
	}
	mult := float64(l.Initial) / float64(speed)
	if mult < 0.2 {
		return 0.2
	}
	return mult
}

// Decrease returns how much faster the next round gets after a correct
// round. Above 100ms the base constants apply; closer to the floor the step
// shrinks linearly so speed does not overshoot below it.
func Decrease(perfect bool, speed, floor time.Duration) time.Duration {
	s := ms(speed)
	lo := ms(floor)
	var dec float64
	switch {
	case s > fastBandMs:
		dec = correctDecreaseMs
		if perfect {
			dec += perfectBoostMs
		}
	case s > floorBandMs:
		// 20ms at 100ms down to 10ms at 50ms; 10ms to 5ms when unordered.
		if perfect {
			dec = 10 + 10*(s-floorBandMs)/floorBandMs
		} else {
			dec = 5 + 5*(s-floorBandMs)/floorBandMs
		}
	default:
		// 12ms at 50ms down to 5ms at the floor; 7ms to 1ms when unordered.
		span := floorBandMs - lo
		frac := 0.0
		if span > 0 {
			frac = (s - lo) / span
		}
		if frac < 0 {
			frac = 0
		}
		if perfect {
			dec = 5 + 7*frac
		} else {
			dec = 1 + 6*frac
		}
	}
	return fromMs(dec)
}

// Slow applies the mistake penalty, capped at Max.
func (l Limits) Slow(speed time.Duration) time.Duration {
	return l.Clamp(speed + mistakePenalty)
}

// Speedup applies Decrease and clamps to the floor.
func (l Limits) Speedup(perfect bool, speed time.Duration) time.Duration {
	return l.Clamp(speed - Decrease(perfect, speed, l.Min))
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func fromMs(v float64) time.Duration {
	return time.Duration(v * float64(time.Millisecond))
}
