package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Policy selects how a guess turns into points.
type Policy int

const (
	// PolicySimple awards points only when every shown letter is typed back.
	PolicySimple Policy = iota
	// PolicyPartial awards credit per matched letter.
	PolicyPartial
)

func (p Policy) String() string {
	if p == PolicyPartial {
		return "partial"
	}
	return "simple"
}

// ParsePolicy accepts "simple"/"a" or "partial"/"b".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple", "a":
		return PolicySimple, nil
	case "partial", "b":
		return PolicyPartial, nil
	}
	return PolicySimple, fmt.Errorf("unknown scoring policy %q (want simple or partial)", s)
}

// Points.
const (
	simpleLetterPoints = 5.0
	simpleOrderBonus   = 10.0

	partialPositionPoints = 10.0
	partialLetterPoints   = 5.0
	partialPerfectBonus   = 20.0

	reflashPenaltyPct = 20
)

// Outcome classifies a scored round.
type Outcome int

const (
	OutcomeMistake Outcome = iota
	OutcomePartial
	OutcomeUnordered
	OutcomePerfect
)

func (o Outcome) String() string {
	switch o {
	case OutcomePerfect:
		return "perfect"
	case OutcomeUnordered:
		return "unordered"
	case OutcomePartial:
		return "partial"
	default:
		return "mistake"
	}
}

// Tag is the styling class shown with the feedback line.
func (o Outcome) Tag() string {
	switch o {
	case OutcomePerfect:
		return "bonus"
	case OutcomeUnordered, OutcomePartial:
		return "correct"
	default:
		return "incorrect"
	}
}

// Input is one submitted round.
type Input struct {
	Target    []rune
	Guess     []rune
	Speed     time.Duration
	Reflashes int
}

// Result is the scored round.
type Result struct {
	Match     Match
	Outcome   Outcome
	Score     int
	RawScore  int
	Speed     time.Duration
	SpeedDiff time.Duration
}

// Model scores rounds under one policy and speed bounds.
type Model struct {
	Policy Policy
	Limits Limits
}

// ReflashMultiplier is max(0, 1 - 0.2*reflashes).
func ReflashMultiplier(reflashes int) float64 {
	return float64(reflashPercent(reflashes)) / 100
}

func reflashPercent(reflashes int) int {
	if reflashes < 0 {
		reflashes = 0
	}
	pct := 100 - reflashPenaltyPct*reflashes
	if pct < 0 {
		return 0
	}
	return pct
}

// ApplyReflash scales a rounded score by the reflash multiplier, rounding
// down, so any positive score strictly drops per reflash.
func ApplyReflash(score, reflashes int) int {
	if score <= 0 {
		return 0
	}
	return score * reflashPercent(reflashes) / 100
}

// Score evaluates in and returns the score delta and next speed.
func (m Model) Score(in Input) Result {
	speed := m.Limits.Clamp(in.Speed)
	match := Evaluate(in.Target, in.Guess)
	var res Result
	switch m.Policy {
	case PolicyPartial:
		res = m.scorePartial(match, speed)
	default:
		res = m.scoreSimple(match, len(in.Target), speed)
	}
	res.Match = match
	res.Score = ApplyReflash(res.RawScore, in.Reflashes)
	res.SpeedDiff = res.Speed - speed
	return res
}

func (m Model) scoreSimple(match Match, targetLen int, speed time.Duration) Result {
	if !match.Complete() || len(match.Marks) != targetLen {
		return Result{Outcome: OutcomeMistake, Speed: m.Limits.Slow(speed)}
	}
	mult := m.Limits.Multiplier(speed)
	raw := simpleLetterPoints * float64(targetLen) * mult
	if match.Perfect() {
		raw += simpleOrderBonus * mult
		return Result{Outcome: OutcomePerfect, RawScore: round(raw), Speed: m.Limits.Speedup(true, speed)}
	}
	return Result{Outcome: OutcomeUnordered, RawScore: round(raw), Speed: m.Limits.Speedup(false, speed)}
}

func (m Model) scorePartial(match Match, speed time.Duration) Result {
	n := len(match.Marks)
	if n == 0 || (match.Position == 0 && match.Miss*2 > n) {
		return Result{Outcome: OutcomeMistake, Speed: m.Limits.Slow(speed)}
	}
	mult := m.Limits.Multiplier(speed)
	raw := partialPositionPoints*float64(match.Position) + partialLetterPoints*float64(match.Letter)
	switch {
	case match.Perfect():
		raw += partialPerfectBonus
		return Result{Outcome: OutcomePerfect, RawScore: round(raw * mult), Speed: m.Limits.Speedup(true, speed)}
	case match.Complete():
		return Result{Outcome: OutcomeUnordered, RawScore: round(raw * mult), Speed: m.Limits.Speedup(false, speed)}
	default:
		return Result{Outcome: OutcomePartial, RawScore: round(raw * mult), Speed: speed}
	}
}

func round(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Round(v))
}
