// Package game implements the round state machine: generation, flashing,
// reflash requests, answer submission, scoring and speed adaptation.
package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/glyphflash/internal/scoring"
)

// MaxLetters is the largest selectable difficulty.
const MaxLetters = 7

// AutoAdvanceSteps is the length of the next-round countdown, one second each.
const AutoAdvanceSteps = 3

var (
	// ErrInvalidGuess is returned for a malformed submission. The round is
	// unchanged and the player may submit again.
	ErrInvalidGuess = errors.New("please enter a valid single letter in all boxes")
	// ErrGameActive is returned when options change during a game.
	ErrGameActive = errors.New("game in progress")
	// ErrInvalidDifficulty is returned for a letter count outside 1..MaxLetters.
	ErrInvalidDifficulty = fmt.Errorf("difficulty must be between 1 and %d", MaxLetters)
	// ErrWrongState is returned when an action does not apply to the current state.
	ErrWrongState = errors.New("action not available now")
	// ErrReflashDisabled is returned when reflash is requested but not enabled.
	ErrReflashDisabled = errors.New("reflash disabled")
)

// State is a node of the round state machine.
type State int

const (
	StateIdle State = iota
	StateCountdown
	StateFlashing
	StateAwaitingInput
	StateScored
	StateAutoCountdown
	StateAwaitingNext
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateCountdown:
		return "countdown"
	case StateFlashing:
		return "flashing"
	case StateAwaitingInput:
		return "awaiting-input"
	case StateScored:
		return "scored"
	case StateAutoCountdown:
		return "auto-countdown"
	case StateAwaitingNext:
		return "awaiting-next"
	case StateGameOver:
		return "game-over"
	default:
		return "idle"
	}
}

// Progression decides what happens after a round is scored.
type Progression int

const (
	ProgressionAuto Progression = iota
	ProgressionManual
)

func (p Progression) String() string {
	if p == ProgressionManual {
		return "manual"
	}
	return "auto"
}

// ParseProgression accepts "auto" or "manual".
func ParseProgression(s string) (Progression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto":
		return ProgressionAuto, nil
	case "manual":
		return ProgressionManual, nil
	}
	return ProgressionAuto, fmt.Errorf("unknown progression %q (want auto or manual)", s)
}

// Config holds the options a game is started with.
type Config struct {
	Letters     int
	Progression Progression
	Policy      scoring.Policy
	// RoundCap ends the game after that many rounds. Zero plays forever.
	RoundCap int
	Reflash  bool
	// AutoReflashAfter re-runs the flash when no answer arrives in time.
	// Zero disables it.
	AutoReflashAfter time.Duration
	PreRoundDelay    time.Duration
	Limits           scoring.Limits
}

// DefaultConfig returns the stock options.
func DefaultConfig() Config {
	return Config{
		Letters:       3,
		Progression:   ProgressionAuto,
		Policy:        scoring.PolicySimple,
		Reflash:       true,
		PreRoundDelay: 500 * time.Millisecond,
		Limits:        scoring.DefaultLimits(),
	}
}

// RoundState is the mutable state of a game.
type RoundState struct {
	Round     int
	Score     int
	Speed     time.Duration
	Reflashes int
	Accuracy  scoring.Accuracy
	Active    bool
}

// Feedback is the per-round message with its styling tag.
type Feedback struct {
	Text string
	Tag  string
}
