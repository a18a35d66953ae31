// Package model defines shared data structures.
package model

import "time"

// Config defines game settings resolved from flags and the config file.
type Config struct {
	Letters     int
	Progression string
	Policy      string
	Rounds      int
	Reflash     bool
	AutoReflash time.Duration
	PreRound    time.Duration
	FPS         int
	Calibrate   bool
	Sound       bool
	Seed        int64
	LogLevel    string
}

// GameRecord describes one game played in the running process.
type GameRecord struct {
	ID          int64
	StartedAt   time.Time
	EndedAt     time.Time
	Letters     int
	Progression string
	Policy      string
	RoundCap    int
	Rounds      int
	Score       int
	Accuracy    float64
	Completed   bool
}

// RoundRecord captures one scored round.
type RoundRecord struct {
	GameID      int64
	Round       int
	PlayedAt    time.Time
	Target      string
	Guess       string
	Position    int
	Letter      int
	Miss        int
	Reflashes   int
	Score       int
	SpeedBefore time.Duration
	SpeedAfter  time.Duration
	Outcome     string
}

// LetterAggregate summarizes how one letter fared across flashed rounds.
type LetterAggregate struct {
	Letter string
	Shown  int
	// Placed counts guesses with the letter in its shown position.
	Placed int
	// Recalled counts guesses containing the letter anywhere.
	Recalled int
}

// Missed returns how often the letter was shown but not typed back.
func (a LetterAggregate) Missed() int {
	return a.Shown - a.Recalled
}
