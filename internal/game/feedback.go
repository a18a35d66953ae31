package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/glyphflash/internal/generator"
	"github.com/verte-zerg/glyphflash/internal/scoring"
)

// Feedback tags.
const (
	TagBonus     = "bonus"
	TagCorrect   = "correct"
	TagIncorrect = "incorrect"
	TagInfo      = "info"
)

const invalidGuessText = "Please enter a valid single letter in all boxes."

func roundFeedback(r *RoundResult) Feedback {
	var b strings.Builder
	switch r.Outcome {
	case scoring.OutcomePerfect:
		fmt.Fprintf(&b, "Perfect! All correct and in order! +%d", r.Score)
	case scoring.OutcomeUnordered:
		fmt.Fprintf(&b, "All glyphs correct, but wrong order. +%d", r.Score)
	case scoring.OutcomePartial:
		fmt.Fprintf(&b, "%d in place, %d misplaced. +%d", r.Match.Position, r.Match.Letter, r.Score)
	default:
		if stray, ok := firstStray(r.Target, r.Guess); ok {
			fmt.Fprintf(&b, "Oops! '%c' wasn't shown. No points.", stray)
		} else {
			b.WriteString("Not quite all letters identified. No points.")
		}
	}
	if r.Outcome != scoring.OutcomePerfect {
		fmt.Fprintf(&b, " Glyphs were: %s.", r.Target)
	}
	switch {
	case r.SpeedDiff < 0 && r.Outcome == scoring.OutcomePerfect:
		b.WriteString(" Speed increased significantly!")
	case r.SpeedDiff < 0:
		b.WriteString(" Speed increased.")
	case r.SpeedDiff > 0:
		b.WriteString(" Speed decreased slightly.")
	}
	if r.Reflashes > 0 && r.Score > 0 {
		fmt.Fprintf(&b, " (Re-flashed %d %s, score reduced)", r.Reflashes, plural(r.Reflashes, "time", "times"))
	}
	return Feedback{Text: b.String(), Tag: r.Outcome.Tag()}
}

func firstStray(target generator.Sequence, guess []rune) (rune, bool) {
	for _, g := range guess {
		if !target.Contains(g) {
			return g, true
		}
	}
	return 0, false
}

func reflashNotice(n int) string {
	return fmt.Sprintf("Re-flashed %d %s. Score will be reduced.", n, plural(n, "time", "times"))
}

func autoAdvanceText(remaining time.Duration) string {
	secs := int((remaining + time.Second - 1) / time.Second)
	if secs <= 0 {
		return "Starting next round!"
	}
	return fmt.Sprintf("Next round in %d...", secs)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Tier is the end-of-game rating.
type Tier struct {
	Name    string
	Message string
}

// SelectTier rates a finished game by points per letter per round.
func SelectTier(score, rounds, letters int) Tier {
	var perLetter float64
	if rounds > 0 && letters > 0 {
		perLetter = float64(score) / float64(rounds*letters)
	}
	switch {
	case perLetter >= 8:
		return Tier{Name: "flawless", Message: "Flawless! Your eyes are faster than the flash."}
	case perLetter >= 6:
		return Tier{Name: "sharp", Message: "Sharp recall. Try one more letter."}
	case perLetter >= 4:
		return Tier{Name: "solid", Message: "Solid game. Keep the streak going."}
	case perLetter > 0:
		return Tier{Name: "good start", Message: "Good start. Speed comes with practice."}
	default:
		return Tier{Name: "tough", Message: "Tough round. Try fewer letters first."}
	}
}

// Snapshot is a read-only view of the machine for rendering.
type Snapshot struct {
	State        State
	Round        int
	RoundCap     int
	Score        int
	Speed        time.Duration
	Active       bool
	Accuracy     float64
	Reflashes    int
	Letters      int
	Progression  Progression
	Policy       scoring.Policy
	Frame        FrameView
	Feedback     Feedback
	Countdown    string
	InputEnabled bool
	CanSubmit    bool
	CanReflash   bool
	CanAdvance   bool
	CanConfigure bool
	Result       *RoundResult
	Tier         *Tier
}

// FrameView is the flash display for the current tick.
type FrameView struct {
	Letter  rune
	Visible bool
	Index   int
	Shows   int
}

// Snapshot returns the current view.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		State:        m.state,
		Round:        m.rs.Round,
		RoundCap:     m.cfg.RoundCap,
		Score:        m.rs.Score,
		Speed:        m.rs.Speed,
		Active:       m.rs.Active,
		Accuracy:     m.rs.Accuracy.Percent(),
		Reflashes:    m.rs.Reflashes,
		Letters:      m.cfg.Letters,
		Progression:  m.cfg.Progression,
		Policy:       m.cfg.Policy,
		Frame:        FrameView{Letter: m.frame.Letter, Visible: m.frame.Visible, Index: m.frame.Index, Shows: m.frame.Shows},
		Feedback:     m.feedback,
		Countdown:    m.countdown,
		InputEnabled: m.inputEnabled,
		CanSubmit:    m.rs.Active && m.inputEnabled,
		CanReflash:   m.rs.Active && m.cfg.Reflash && m.state == StateAwaitingInput,
		CanAdvance:   m.rs.Active && m.state == StateAwaitingNext,
		CanConfigure: !m.rs.Active,
		Result:       m.result,
		Tier:         m.tier,
	}
}
