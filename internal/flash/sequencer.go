// Package flash drives the timed presentation of a letter sequence.
package flash

import (
	"time"
)

// PauseBefore is the blank interval before the first letter.
const PauseBefore = 300 * time.Millisecond

// minHide is the shortest blank gap between two letters.
const minHide = 10 * time.Millisecond

// Phase is the sequencer's position within one presentation.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePauseBefore
	PhaseShow
	PhaseHide
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhasePauseBefore:
		return "pauseBefore"
	case PhaseShow:
		return "show"
	case PhaseHide:
		return "hide"
	case PhaseDone:
		return "done"
	default:
		return "idle"
	}
}

// Frame describes what should be on screen after a tick.
type Frame struct {
	Phase   Phase
	Index   int
	Letter  rune
	Visible bool
	// Shows counts show phases entered since Start.
	Shows int
}

// Sequencer shows one letter at a time: pauseBefore, then show/hide per
// letter, then done. It is advanced by Tick and never blocks.
type Sequencer struct {
	letters []rune
	show    time.Duration
	hide    time.Duration
	onDone  func()

	phase      Phase
	index      int
	shows      int
	phaseStart time.Time
	started    bool
	active     bool
}

// HideDuration returns the gap after each letter for a given show duration.
func HideDuration(speed time.Duration) time.Duration {
	hide := speed / 3
	if hide < minHide {
		return minHide
	}
	return hide
}

// Start begins a presentation. Any presentation in progress is dropped
// without calling its onDone.
func (s *Sequencer) Start(letters []rune, speed time.Duration, onDone func()) {
	s.letters = append(s.letters[:0], letters...)
	s.show = speed
	s.hide = HideDuration(speed)
	s.onDone = onDone
	s.phase = PhasePauseBefore
	s.index = 0
	s.shows = 0
	s.started = false
	s.active = true
	if len(s.letters) == 0 {
		s.finish()
	}
}

// Cancel aborts the presentation. onDone is not called.
func (s *Sequencer) Cancel() {
	s.active = false
	s.onDone = nil
	if s.phase != PhaseDone {
		s.phase = PhaseIdle
	}
}

// Active reports whether a presentation is running.
func (s *Sequencer) Active() bool {
	return s.active
}

// Phase returns the current phase.
func (s *Sequencer) Phase() Phase {
	return s.phase
}

// Frame returns the current display state without advancing.
func (s *Sequencer) Frame() Frame {
	f := Frame{Phase: s.phase, Index: s.index, Shows: s.shows}
	if s.active && s.phase == PhaseShow && s.index < len(s.letters) {
		f.Letter = s.letters[s.index]
		f.Visible = true
	}
	return f
}

// Tick advances the presentation to now. At most one phase transition
// happens per tick, so every letter is visible for at least one frame.
func (s *Sequencer) Tick(now time.Time) Frame {
	if !s.active {
		return s.Frame()
	}
	if !s.started {
		s.phaseStart = now
		s.started = true
	}
	elapsed := now.Sub(s.phaseStart)
	switch s.phase {
	case PhasePauseBefore:
		if elapsed >= PauseBefore {
			s.enterShow(now)
		}
	case PhaseShow:
		if elapsed >= s.show {
			s.phase = PhaseHide
			s.phaseStart = now
		}
	case PhaseHide:
		if elapsed >= s.hide {
			s.index++
			if s.index < len(s.letters) {
				s.enterShow(now)
			} else {
				s.finish()
			}
		}
	}
	return s.Frame()
}

func (s *Sequencer) enterShow(now time.Time) {
	s.phase = PhaseShow
	s.phaseStart = now
	s.shows++
}

func (s *Sequencer) finish() {
	s.phase = PhaseDone
	s.active = false
	done := s.onDone
	s.onDone = nil
	if done != nil {
		done()
	}
}
