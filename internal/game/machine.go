package game

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/glyphflash/internal/clock"
	"github.com/verte-zerg/glyphflash/internal/flash"
	"github.com/verte-zerg/glyphflash/internal/generator"
	"github.com/verte-zerg/glyphflash/internal/model"
	"github.com/verte-zerg/glyphflash/internal/scoring"
)

// Recorder receives game and round events. Implementations must not block.
type Recorder interface {
	GameStarted(rec model.GameRecord)
	RoundScored(rec model.RoundRecord)
	GameEnded(rec model.GameRecord)
}

// RoundResult is the outcome of the last submitted round.
type RoundResult struct {
	scoring.Result
	Round       int
	Target      generator.Sequence
	Guess       []rune
	Reflashes   int
	SpeedBefore time.Duration
}

// Option customizes a Machine.
type Option func(*Machine)

// WithLogger sets the logger used for transitions.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Machine) { m.log = log }
}

// WithGenerator replaces the letter generator.
func WithGenerator(gen *generator.Generator) Option {
	return func(m *Machine) { m.gen = gen }
}

// WithRecorder attaches a round recorder.
func WithRecorder(rec Recorder) Option {
	return func(m *Machine) { m.rec = rec }
}

// Machine is the round state machine. It is not safe for concurrent use;
// every method must be called from the same event loop.
type Machine struct {
	cfg Config
	gen *generator.Generator
	log zerolog.Logger
	rec Recorder

	state State
	rs    RoundState
	seq   generator.Sequence
	// generation invalidates callbacks scheduled before a restart or a new round.
	generation int
	now        time.Time
	startedAt  time.Time

	preRound  clock.Timer
	waitInput clock.Timer
	autoNext  clock.Timer
	flasher   flash.Sequencer
	frame     flash.Frame

	inputEnabled bool
	feedback     Feedback
	countdown    string
	result       *RoundResult
	tier         *Tier
}

// New returns an idle Machine.
func New(cfg Config, opts ...Option) *Machine {
	m := &Machine{
		cfg: normalizeConfig(cfg),
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.gen == nil {
		m.gen = generator.New()
	}
	m.rs.Speed = m.cfg.Limits.Initial
	return m
}

func normalizeConfig(cfg Config) Config {
	if cfg.Letters < 1 {
		cfg.Letters = 1
	}
	if cfg.Letters > MaxLetters {
		cfg.Letters = MaxLetters
	}
	if cfg.RoundCap < 0 {
		cfg.RoundCap = 0
	}
	if cfg.Limits.Max <= 0 {
		cfg.Limits.Max = scoring.DefaultMaxSpeed
	}
	if cfg.Limits.Min <= 0 || cfg.Limits.Min > cfg.Limits.Max {
		cfg.Limits.Min = scoring.DefaultMinSpeed
	}
	if cfg.Limits.Initial <= 0 {
		cfg.Limits.Initial = scoring.DefaultInitialSpeed
	}
	cfg.Limits.Initial = cfg.Limits.Clamp(cfg.Limits.Initial)
	return cfg
}

// Config returns the current options.
func (m *Machine) Config() Config {
	return m.cfg
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// RoundState returns a copy of the game counters.
func (m *Machine) RoundState() RoundState {
	return m.rs
}

// StartGame starts a new game, abandoning any game in progress.
func (m *Machine) StartGame(now time.Time) {
	if m.rs.Active {
		m.endGame(now, false)
	}
	m.cancelAll()
	m.now = now
	m.startedAt = now
	m.rs = RoundState{
		Round:  1,
		Speed:  m.cfg.Limits.Clamp(m.cfg.Limits.Initial),
		Active: true,
	}
	m.tier = nil
	m.log.Info().
		Int("letters", m.cfg.Letters).
		Str("progression", m.cfg.Progression.String()).
		Str("policy", m.cfg.Policy.String()).
		Int("round_cap", m.cfg.RoundCap).
		Msg("game started")
	if m.rec != nil {
		m.rec.GameStarted(m.gameRecord(now, false))
	}
	m.beginRound()
}

// Tick advances every running timer to now.
func (m *Machine) Tick(now time.Time) {
	m.now = now
	m.preRound.Tick(now)
	if m.flasher.Active() {
		m.frame = m.flasher.Tick(now)
	}
	m.waitInput.Tick(now)
	m.autoNext.Tick(now)
}

// RequestReflash replays the current sequence at a score cost.
func (m *Machine) RequestReflash(now time.Time) error {
	if !m.cfg.Reflash {
		return ErrReflashDisabled
	}
	if !m.rs.Active || m.state != StateAwaitingInput {
		return ErrWrongState
	}
	m.now = now
	m.reflash()
	return nil
}

// SubmitAnswer scores guess, one string per input cell. A malformed guess
// returns ErrInvalidGuess and leaves the round untouched apart from the
// feedback message.
func (m *Machine) SubmitAnswer(guess []string, now time.Time) (*RoundResult, error) {
	if !m.rs.Active || !m.inputEnabled {
		return nil, ErrWrongState
	}
	if m.state != StateAwaitingInput && m.state != StateFlashing {
		return nil, ErrWrongState
	}
	letters, ok := normalizeGuess(guess, len(m.seq))
	if !ok {
		m.feedback = Feedback{Text: invalidGuessText, Tag: TagIncorrect}
		return nil, ErrInvalidGuess
	}
	m.now = now
	m.flasher.Cancel()
	m.frame = flash.Frame{}
	m.waitInput.Cancel()
	m.setState(StateScored)

	before := m.rs.Speed
	scorer := scoring.Model{Policy: m.cfg.Policy, Limits: m.cfg.Limits}
	res := scorer.Score(scoring.Input{
		Target:    m.seq,
		Guess:     letters,
		Speed:     before,
		Reflashes: m.rs.Reflashes,
	})
	// Speed and score first, derived accuracy after.
	m.rs.Speed = res.Speed
	m.rs.Score += res.Score
	m.rs.Accuracy.Add(res.Match)
	m.inputEnabled = false

	result := &RoundResult{
		Result:      res,
		Round:       m.rs.Round,
		Target:      append(generator.Sequence(nil), m.seq...),
		Guess:       letters,
		Reflashes:   m.rs.Reflashes,
		SpeedBefore: before,
	}
	m.result = result
	m.feedback = roundFeedback(result)
	m.log.Debug().
		Int("round", result.Round).
		Str("target", string(result.Target)).
		Str("guess", string(letters)).
		Str("outcome", res.Outcome.String()).
		Int("score", res.Score).
		Dur("speed", res.Speed).
		Msg("round scored")
	if m.rec != nil {
		m.rec.RoundScored(m.roundRecord(result))
	}

	switch {
	case m.cfg.RoundCap > 0 && m.rs.Round >= m.cfg.RoundCap:
		m.endGame(now, true)
	case m.cfg.Progression == ProgressionAuto:
		m.startAutoAdvance()
	default:
		m.setState(StateAwaitingNext)
	}
	return result, nil
}

// AdvanceRound starts the next round in manual progression.
func (m *Machine) AdvanceRound(now time.Time) error {
	if !m.rs.Active || m.state != StateAwaitingNext {
		return ErrWrongState
	}
	m.now = now
	m.advance()
	return nil
}

// Abandon ends a running game without rating it.
func (m *Machine) Abandon(now time.Time) {
	if !m.rs.Active {
		return
	}
	m.now = now
	m.endGame(now, false)
	m.setState(StateIdle)
}

// SetDifficulty sets the letter count for the next game.
func (m *Machine) SetDifficulty(letters int) error {
	if m.rs.Active {
		return ErrGameActive
	}
	if letters < 1 || letters > MaxLetters {
		return ErrInvalidDifficulty
	}
	m.cfg.Letters = letters
	return nil
}

// SetProgression sets the progression style for the next game.
func (m *Machine) SetProgression(p Progression) error {
	if m.rs.Active {
		return ErrGameActive
	}
	m.cfg.Progression = p
	return nil
}

// SetPolicy sets the scoring policy for the next game.
func (m *Machine) SetPolicy(p scoring.Policy) error {
	if m.rs.Active {
		return ErrGameActive
	}
	m.cfg.Policy = p
	return nil
}

// SetMinSpeed installs a calibrated speed floor.
func (m *Machine) SetMinSpeed(floor time.Duration) error {
	if m.rs.Active {
		return ErrGameActive
	}
	if floor <= 0 {
		return nil
	}
	if floor > m.cfg.Limits.Initial {
		floor = m.cfg.Limits.Initial
	}
	m.cfg.Limits.Min = floor
	return nil
}

func (m *Machine) beginRound() {
	m.cancelAll()
	m.rs.Reflashes = 0
	m.feedback = Feedback{}
	m.countdown = ""
	m.inputEnabled = false
	m.result = nil
	m.seq = m.gen.Generate(m.cfg.Letters)
	m.setState(StateCountdown)
	m.schedule(&m.preRound, m.cfg.PreRoundDelay, nil, m.startFlash)
}

func (m *Machine) startFlash() {
	m.setState(StateFlashing)
	m.flasher.Start(m.seq, m.rs.Speed, m.guard(m.flashDone))
}

func (m *Machine) flashDone() {
	m.frame = m.flasher.Frame()
	m.setState(StateAwaitingInput)
	m.inputEnabled = true
	if m.rs.Reflashes > 0 {
		m.feedback = Feedback{Text: reflashNotice(m.rs.Reflashes), Tag: TagInfo}
	}
	if m.cfg.Reflash && m.cfg.AutoReflashAfter > 0 {
		m.schedule(&m.waitInput, m.cfg.AutoReflashAfter, nil, m.reflash)
	}
}

func (m *Machine) reflash() {
	m.waitInput.Cancel()
	m.rs.Reflashes++
	m.countdown = ""
	m.log.Debug().Int("round", m.rs.Round).Int("reflashes", m.rs.Reflashes).Msg("reflash")
	m.startFlash()
}

func (m *Machine) startAutoAdvance() {
	m.setState(StateAutoCountdown)
	m.countdown = autoAdvanceText(AutoAdvanceSteps * time.Second)
	m.schedule(&m.autoNext, AutoAdvanceSteps*time.Second, func(remaining time.Duration) {
		m.countdown = autoAdvanceText(remaining)
	}, m.advance)
}

func (m *Machine) advance() {
	m.rs.Round++
	m.beginRound()
}

func (m *Machine) endGame(now time.Time, completed bool) {
	m.cancelAll()
	m.rs.Active = false
	m.inputEnabled = false
	if completed {
		tier := SelectTier(m.rs.Score, m.rs.Round, m.cfg.Letters)
		m.tier = &tier
		m.setState(StateGameOver)
	}
	m.log.Info().
		Int("rounds", m.rs.Round).
		Int("score", m.rs.Score).
		Float64("accuracy", m.rs.Accuracy.Percent()).
		Bool("completed", completed).
		Msg("game ended")
	if m.rec != nil {
		m.rec.GameEnded(m.gameRecord(now, completed))
	}
}

// schedule arms t with callbacks that no-op once the game is deactivated
// or moved past the round they were scheduled in.
func (m *Machine) schedule(t *clock.Timer, d time.Duration, onTick func(time.Duration), onDone func()) {
	var tick func(time.Duration)
	if onTick != nil {
		gen := m.generation
		tick = func(remaining time.Duration) {
			if !m.rs.Active || gen != m.generation {
				return
			}
			onTick(remaining)
		}
	}
	t.Cancel()
	if err := t.Schedule(d, tick, m.guard(onDone)); err != nil {
		m.log.Error().Err(err).Msg("failed to schedule timer")
	}
}

func (m *Machine) guard(fn func()) func() {
	gen := m.generation
	return func() {
		if !m.rs.Active || gen != m.generation {
			return
		}
		fn()
	}
}

func (m *Machine) cancelAll() {
	m.generation++
	m.preRound.Cancel()
	m.waitInput.Cancel()
	m.autoNext.Cancel()
	m.flasher.Cancel()
	m.frame = flash.Frame{}
	m.countdown = ""
}

func (m *Machine) setState(s State) {
	if m.state == s {
		return
	}
	m.log.Debug().Str("from", m.state.String()).Str("to", s.String()).Int("round", m.rs.Round).Msg("state transition")
	m.state = s
}

func (m *Machine) gameRecord(now time.Time, completed bool) model.GameRecord {
	rec := model.GameRecord{
		StartedAt:   m.startedAt,
		Letters:     m.cfg.Letters,
		Progression: m.cfg.Progression.String(),
		Policy:      m.cfg.Policy.String(),
		RoundCap:    m.cfg.RoundCap,
		Rounds:      m.rs.Round,
		Score:       m.rs.Score,
		Accuracy:    m.rs.Accuracy.Percent(),
		Completed:   completed,
	}
	if !m.rs.Active {
		rec.EndedAt = now
	}
	return rec
}

func (m *Machine) roundRecord(r *RoundResult) model.RoundRecord {
	return model.RoundRecord{
		Round:       r.Round,
		PlayedAt:    m.now,
		Target:      string(r.Target),
		Guess:       string(r.Guess),
		Position:    r.Match.Position,
		Letter:      r.Match.Letter,
		Miss:        r.Match.Miss,
		Reflashes:   r.Reflashes,
		Score:       r.Score,
		SpeedBefore: r.SpeedBefore,
		SpeedAfter:  r.Speed,
		Outcome:     r.Outcome.String(),
	}
}

// normalizeGuess upper-cases and trims each cell and checks that every
// cell holds exactly one alphabet letter.
func normalizeGuess(cells []string, want int) ([]rune, bool) {
	if len(cells) != want {
		return nil, false
	}
	out := make([]rune, 0, len(cells))
	for _, cell := range cells {
		runes := []rune(strings.ToUpper(strings.TrimSpace(cell)))
		if len(runes) != 1 || !generator.IsLetter(runes[0]) {
			return nil, false
		}
		out = append(out, runes[0])
	}
	return out, true
}
