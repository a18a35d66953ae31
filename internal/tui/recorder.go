package tui

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/glyphflash/internal/model"
	"github.com/verte-zerg/glyphflash/internal/store"
)

// Recorder writes game events to the session log and keeps the round
// scores and display speeds of the current game for the footer.
type Recorder struct {
	store  *store.Store
	log    zerolog.Logger
	gameID int64
	scores []float64
	// speeds holds the display speed after each round, in milliseconds.
	speeds []float64
}

// NewRecorder returns a Recorder. A nil store only tracks scores.
func NewRecorder(st *store.Store, log zerolog.Logger) *Recorder {
	return &Recorder{store: st, log: log}
}

// GameStarted implements game.Recorder.
func (r *Recorder) GameStarted(rec model.GameRecord) {
	r.scores = r.scores[:0]
	r.speeds = r.speeds[:0]
	r.gameID = 0
	if r.store == nil {
		return
	}
	id, err := r.store.InsertGame(context.Background(), rec)
	if err != nil {
		r.log.Error().Err(err).Msg("failed to record game start")
		return
	}
	r.gameID = id
}

// RoundScored implements game.Recorder.
func (r *Recorder) RoundScored(rec model.RoundRecord) {
	r.scores = append(r.scores, float64(rec.Score))
	r.speeds = append(r.speeds, float64(rec.SpeedAfter)/float64(time.Millisecond))
	if r.store == nil || r.gameID == 0 {
		return
	}
	rec.GameID = r.gameID
	if err := r.store.InsertRound(context.Background(), rec); err != nil {
		r.log.Error().Err(err).Int("round", rec.Round).Msg("failed to record round")
	}
}

// GameEnded implements game.Recorder.
func (r *Recorder) GameEnded(rec model.GameRecord) {
	if r.store == nil || r.gameID == 0 {
		return
	}
	rec.ID = r.gameID
	if err := r.store.FinishGame(context.Background(), rec); err != nil {
		r.log.Error().Err(err).Msg("failed to record game end")
	}
}

// Scores returns the round scores of the current game.
func (r *Recorder) Scores() []float64 {
	return r.scores
}

// Speeds returns the display speed in milliseconds after each round of the
// current game.
func (r *Recorder) Speeds() []float64 {
	return r.speeds
}
