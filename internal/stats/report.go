package stats

import (
	"context"
	"fmt"

	"github.com/verte-zerg/glyphflash/internal/model"
	"github.com/verte-zerg/glyphflash/internal/store"
)

// Report holds everything the history screen and the exit summary render.
type Report struct {
	Games   []model.GameRecord
	Rounds  []model.RoundRecord
	Letters []model.LetterAggregate
	Summary Summary
}

// BuildReport loads the session log.
func BuildReport(ctx context.Context, st *store.Store) (Report, error) {
	games, err := st.ListGames(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list games: %w", err)
	}
	rounds, err := st.ListRounds(ctx, 0)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list rounds: %w", err)
	}
	letters, err := st.LetterAggregates(ctx, 0)
	if err != nil {
		return Report{}, fmt.Errorf("failed to aggregate letters: %w", err)
	}
	return Report{
		Games:   games,
		Rounds:  rounds,
		Letters: letters,
		Summary: Summarize(games, rounds),
	}, nil
}
