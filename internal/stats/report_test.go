package stats

import (
	"context"
	"testing"
	"time"

	"github.com/verte-zerg/glyphflash/internal/model"
	"github.com/verte-zerg/glyphflash/internal/store"
)

func TestBuildReport(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	for g := 0; g < 2; g++ {
		start := time.Unix(0, 0).Add(time.Duration(g) * time.Minute)
		id, err := st.InsertGame(ctx, model.GameRecord{StartedAt: start, Letters: 2, Progression: "auto", Policy: "simple"})
		if err != nil {
			t.Fatalf("insert game: %v", err)
		}
		rounds := []model.RoundRecord{
			{GameID: id, Round: 1, PlayedAt: start, Target: "AB", Guess: "AB", Position: 2, Score: 20,
				SpeedBefore: 300 * time.Millisecond, SpeedAfter: 255 * time.Millisecond, Outcome: "perfect"},
			{GameID: id, Round: 2, PlayedAt: start, Target: "CD", Guess: "XY", Miss: 2,
				SpeedBefore: 255 * time.Millisecond, SpeedAfter: 285 * time.Millisecond, Outcome: "mistake"},
		}
		for _, r := range rounds {
			if err := st.InsertRound(ctx, r); err != nil {
				t.Fatalf("insert round: %v", err)
			}
		}
		if err := st.FinishGame(ctx, model.GameRecord{ID: id, EndedAt: start.Add(time.Second), Rounds: 2, Score: 20 + g, Completed: g == 1}); err != nil {
			t.Fatalf("finish game: %v", err)
		}
	}

	report, err := BuildReport(ctx, st)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Games) != 2 || len(report.Rounds) != 4 {
		t.Fatalf("expected 2 games and 4 rounds, got %d/%d", len(report.Games), len(report.Rounds))
	}
	if len(report.Letters) != 4 {
		t.Fatalf("expected 4 letters, got %d", len(report.Letters))
	}
	s := report.Summary
	if s.Completed != 1 || s.BestGame != 21 || s.Perfect != 2 || s.Mistakes != 2 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.Accuracy != 50 {
		t.Fatalf("expected 50%% accuracy, got %.1f", s.Accuracy)
	}
	if got := HardestLetters(report.Letters, 5); len(got) != 2 || got[0] != "C" || got[1] != "D" {
		t.Fatalf("unexpected hardest letters %v", got)
	}
}
