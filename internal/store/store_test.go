package store

import (
	"context"
	"testing"
	"time"

	"github.com/verte-zerg/glyphflash/internal/model"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	return s
}

func TestGameLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	id, err := s.InsertGame(ctx, model.GameRecord{StartedAt: started, Letters: 3, Progression: "auto", Policy: "simple", RoundCap: 5})
	if err != nil {
		t.Fatalf("insert game: %v", err)
	}
	games, err := s.ListGames(ctx)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 1 || games[0].ID != id || !games[0].StartedAt.Equal(started) || !games[0].EndedAt.IsZero() {
		t.Fatalf("unexpected games %+v", games)
	}

	err = s.FinishGame(ctx, model.GameRecord{ID: id, EndedAt: started.Add(time.Minute), Rounds: 5, Score: 90, Accuracy: 80, Completed: true})
	if err != nil {
		t.Fatalf("finish game: %v", err)
	}
	games, err = s.ListGames(ctx)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	g := games[0]
	if g.Score != 90 || g.Rounds != 5 || !g.Completed || g.Accuracy != 80 || g.Letters != 3 || g.Policy != "simple" {
		t.Fatalf("unexpected finished game %+v", g)
	}
	if err := s.FinishGame(ctx, model.GameRecord{ID: id + 10}); err == nil {
		t.Fatalf("expected error for unknown game")
	}
}

func TestRoundsAndLetters(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	id, err := s.InsertGame(ctx, model.GameRecord{StartedAt: time.Now(), Letters: 3, Progression: "manual", Policy: "simple"})
	if err != nil {
		t.Fatalf("insert game: %v", err)
	}
	rounds := []model.RoundRecord{
		{GameID: id, Round: 1, PlayedAt: time.Now(), Target: "ABC", Guess: "ABC", Position: 3, Score: 25,
			SpeedBefore: 300 * time.Millisecond, SpeedAfter: 255 * time.Millisecond, Outcome: "perfect"},
		{GameID: id, Round: 2, PlayedAt: time.Now(), Target: "ABD", Guess: "BAX", Letter: 2, Miss: 1,
			SpeedBefore: 255 * time.Millisecond, SpeedAfter: 285 * time.Millisecond, Outcome: "mistake"},
	}
	for _, r := range rounds {
		if err := s.InsertRound(ctx, r); err != nil {
			t.Fatalf("insert round: %v", err)
		}
	}
	if err := s.InsertRound(ctx, rounds[0]); err == nil {
		t.Fatalf("expected duplicate round to fail")
	}

	got, err := s.ListRounds(ctx, id)
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(got) != 2 || got[1].SpeedAfter != 285*time.Millisecond || got[1].Guess != "BAX" {
		t.Fatalf("unexpected rounds %+v", got)
	}
	all, err := s.ListRounds(ctx, 0)
	if err != nil || len(all) != 2 {
		t.Fatalf("expected all rounds, got %d (%v)", len(all), err)
	}

	aggs, err := s.LetterAggregates(ctx, id)
	if err != nil {
		t.Fatalf("letter aggregates: %v", err)
	}
	byLetter := map[string]model.LetterAggregate{}
	for _, a := range aggs {
		byLetter[a.Letter] = a
	}
	a := byLetter["A"]
	if a.Shown != 2 || a.Placed != 1 || a.Recalled != 2 {
		t.Fatalf("unexpected A aggregate %+v", a)
	}
	d := byLetter["D"]
	if d.Shown != 1 || d.Missed() != 1 {
		t.Fatalf("unexpected D aggregate %+v", d)
	}
}

func TestRoundRequiresGame(t *testing.T) {
	s := openStore(t)
	err := s.InsertRound(context.Background(), model.RoundRecord{GameID: 42, Round: 1, Target: "A", Guess: "A", Outcome: "perfect"})
	if err == nil {
		t.Fatalf("expected foreign key error")
	}
}
