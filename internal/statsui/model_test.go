package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/glyphflash/internal/model"
	"github.com/verte-zerg/glyphflash/internal/stats"
)

func sampleReport() stats.Report {
	rounds := []model.RoundRecord{
		{GameID: 1, Round: 1, Target: "ABC", Guess: "ABC", Position: 3, Score: 25,
			SpeedBefore: 300 * time.Millisecond, SpeedAfter: 255 * time.Millisecond, Outcome: "perfect"},
		{GameID: 1, Round: 2, Target: "QRS", Guess: "XYZ", Miss: 3,
			SpeedBefore: 255 * time.Millisecond, SpeedAfter: 285 * time.Millisecond, Outcome: "mistake"},
	}
	games := []model.GameRecord{{ID: 1, Score: 25, Rounds: 2}}
	return stats.Report{
		Games:   games,
		Rounds:  rounds,
		Letters: []model.LetterAggregate{{Letter: "A", Shown: 1, Placed: 1, Recalled: 1}, {Letter: "Q", Shown: 1}},
		Summary: stats.Summarize(games, rounds),
	}
}

func sized(m *Model) *Model {
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestOverviewShowsCardsAndHardLetters(t *testing.T) {
	m := sized(NewModel(func(context.Context) (stats.Report, error) { return sampleReport(), nil }))
	m.Refresh()
	view := m.View()
	for _, want := range []string{"Overview", "Best game", "Round Curves", "Hardest letters: Q"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view", want)
		}
	}
}

func TestRoundsTabLatestFirst(t *testing.T) {
	m := sized(NewModel(func(context.Context) (stats.Report, error) { return sampleReport(), nil }))
	m.Refresh()
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabRounds {
		t.Fatalf("expected rounds tab, got %d", m.activeTab)
	}
	rows := m.tables[tabRounds].Rows()
	if len(rows) != 2 || rows[0][2] != "QRS" {
		t.Fatalf("expected latest round first, got %v", rows)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabLetters {
		t.Fatalf("expected wrap to letters tab, got %d", m.activeTab)
	}
}

func TestLoadErrorShown(t *testing.T) {
	m := sized(NewModel(func(context.Context) (stats.Report, error) { return stats.Report{}, errors.New("boom") }))
	m.Refresh()
	if !strings.Contains(m.View(), "boom") {
		t.Fatalf("expected error in footer")
	}
}

func TestCloseKeys(t *testing.T) {
	m := NewModel(nil)
	for _, key := range []tea.KeyMsg{{Type: tea.KeyTab}, {Type: tea.KeyEsc}} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("expected close command for %s", key)
		}
		if _, ok := cmd().(CloseMsg); !ok {
			t.Fatalf("expected CloseMsg for %s", key)
		}
	}
}

func TestCurveWindowSteps(t *testing.T) {
	if nextCurveWindow(1) != 5 || nextCurveWindow(5) != 10 || nextCurveWindow(7) != 10 {
		t.Fatalf("unexpected next window")
	}
	if prevCurveWindow(5) != 1 || prevCurveWindow(10) != 5 || prevCurveWindow(12) != 10 {
		t.Fatalf("unexpected previous window")
	}
}
