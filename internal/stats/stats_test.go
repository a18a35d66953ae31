package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/glyphflash/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if got := MovingAverage([]float64{1, 2}, 0); got[1] != 2 {
		t.Fatalf("expected passthrough, got %v", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 7}); got != "▁█" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "▄▄▄" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestRoundAccuracy(t *testing.T) {
	r := model.RoundRecord{Position: 1, Letter: 2}
	if got := RoundAccuracy(r); got < 66.6 || got > 66.7 {
		t.Fatalf("expected 66.7, got %.2f", got)
	}
	if RoundAccuracy(model.RoundRecord{}) != 0 {
		t.Fatalf("expected zero for empty round")
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, Summary{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "No rounds played.\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRenderSummaryFastest(t *testing.T) {
	rounds := []model.RoundRecord{
		{Position: 3, Score: 25, SpeedBefore: 300 * time.Millisecond, Outcome: "perfect"},
		{Miss: 3, SpeedBefore: 100 * time.Millisecond, Outcome: "mistake"},
		{Letter: 3, Score: 12, SpeedBefore: 255 * time.Millisecond, Outcome: "unordered"},
	}
	s := Summarize([]model.GameRecord{{Score: 37}}, rounds)
	if s.Fastest != 255*time.Millisecond {
		t.Fatalf("expected fastest recalled speed 255ms, got %v", s.Fastest)
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, s); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Rounds: 3 (1 perfect, 1 missed)", "Total score: 37", "Fastest recalled speed: 255ms"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %q in %q", want, buf.String())
		}
	}
}

func TestRenderRoundTable(t *testing.T) {
	var buf bytes.Buffer
	err := RenderRoundTable(&buf, []model.RoundRecord{
		{GameID: 1, Round: 1, Target: "ABC", Guess: "ABC", Outcome: "perfect", Score: 25, SpeedBefore: 300 * time.Millisecond},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[0] != "Rounds" || !strings.HasPrefix(lines[1], "Game Round Shown Typed") {
		t.Fatalf("unexpected table %q", buf.String())
	}
	if !strings.Contains(lines[2], "300ms") {
		t.Fatalf("expected speed column, got %q", lines[2])
	}
}

func TestRenderLetterTableWeakestFirst(t *testing.T) {
	var buf bytes.Buffer
	err := RenderLetterTable(&buf, []model.LetterAggregate{
		{Letter: "A", Shown: 4, Placed: 4, Recalled: 4},
		{Letter: "Q", Shown: 4, Placed: 1, Recalled: 2},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasPrefix(lines[2], "Q") {
		t.Fatalf("expected weakest letter first, got %q", lines[2])
	}
}
