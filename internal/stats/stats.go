// Package stats summarizes the session log: per-game totals, round curves
// and per-letter recall.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/glyphflash/internal/model"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// RoundAccuracy is the letter credit of one round as a percentage: a full
// point per letter in position, half a point per letter out of position.
func RoundAccuracy(r model.RoundRecord) float64 {
	n := r.Position + r.Letter + r.Miss
	if n == 0 {
		return 0
	}
	return (float64(r.Position) + 0.5*float64(r.Letter)) / float64(n) * 100
}

// MovingAverage computes a trailing mean over window values. The first
// window-1 points average what is available.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	prefix := make([]float64, len(values)+1)
	for i, v := range values {
		prefix[i+1] = prefix[i] + v
	}
	for i := range values {
		lo := i + 1 - window
		if lo < 0 {
			lo = 0
		}
		out[i] = (prefix[i+1] - prefix[lo]) / float64(i+1-lo)
	}
	return out
}

// Sparkline renders values as a row of block characters.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	top := len(sparkBlocks) - 1
	var b strings.Builder
	for _, v := range values {
		idx := top / 2
		if hi-lo > 1e-9 {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(top)))
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

// Summary aggregates the games of one process.
type Summary struct {
	Games      int
	Completed  int
	Rounds     int
	TotalScore int
	BestGame   int
	BestRound  int
	Perfect    int
	Mistakes   int
	Reflashes  int
	Fastest    time.Duration
	Accuracy   float64
}

// Summarize folds games and their rounds into a Summary.
func Summarize(games []model.GameRecord, rounds []model.RoundRecord) Summary {
	s := Summary{Games: len(games)}
	for _, g := range games {
		if g.Completed {
			s.Completed++
		}
		if g.Score > s.BestGame {
			s.BestGame = g.Score
		}
	}
	var credit, attempted float64
	for _, r := range rounds {
		s.Rounds++
		s.TotalScore += r.Score
		s.Reflashes += r.Reflashes
		if r.Score > s.BestRound {
			s.BestRound = r.Score
		}
		switch r.Outcome {
		case "perfect":
			s.Perfect++
		case "mistake":
			s.Mistakes++
		}
		if r.Outcome != "mistake" && (s.Fastest == 0 || r.SpeedBefore < s.Fastest) {
			s.Fastest = r.SpeedBefore
		}
		n := float64(r.Position + r.Letter + r.Miss)
		attempted += n
		credit += float64(r.Position) + 0.5*float64(r.Letter)
	}
	s.Accuracy = 100
	if attempted > 0 {
		s.Accuracy = credit / attempted * 100
	}
	return s
}

// RenderSummary prints the session summary.
func RenderSummary(w io.Writer, s Summary) error {
	if s.Rounds == 0 {
		_, err := fmt.Fprintln(w, "No rounds played.")
		return err
	}
	fastest := "-"
	if s.Fastest > 0 {
		fastest = formatSpeed(s.Fastest)
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Games: %d (%d completed)", s.Games, s.Completed),
		fmt.Sprintf("Rounds: %d (%d perfect, %d missed)", s.Rounds, s.Perfect, s.Mistakes),
		fmt.Sprintf("Total score: %d", s.TotalScore),
		fmt.Sprintf("Best game: %d", s.BestGame),
		fmt.Sprintf("Best round: %d", s.BestRound),
		fmt.Sprintf("Fastest recalled speed: %s", fastest),
		fmt.Sprintf("Accuracy: %.1f%%", s.Accuracy),
		fmt.Sprintf("Reflashes: %d", s.Reflashes),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves plots score and display speed per round.
func RenderCurves(w io.Writer, rounds []model.RoundRecord, window, totalWidth, height int, useColor bool) error {
	if len(rounds) == 0 {
		return nil
	}
	scores := make([]float64, len(rounds))
	speeds := make([]float64, len(rounds))
	accs := make([]float64, len(rounds))
	for i, r := range rounds {
		scores[i] = float64(r.Score)
		speeds[i] = float64(r.SpeedAfter) / float64(time.Millisecond)
		accs[i] = RoundAccuracy(r)
	}
	p := Plot{Title: "Round Curves", Height: height, Color: useColor}
	if totalWidth > 0 {
		p.Width = PlotWidthFor(totalWidth)
	}
	return p.Render(w, []Series{
		{Name: "Score", Values: MovingAverage(scores, window)},
		{Name: "Speed (ms)", Values: speeds},
		{Name: "Accuracy", Values: MovingAverage(accs, window)},
	})
}

// RenderRoundTable prints one line per round.
func RenderRoundTable(w io.Writer, rounds []model.RoundRecord) error {
	if len(rounds) == 0 {
		_, err := fmt.Fprintln(w, "No rounds played.")
		return err
	}
	headers := []string{"Game", "Round", "Shown", "Typed", "Outcome", "Score", "Speed", "Reflash"}
	rows := make([][]string, 0, len(rounds))
	for _, r := range rounds {
		rows = append(rows, RoundRow(r))
	}
	return writeTable(w, "Rounds", headers, rows, map[int]bool{0: true, 1: true, 5: true, 6: true, 7: true})
}

// RoundRow formats a round for tables.
func RoundRow(r model.RoundRecord) []string {
	return []string{
		fmt.Sprintf("%d", r.GameID),
		fmt.Sprintf("%d", r.Round),
		r.Target,
		r.Guess,
		r.Outcome,
		fmt.Sprintf("%d", r.Score),
		formatSpeed(r.SpeedBefore),
		fmt.Sprintf("%d", r.Reflashes),
	}
}

// RenderLetterTable prints per-letter recall, weakest first.
func RenderLetterTable(w io.Writer, aggs []model.LetterAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No letter stats yet.")
		return err
	}
	headers := []string{"Letter", "Shown", "In place", "Recalled", "Missed"}
	rows := make([][]string, 0, len(aggs))
	for _, a := range SortByRecall(aggs) {
		rows = append(rows, []string{
			a.Letter,
			fmt.Sprintf("%d", a.Shown),
			percent(a.Placed, a.Shown),
			percent(a.Recalled, a.Shown),
			fmt.Sprintf("%d", a.Missed()),
		})
	}
	return writeTable(w, "Letters", headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true})
}

func writeTable(w io.Writer, title string, headers []string, rows [][]string, rightAlign map[int]bool) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func percent(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", float64(n)/float64(total)*100)
}

func formatSpeed(d time.Duration) string {
	return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
}
