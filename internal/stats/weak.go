package stats

import (
	"sort"

	"github.com/verte-zerg/glyphflash/internal/model"
)

// SortByRecall returns a copy of aggs ordered by lowest recall rate, then by
// lowest in-place rate, then alphabetically.
func SortByRecall(aggs []model.LetterAggregate) []model.LetterAggregate {
	out := make([]model.LetterAggregate, len(aggs))
	copy(out, aggs)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rate(out[i].Recalled, out[i].Shown), rate(out[j].Recalled, out[j].Shown)
		if ri != rj {
			return ri < rj
		}
		pi, pj := rate(out[i].Placed, out[i].Shown), rate(out[j].Placed, out[j].Shown)
		if pi != pj {
			return pi < pj
		}
		return out[i].Letter < out[j].Letter
	})
	return out
}

// HardestLetters returns up to n letters that were missed at least once,
// weakest first.
func HardestLetters(aggs []model.LetterAggregate, n int) []string {
	if n <= 0 {
		return nil
	}
	var out []string
	for _, a := range SortByRecall(aggs) {
		if len(out) == n {
			break
		}
		if a.Missed() == 0 && a.Placed == a.Shown {
			continue
		}
		out = append(out, a.Letter)
	}
	return out
}

func rate(n, total int) float64 {
	if total == 0 {
		return 1
	}
	return float64(n) / float64(total)
}
