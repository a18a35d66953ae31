// Package scoring maps a guess against the flashed sequence to points,
// speed changes and accuracy credit.
package scoring

// Mark is the per-position result of a guess.
type Mark int

const (
	// MarkMiss means the guessed symbol was not shown, or every copy of it
	// was already consumed by another position.
	MarkMiss Mark = iota
	// MarkLetter means the symbol was shown but at a different position.
	MarkLetter
	// MarkPosition means the symbol matches the target at this position.
	MarkPosition
)

func (m Mark) String() string {
	switch m {
	case MarkPosition:
		return "position"
	case MarkLetter:
		return "letter"
	default:
		return "miss"
	}
}

// Match summarizes a guess.
type Match struct {
	Marks    []Mark
	Position int
	Letter   int
	Miss     int
}

// Perfect reports whether every position matched.
func (m Match) Perfect() bool {
	return len(m.Marks) > 0 && m.Position == len(m.Marks)
}

// Complete reports whether every guessed symbol was shown, regardless of order.
func (m Match) Complete() bool {
	return len(m.Marks) > 0 && m.Miss == 0
}

// Credit is the fractional accuracy credit earned by the guess.
func (m Match) Credit() float64 {
	return float64(m.Position) + 0.5*float64(m.Letter)
}

// Evaluate compares guess to target in two passes.
//
// Pass 1 marks exact positions and consumes those target slots. Pass 2 gives
// each remaining guess symbol the first unconsumed target slot holding the
// same symbol. Whatever is left is a miss. Guess positions beyond the target
// length are misses.
func Evaluate(target, guess []rune) Match {
	m := Match{Marks: make([]Mark, len(guess))}
	consumed := make([]bool, len(target))
	for i, r := range guess {
		if i < len(target) && target[i] == r {
			m.Marks[i] = MarkPosition
			consumed[i] = true
		}
	}
	for i, r := range guess {
		if m.Marks[i] == MarkPosition {
			continue
		}
		for j, t := range target {
			if !consumed[j] && t == r {
				m.Marks[i] = MarkLetter
				consumed[j] = true
				break
			}
		}
	}
	for _, mark := range m.Marks {
		switch mark {
		case MarkPosition:
			m.Position++
		case MarkLetter:
			m.Letter++
		default:
			m.Miss++
		}
	}
	return m
}
