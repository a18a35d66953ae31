// Package generator builds the letter sequences flashed each round.
package generator

import (
	"math/rand"
	"time"
)

// Alphabet is the symbol set sequences are drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Sequence is the ordered set of distinct symbols shown in one round.
type Sequence []rune

// String renders the sequence as comma-separated letters.
func (s Sequence) String() string {
	out := make([]byte, 0, len(s)*3)
	for i, r := range s {
		if i > 0 {
			out = append(out, ',', ' ')
		}
		out = append(out, byte(r))
	}
	return string(out)
}

// Contains reports whether r is part of the sequence.
func (s Sequence) Contains(r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

// Generator produces random letter sequences.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate draws count distinct letters, rejecting duplicates until enough
// unique symbols are collected. Count is clamped to [1, len(Alphabet)].
func (g *Generator) Generate(count int) Sequence {
	if count < 1 {
		count = 1
	}
	if count > len(Alphabet) {
		count = len(Alphabet)
	}
	seq := make(Sequence, 0, count)
	for len(seq) < count {
		letter := rune(Alphabet[g.rnd.Intn(len(Alphabet))])
		if seq.Contains(letter) {
			continue
		}
		seq = append(seq, letter)
	}
	return seq
}

// IsLetter reports whether r belongs to the alphabet.
func IsLetter(r rune) bool {
	return r >= 'A' && r <= 'Z'
}
