package generator

import "testing"

func TestGenerateUniqueForAllDifficulties(t *testing.T) {
	gen := NewWithSeed(42)
	for count := 1; count <= 7; count++ {
		for i := 0; i < 200; i++ {
			seq := gen.Generate(count)
			if len(seq) != count {
				t.Fatalf("expected %d letters, got %d", count, len(seq))
			}
			seen := map[rune]bool{}
			for _, r := range seq {
				if !IsLetter(r) {
					t.Fatalf("unexpected symbol %q in %v", r, seq)
				}
				if seen[r] {
					t.Fatalf("duplicate symbol %q in %v", r, seq)
				}
				seen[r] = true
			}
		}
	}
}

func TestGenerateClampsCount(t *testing.T) {
	gen := NewWithSeed(1)
	if got := len(gen.Generate(0)); got != 1 {
		t.Fatalf("expected count clamped to 1, got %d", got)
	}
	if got := len(gen.Generate(40)); got != len(Alphabet) {
		t.Fatalf("expected count clamped to %d, got %d", len(Alphabet), got)
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	a := NewWithSeed(7).Generate(5)
	b := NewWithSeed(7).Generate(5)
	if a.String() != b.String() {
		t.Fatalf("expected identical sequences, got %s and %s", a, b)
	}
}

func TestSequenceString(t *testing.T) {
	if got := (Sequence{'A', 'B', 'C'}).String(); got != "A, B, C" {
		t.Fatalf("unexpected string: %q", got)
	}
}
