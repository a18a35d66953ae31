package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/glyphflash/internal/scoring"
)

func TestWrapTextBreaksOnSpaces(t *testing.T) {
	got := wrapText("All glyphs correct, but wrong order.", 12)
	want := "All glyphs\ncorrect, but\nwrong order."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapTextLongWord(t *testing.T) {
	got := wrapText("a abcdefghij b", 4)
	if got != "a\nabcdefghij\nb" {
		t.Fatalf("unexpected wrap %q", got)
	}
}

func TestWrapTextNoWidth(t *testing.T) {
	if got := wrapText("keep  as is", 0); got != "keep  as is" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestRenderMarksStyles(t *testing.T) {
	m := scoring.Evaluate([]rune("ABC"), []rune("CBX"))
	out := renderMarks([]rune("CBX"), m.Marks)
	parts := strings.Split(out, " ")
	if len(parts) != 3 {
		t.Fatalf("expected 3 cells, got %q", out)
	}
	if parts[0] != misplacedStyle.Render("C") || parts[1] != placedStyle.Render("B") || parts[2] != missStyle.Render("X") {
		t.Fatalf("unexpected styling %q", out)
	}
}
