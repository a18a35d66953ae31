package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/glyphflash/internal/scoring"
)

// wrapText breaks text on spaces so no line exceeds width cells. Words
// longer than width get a line of their own.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+w > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += w
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// renderMarks shows each typed letter colored by how it matched.
func renderMarks(guess []rune, marks []scoring.Mark) string {
	cells := make([]string, len(guess))
	for i, r := range guess {
		style := missStyle
		if i < len(marks) {
			switch marks[i] {
			case scoring.MarkPosition:
				style = placedStyle
			case scoring.MarkLetter:
				style = misplacedStyle
			}
		}
		cells[i] = style.Render(string(r))
	}
	return strings.Join(cells, " ")
}
