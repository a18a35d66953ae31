package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Letter", "Shown", "Recalled"}
	rows := [][]string{
		{"A", "12", "75%"},
		{"Q", "3", "100%"},
	}
	lines := formatTable(headers, rows, map[int]bool{1: true, 2: true})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Letter Shown Recalled" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "A         12      75%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Q          3     100%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"K", "V"}, [][]string{{"字", "1"}}, nil)
	if lines[0] != "K  V" || lines[1] != "字 1" {
		t.Fatalf("unexpected wide layout: %q", lines)
	}
}
