package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series is a named sequence of values.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight = 8
	minPlotWidth      = 10
	fallbackWidth     = 80
	axisLabelWidth    = 4
	axisSeparator     = " │ "
	colorReset        = "\x1b[0m"
)

var seriesColors = []string{
	"\x1b[36m", // cyan
	"\x1b[33m", // yellow
	"\x1b[35m", // magenta
	"\x1b[32m", // green
}

// Plot renders series as braille line charts. Each series is scaled to its
// own range, so the left axis shows "hi" and "lo" instead of values.
type Plot struct {
	Title  string
	Width  int
	Height int
	// Color forces ANSI colors; without it colors are used only on a terminal.
	Color bool
}

// PlotWidthFor computes the plot area that fits next to the axis.
func PlotWidthFor(totalWidth int) int {
	return max(minPlotWidth, totalWidth-axisLabelWidth-runewidth.StringWidth(axisSeparator))
}

// Render writes the chart to w. Empty series are skipped.
func (p Plot) Render(w io.Writer, series []Series) error {
	var kept []Series
	for _, s := range series {
		if len(s.Values) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	width := p.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)
	height := p.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	color := useColor(w, p.Color)

	layers := make([]*canvas, len(kept))
	ranges := make([][2]float64, len(kept))
	for i, s := range kept {
		values := resample(s.Values, width)
		lo, hi := bounds(values)
		ranges[i] = [2]float64{lo, hi}
		layers[i] = newCanvas(width, height)
		layers[i].polyline(values, lo, hi)
	}

	var b strings.Builder
	if p.Title != "" {
		b.WriteString(p.Title + "\n")
	}
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = "hi"
		case height - 1:
			label = "lo"
		}
		fmt.Fprintf(&b, "%*s%s", axisLabelWidth, label, axisSeparator)
		for x := 0; x < width; x++ {
			var mask uint8
			owner := -1
			for i, layer := range layers {
				if m := layer.cells[y][x]; m != 0 {
					mask |= m
					if owner < 0 {
						owner = i
					}
				}
			}
			ch := rune(0x2800 + int(mask))
			if color && owner >= 0 {
				b.WriteString(seriesColors[owner%len(seriesColors)])
				b.WriteRune(ch)
				b.WriteString(colorReset)
				continue
			}
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}
	for i, s := range kept {
		label := fmt.Sprintf("%s %.1f..%.1f", s.Name, ranges[i][0], ranges[i][1])
		if color {
			label = seriesColors[i%len(seriesColors)] + label + colorReset
		}
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(label)
	}
	b.WriteString("\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// canvas is a grid of braille cells, two dots wide and four dots tall each.
type canvas struct {
	cells [][]uint8
	w, h  int
}

// Braille dot bits indexed by [row][column] within a cell.
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for i := range cells {
		cells[i] = make([]uint8, width)
	}
	return &canvas{cells: cells, w: width * 2, h: height * 4}
}

func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y/4][x/2] |= dotBits[y%4][x%2]
}

// polyline connects one point per column, lo at the bottom row.
func (c *canvas) polyline(values []float64, lo, hi float64) {
	prevX, prevY := -1, 0
	for i, v := range values {
		x := i * 2
		y := int(math.Round((hi - v) / (hi - lo) * float64(c.h-1)))
		y = min(max(y, 0), c.h-1)
		if prevX < 0 {
			c.set(x, y)
		} else {
			c.line(prevX, prevY, x, y)
		}
		prevX, prevY = x, y
	}
}

func (c *canvas) line(x0, y0, x1, y1 int) {
	steps := max(abs(x1-x0), abs(y1-y0))
	if steps == 0 {
		c.set(x0, y0)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + int(math.Round(t*float64(x1-x0)))
		y := y0 + int(math.Round(t*float64(y1-y0)))
		c.set(x, y)
	}
}

// resample stretches or averages values to exactly width points.
func resample(values []float64, width int) []float64 {
	out := make([]float64, width)
	n := len(values)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			start := i * n / width
			end := max((i+1)*n/width, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(n-1) / float64(width-1)
			idx := min(int(pos), n-2)
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

// bounds returns the value range, widened when flat.
func bounds(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return lo - 1, hi + 1
	}
	return lo, hi
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

func useColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
