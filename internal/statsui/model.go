// Package statsui provides the Bubble Tea session history screen.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/glyphflash/internal/model"
	"github.com/verte-zerg/glyphflash/internal/stats"
)

const (
	tabOverview = iota
	tabRounds
	tabLetters
)

const plotHeight = 8

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Loader fetches the current session report.
type Loader func(ctx context.Context) (stats.Report, error)

// CloseMsg asks the parent to leave the history screen.
type CloseMsg struct{}

// Model implements the history screen.
type Model struct {
	load   Loader
	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	tables    map[int]*table.Model
	window    int

	width  int
	height int
}

// NewModel constructs the history screen.
func NewModel(load Loader) *Model {
	m := &Model{
		load:     load,
		tabs:     []string{"Overview", "Rounds", "Letters"},
		overview: viewport.New(0, 0),
		window:   1,
	}
	rounds := newTable(roundColumns())
	letters := newTable(letterColumns())
	m.tables = map[int]*table.Model{tabRounds: &rounds, tabLetters: &letters}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Refresh reloads the report.
func (m *Model) Refresh() {
	if m.load == nil {
		return
	}
	report, err := m.load(context.Background())
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load history.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.tables[tabRounds].SetRows(roundRows(report.Rounds))
	m.tables[tabLetters].SetRows(letterRows(report.Letters))
	m.renderOverview()
}

// Report returns the last loaded report.
func (m *Model) Report() stats.Report {
	return m.report
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "esc", "q":
			return m, func() tea.Msg { return CloseMsg{} }
		case "left", "h":
			m.moveTab(-1)
			return m, nil
		case "right", "l":
			m.moveTab(1)
			return m, nil
		case "=":
			m.window = nextCurveWindow(m.window)
			m.renderOverview()
			return m, nil
		case "-":
			m.window = prevCurveWindow(m.window)
			m.renderOverview()
			return m, nil
		case "g", "home":
			if t, ok := m.tables[m.activeTab]; ok {
				t.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if t, ok := m.tables[m.activeTab]; ok {
				t.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if t, ok := m.tables[m.activeTab]; ok {
			*t, cmd = t.Update(msg)
			return m, cmd
		}
		m.overview, cmd = m.overview.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(1, lipgloss.Height(activeNavStyle.Render("X")))
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	for _, t := range m.tables {
		t.SetWidth(m.width)
		t.SetHeight(max(1, bodyHeight-1))
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	for i, t := range m.tables {
		if i == m.activeTab {
			t.Focus()
		} else {
			t.Blur()
		}
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render(fmt.Sprintf("Nav: left/right  Scroll: up/down  Window: -/= (%d)  Back: tab/esc", m.window))
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if len(m.report.Rounds) == 0 && m.errMsg == "" {
		return "No rounds played yet."
	}
	if t, ok := m.tables[m.activeTab]; ok {
		return tableMutedStyle.Render(t.View())
	}
	return m.overview.View()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, m.window, width))
}

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Rounds) == 0 {
		return "No rounds played yet."
	}
	cards := renderSummaryCards(report.Summary, width)
	var buf bytes.Buffer
	if err := stats.RenderCurves(&buf, report.Rounds, window, width, plotHeight, true); err != nil {
		return cards + "\n\n" + fmt.Sprintf("Failed to render curves: %v", err)
	}
	out := cards + "\n\n" + buf.String()
	if hard := stats.HardestLetters(report.Letters, 5); len(hard) > 0 {
		out += headerStyle.Render("Hardest letters: " + strings.Join(hard, " "))
	}
	return strings.TrimRight(out, "\n")
}

func renderSummaryCards(s stats.Summary, width int) string {
	fastest := "-"
	if s.Fastest > 0 {
		fastest = fmt.Sprintf("%dms", s.Fastest.Milliseconds())
	}
	cards := []string{
		metricCard("Games", fmt.Sprintf("%d", s.Games)),
		metricCard("Rounds", fmt.Sprintf("%d", s.Rounds)),
		metricCard("Best game", fmt.Sprintf("%d", s.BestGame)),
		metricCard("Fastest", fastest),
		metricCard("Accuracy", fmt.Sprintf("%.1f%%", s.Accuracy)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func newTable(columns []table.Column) table.Model {
	t := table.New(table.WithColumns(columns), table.WithHeight(1))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.Padding(0, 1).PaddingLeft(0)
	styles.Selected = styles.Cell.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	t.SetStyles(styles)
	return t
}

func roundColumns() []table.Column {
	return []table.Column{
		{Title: "Game", Width: 5},
		{Title: "Round", Width: 6},
		{Title: "Shown", Width: 8},
		{Title: "Typed", Width: 8},
		{Title: "Outcome", Width: 10},
		{Title: "Score", Width: 6},
		{Title: "Speed", Width: 7},
		{Title: "Reflash", Width: 8},
	}
}

func roundRows(rounds []model.RoundRecord) []table.Row {
	rows := make([]table.Row, 0, len(rounds))
	// Latest first.
	for i := len(rounds) - 1; i >= 0; i-- {
		rows = append(rows, table.Row(stats.RoundRow(rounds[i])))
	}
	return rows
}

func letterColumns() []table.Column {
	return []table.Column{
		{Title: "Letter", Width: 7},
		{Title: "Shown", Width: 6},
		{Title: "In place", Width: 9},
		{Title: "Recalled", Width: 9},
		{Title: "Missed", Width: 7},
	}
}

func letterRows(aggs []model.LetterAggregate) []table.Row {
	rows := make([]table.Row, 0, len(aggs))
	for _, a := range stats.SortByRecall(aggs) {
		rows = append(rows, table.Row{
			a.Letter,
			fmt.Sprintf("%d", a.Shown),
			pct(a.Placed, a.Shown),
			pct(a.Recalled, a.Shown),
			fmt.Sprintf("%d", a.Missed()),
		})
	}
	return rows
}

func pct(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", float64(n)/float64(total)*100)
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w < width {
			lines[i] = line + strings.Repeat(" ", width-w)
		}
	}
	return strings.Join(lines, "\n")
}
