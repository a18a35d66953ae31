// Package tui provides the Bubble Tea game interface.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/glyphflash/internal/game"
	"github.com/verte-zerg/glyphflash/internal/generator"
	"github.com/verte-zerg/glyphflash/internal/scoring"
	"github.com/verte-zerg/glyphflash/internal/stats"
	"github.com/verte-zerg/glyphflash/internal/statsui"
)

// DefaultFPS is the frame rate driving every timer.
const DefaultFPS = 60

type tickMsg time.Time

// Cues plays audio feedback.
type Cues interface {
	PlayFlash(index int)
	PlayMiss()
}

// Options configures the UI around a machine.
type Options struct {
	FPS      int
	Cues     Cues
	Recorder *Recorder
	History  *statsui.Model
	Logger   zerolog.Logger
}

// Model implements the Bubble Tea game UI.
type Model struct {
	machine *game.Machine
	rec     *Recorder
	history *statsui.Model
	cues    Cues
	log     zerolog.Logger
	frame   time.Duration
	now     func() time.Time

	cells        []textinput.Model
	focus        int
	inputEnabled bool
	lastShows    int
	notice       string
	showHistory  bool

	width  int
	height int
}

var (
	// Per-position flash colors; the first three follow red, green, blue.
	letterColors = []lipgloss.Color{"#FF2D2D", "#16C172", "#2D9CFF", "#C89A3A", "#B36BFF", "#FF8C42", "#3DD6D0"}

	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	flashBoxStyle  = lipgloss.NewStyle().Width(9).Height(3).Align(lipgloss.Center, lipgloss.Center).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
	flashStyle     = lipgloss.NewStyle().Bold(true)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
	focusCellStyle = cellStyle.BorderForeground(lipgloss.Color("#C89A3A"))
	placedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#16C172")).Bold(true)
	misplacedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	missStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	tagStyles      = map[string]lipgloss.Style{
		game.TagBonus:     lipgloss.NewStyle().Foreground(lipgloss.Color("#16C172")).Bold(true),
		game.TagCorrect:   lipgloss.NewStyle().Foreground(lipgloss.Color("#2D9CFF")),
		game.TagIncorrect: missStyle,
		game.TagInfo:      mutedStyle,
	}
)

// NewModel wraps machine in a UI.
func NewModel(machine *game.Machine, opts Options) *Model {
	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	m := &Model{
		machine: machine,
		rec:     opts.Recorder,
		history: opts.History,
		cues:    opts.Cues,
		log:     opts.Logger,
		frame:   time.Second / time.Duration(fps),
		now:     time.Now,
	}
	if m.history == nil {
		m.history = statsui.NewModel(nil)
	}
	m.resetCells(machine.Config().Letters)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), textinput.Blink)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.history.Update(msg)
		return m, nil
	case tickMsg:
		m.machine.Tick(time.Time(msg))
		return m, tea.Batch(m.tick(), m.sync())
	case statsui.CloseMsg:
		m.showHistory = false
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.showHistory {
			_, cmd := m.history.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)
	}
	if len(m.cells) > 0 {
		var cmd tea.Cmd
		m.cells[m.focus], cmd = m.cells[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.showHistory {
		return m.history.View()
	}
	snap := m.machine.Snapshot()
	width := m.width
	if width <= 0 {
		width = 80
	}
	contentWidth := max(20, width*7/10)

	parts := []string{
		titleStyle.Render("GLYPHFLASH"),
		mutedStyle.Render(m.renderSettings(snap)),
		"",
		renderFlash(snap),
		m.renderCells(),
	}
	if snap.Result != nil {
		parts = append(parts, mutedStyle.Render("Shown: "+snap.Result.Target.String()), renderMarks(snap.Result.Guess, snap.Result.Match.Marks))
	}
	if snap.Feedback.Text != "" {
		style, ok := tagStyles[snap.Feedback.Tag]
		if !ok {
			style = mutedStyle
		}
		parts = append(parts, style.Render(wrapText(snap.Feedback.Text, contentWidth)))
	}
	if snap.Countdown != "" {
		parts = append(parts, titleStyle.Render(snap.Countdown))
	}
	if snap.Tier != nil {
		parts = append(parts, titleStyle.Render(fmt.Sprintf("Game over: %d points. %s", snap.Score, snap.Tier.Message)))
	}
	if m.notice != "" {
		parts = append(parts, missStyle.Render(m.notice))
	}
	parts = append(parts, "", footerStyle.Render(m.renderHelp(snap)))
	content := lipgloss.JoinVertical(lipgloss.Center, parts...)

	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter(snap)
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footer := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.renderFooter(snap))
	return body + "\n" + footer
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// sync mirrors the machine into the input cells and plays flash cues.
func (m *Model) sync() tea.Cmd {
	snap := m.machine.Snapshot()
	if snap.Frame.Shows != m.lastShows {
		if snap.Frame.Visible && m.cues != nil {
			m.cues.PlayFlash(snap.Frame.Index)
		}
		m.lastShows = snap.Frame.Shows
	}
	if len(m.cells) != snap.Letters || (snap.State == game.StateCountdown && m.dirty()) {
		m.resetCells(snap.Letters)
	}
	var cmd tea.Cmd
	switch {
	case snap.InputEnabled && !m.inputEnabled:
		cmd = m.setFocus(m.firstEmpty())
	case !snap.InputEnabled && m.inputEnabled:
		m.blurCells()
	}
	m.inputEnabled = snap.InputEnabled
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := m.now()
	m.notice = ""
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab":
		if snap := m.machine.Snapshot(); !snap.CanConfigure && !snap.CanAdvance {
			m.notice = "History is available between rounds."
			return m, nil
		}
		m.showHistory = true
		m.history.Refresh()
		if m.width > 0 && m.height > 0 {
			m.history.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		}
		return m, nil
	case "ctrl+n":
		m.machine.StartGame(now)
		return m, m.sync()
	case "ctrl+r":
		if err := m.machine.RequestReflash(now); err != nil {
			m.notice = reflashError(err)
		}
		return m, m.sync()
	case "enter":
		return m, m.handleEnter(now)
	case "left":
		if m.inputEnabled {
			return m, m.setFocus(m.focus - 1)
		}
		return m, nil
	case "right":
		if m.inputEnabled {
			return m, m.setFocus(m.focus + 1)
		}
		return m, nil
	case "backspace", "delete":
		if m.inputEnabled {
			return m, m.backspace()
		}
		return m, nil
	}
	if msg.Type != tea.KeyRunes {
		return m, nil
	}
	snap := m.machine.Snapshot()
	switch {
	case snap.CanConfigure:
		m.handleOption(msg.Runes)
		return m, m.sync()
	case snap.InputEnabled:
		return m, m.typeRunes(msg.Runes)
	}
	return m, nil
}

func (m *Model) handleEnter(now time.Time) tea.Cmd {
	snap := m.machine.Snapshot()
	switch {
	case snap.CanSubmit && m.focus < len(m.cells)-1:
		return m.setFocus(m.focus + 1)
	case snap.CanSubmit:
		res, err := m.machine.SubmitAnswer(m.values(), now)
		if err != nil {
			if errors.Is(err, game.ErrInvalidGuess) {
				return m.setFocus(m.firstEmpty())
			}
			m.log.Debug().Err(err).Msg("submit rejected")
			return nil
		}
		if res.Outcome == scoring.OutcomeMistake && m.cues != nil {
			m.cues.PlayMiss()
		}
	case snap.CanAdvance:
		if err := m.machine.AdvanceRound(now); err != nil {
			m.log.Debug().Err(err).Msg("advance rejected")
		}
	case !snap.Active:
		m.machine.StartGame(now)
	}
	return m.sync()
}

func (m *Model) handleOption(runes []rune) {
	for _, r := range runes {
		var err error
		cfg := m.machine.Config()
		switch {
		case r >= '1' && r <= '9':
			err = m.machine.SetDifficulty(int(r - '0'))
		case r == 'm':
			next := game.ProgressionManual
			if cfg.Progression == game.ProgressionManual {
				next = game.ProgressionAuto
			}
			err = m.machine.SetProgression(next)
		case r == 'p':
			next := scoring.PolicyPartial
			if cfg.Policy == scoring.PolicyPartial {
				next = scoring.PolicySimple
			}
			err = m.machine.SetPolicy(next)
		default:
			continue
		}
		if err != nil {
			m.notice = err.Error()
		}
	}
}

func (m *Model) typeRunes(runes []rune) tea.Cmd {
	var cmd tea.Cmd
	for _, r := range runes {
		r = unicode.ToUpper(r)
		if !generator.IsLetter(r) {
			continue
		}
		m.cells[m.focus].SetValue(string(r))
		if m.focus < len(m.cells)-1 {
			cmd = m.setFocus(m.focus + 1)
		}
	}
	return cmd
}

func (m *Model) backspace() tea.Cmd {
	if m.cells[m.focus].Value() != "" {
		m.cells[m.focus].SetValue("")
		return nil
	}
	if m.focus == 0 {
		return nil
	}
	cmd := m.setFocus(m.focus - 1)
	m.cells[m.focus].SetValue("")
	return cmd
}

func (m *Model) resetCells(n int) {
	n = max(1, n)
	m.cells = make([]textinput.Model, n)
	for i := range m.cells {
		input := textinput.New()
		input.Prompt = ""
		input.CharLimit = 1
		input.Width = 1
		input.Cursor.SetMode(cursor.CursorStatic)
		m.cells[i] = input
	}
	m.focus = 0
	m.inputEnabled = false
}

func (m *Model) setFocus(idx int) tea.Cmd {
	if len(m.cells) == 0 {
		return nil
	}
	idx = min(max(idx, 0), len(m.cells)-1)
	m.focus = idx
	var cmd tea.Cmd
	for i := range m.cells {
		if i == idx {
			cmd = m.cells[i].Focus()
		} else {
			m.cells[i].Blur()
		}
	}
	return cmd
}

func (m *Model) blurCells() {
	for i := range m.cells {
		m.cells[i].Blur()
	}
}

func (m *Model) dirty() bool {
	if m.focus != 0 {
		return true
	}
	for _, c := range m.cells {
		if c.Value() != "" || c.Focused() {
			return true
		}
	}
	return false
}

func (m *Model) firstEmpty() int {
	for i, c := range m.cells {
		if strings.TrimSpace(c.Value()) == "" {
			return i
		}
	}
	return len(m.cells) - 1
}

func (m *Model) values() []string {
	out := make([]string, len(m.cells))
	for i, c := range m.cells {
		out[i] = c.Value()
	}
	return out
}

func (m *Model) renderCells() string {
	views := make([]string, len(m.cells))
	for i, c := range m.cells {
		style := cellStyle
		if m.inputEnabled && i == m.focus {
			style = focusCellStyle
		}
		view := c.Value()
		if view == "" {
			view = " "
		}
		if c.Focused() {
			view = c.View()
		}
		views[i] = style.Render(view)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

func renderFlash(snap game.Snapshot) string {
	content := " "
	switch {
	case snap.Frame.Visible:
		color := letterColors[snap.Frame.Index%len(letterColors)]
		content = flashStyle.Foreground(color).Render(string(snap.Frame.Letter))
	case snap.State == game.StateCountdown:
		content = mutedStyle.Render("ready")
	}
	return flashBoxStyle.Render(content)
}

func (m *Model) renderSettings(snap game.Snapshot) string {
	reflash := "off"
	if m.machine.Config().Reflash {
		reflash = "on"
	}
	return fmt.Sprintf("%d letters · %s · %s scoring · reflash %s", snap.Letters, snap.Progression, snap.Policy, reflash)
}

func (m *Model) renderHelp(snap game.Snapshot) string {
	switch {
	case !snap.Active:
		return "enter: start  1-7: letters  m: progression  p: policy  tab: history  esc: quit"
	case snap.CanSubmit:
		help := "type letters  enter: next cell/submit"
		if snap.CanReflash {
			help += "  ctrl+r: reflash"
		}
		return help + "  ctrl+n: restart  esc: quit"
	case snap.CanAdvance:
		return "enter: next round  ctrl+n: restart  tab: history  esc: quit"
	default:
		return "ctrl+n: restart  esc: quit"
	}
}

func (m *Model) renderFooter(snap game.Snapshot) string {
	round := "-"
	if snap.Round > 0 {
		round = fmt.Sprintf("%d", snap.Round)
	}
	if snap.RoundCap > 0 {
		round += fmt.Sprintf("/%d", snap.RoundCap)
	}
	speed := "N/A"
	if snap.Active {
		speed = fmt.Sprintf("%dms", snap.Speed.Milliseconds())
	}
	segments := []string{
		"Round " + round,
		fmt.Sprintf("Score %d", snap.Score),
		"Speed " + speed,
		fmt.Sprintf("Accuracy %.1f%%", snap.Accuracy),
	}
	if snap.Reflashes > 0 {
		segments = append(segments, fmt.Sprintf("Reflashes %d", snap.Reflashes))
	}
	if m.rec != nil && len(m.rec.Speeds()) > 1 {
		segments = append(segments, stats.Sparkline(m.rec.Speeds()))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func reflashError(err error) string {
	switch {
	case errors.Is(err, game.ErrReflashDisabled):
		return "Reflash is disabled."
	case errors.Is(err, game.ErrWrongState):
		return "Reflash is available once the flash has finished."
	default:
		return err.Error()
	}
}
