package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arkanoid/internal/level"
	"github.com/vovakirdan/arkanoid/internal/storage"
)

const (
	historyLimit  = 50 // Runs loaded per level
	progressWidth = 10 // Cells in the bricks-cleared bar
	wideHistory   = 90 // Terminal width for full dates
)

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardCardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	boardActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57")).
				Padding(0, 1)
)

// historyFilter selects which runs the history table lists.
type historyFilter int

const (
	filterAll historyFilter = iota
	filterCleared
)

func (f historyFilter) String() string {
	if f == filterCleared {
		return "cleared only"
	}
	return "all runs"
}

// ScoreboardKeyMap defines the key bindings for the run history screen.
type ScoreboardKeyMap struct {
	Scroll    key.Binding
	NextLevel key.Binding
	PrevLevel key.Binding
	Filter    key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.PrevLevel, k.NextLevel, k.Filter, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Scroll: key.NewBinding(
			key.WithKeys("up", "down", "k", "j"),
			key.WithHelp("↑/↓", "scroll"),
		),
		NextLevel: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→", "next level"),
		),
		PrevLevel: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("←", "prev level"),
		),
		Filter: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cleared only"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel shows the stored run history of one level at a time:
// a summary card built from the level statistics and a table of recent
// runs with their outcome and how much of the wall they cleared.
type ScoreboardModel struct {
	levels []level.Info
	cursor int
	store  *storage.Store

	summary map[string]*storage.LevelStats // Every level with runs, for the level strip
	runs    []storage.RunRecord
	filter  historyFilter

	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a run history screen. store may be nil.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		levels: level.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.help.Width = width
	m.table = newHistoryTable(width, height)
	m.reload()
	return m
}

// newHistoryTable sizes the run table to the terminal.
func newHistoryTable(width, height int) table.Model {
	when := 14
	if width >= wideHistory {
		when = 18
	}
	columns := []table.Column{
		{Title: "When", Width: when},
		{Title: "Result", Width: 10},
		{Title: "Bricks", Width: 7},
		{Title: "Cleared", Width: progressWidth + 5},
		{Title: "Time", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(height-14, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// reload fetches the level summaries and the selected level's runs.
func (m *ScoreboardModel) reload() {
	m.summary, m.runs = nil, nil
	if m.store != nil && len(m.levels) > 0 {
		if all, err := m.store.GetAllLevelStats(); err == nil {
			m.summary = all
		}
		if runs, err := m.store.RecentRuns(m.Selected(), historyLimit); err == nil {
			m.runs = runs
		}
	}
	m.fillTable()
}

// fillTable rebuilds the table rows from the loaded runs and the filter.
func (m *ScoreboardModel) fillTable() {
	rows := make([]table.Row, 0, len(m.runs))
	for _, r := range m.visibleRuns() {
		rows = append(rows, table.Row{
			formatWhen(r, m.width >= wideHistory),
			outcomeLabel(r.Outcome),
			fmt.Sprintf("%d/%d", r.Score, r.TotalBricks),
			progressBar(r.Score, r.TotalBricks),
			formatClock(r.Duration),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m ScoreboardModel) visibleRuns() []storage.RunRecord {
	if m.filter == filterAll {
		return m.runs
	}
	out := make([]storage.RunRecord, 0, len(m.runs))
	for _, r := range m.runs {
		if r.Outcome == storage.OutcomeLevelWon {
			out = append(out, r)
		}
	}
	return out
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextLevel):
			m.step(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevLevel):
			m.step(-1)
			return m, nil
		case key.Matches(msg, m.keys.Filter):
			m.filter = (m.filter + 1) % 2
			m.fillTable()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = newHistoryTable(msg.Width, msg.Height)
		m.fillTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// step moves the level cursor by delta, wrapping around.
func (m *ScoreboardModel) step(delta int) {
	if len(m.levels) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.levels)) % len(m.levels)
	m.reload()
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString(boardTitleStyle.Render(centerText("RUN HISTORY", m.width)))
	b.WriteString("\n\n")

	if len(m.levels) == 0 {
		b.WriteString(boardDimStyle.Render("No levels registered."))
		return b.String()
	}

	b.WriteString(centerText(m.levelStrip(), m.width))
	b.WriteString("\n\n")
	b.WriteString(boardCardStyle.Render(m.summaryCard()))
	b.WriteString("\n")

	if len(m.visibleRuns()) == 0 {
		empty := "No runs recorded yet. Clear some bricks!"
		if m.filter == filterCleared && len(m.runs) > 0 {
			empty = "This level has not been cleared yet."
		}
		b.WriteString(boardDimStyle.Italic(true).Padding(1, 2).Render(empty))
	} else {
		b.WriteString(boardCardStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(boardDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// levelStrip lists every level with its best score, the current one
// highlighted. Falls back to the current level alone when too wide.
func (m ScoreboardModel) levelStrip() string {
	parts := make([]string, len(m.levels))
	plain := 0
	for i, l := range m.levels {
		label := fmt.Sprintf("%s %d/%d", l.Name, m.best(l.ID), l.Bricks)
		plain += len(label) + 3
		if i == m.cursor {
			parts[i] = boardActiveStyle.Render(label)
		} else {
			parts[i] = boardDimStyle.Render(" " + label + " ")
		}
	}
	if plain > m.width-4 {
		cur := m.levels[m.cursor]
		return fmt.Sprintf("← %s %d/%d →", cur.Name, m.best(cur.ID), cur.Bricks)
	}
	return strings.Join(parts, " ")
}

func (m ScoreboardModel) best(levelID string) int {
	if s, ok := m.summary[levelID]; ok {
		return s.HighScore
	}
	return 0
}

// summaryCard renders the statistics of the selected level.
func (m ScoreboardModel) summaryCard() string {
	l := m.levels[m.cursor]
	head := boardTitleStyle.Render(l.Name) + boardDimStyle.Render(fmt.Sprintf("  %d bricks, %s", l.Bricks, m.filter))

	s, ok := m.summary[l.ID]
	if !ok || s.Runs == 0 {
		return head + "\n" + boardDimStyle.Render("not played yet")
	}
	return head + "\n" + statsLine(s, l.Bricks)
}

// statsLine summarizes a level's runs.
func statsLine(s *storage.LevelStats, bricks int) string {
	return fmt.Sprintf("Best %d/%d  Runs: %d  Cleared: %d (%d%%)  Avg: %.1f  Last %s",
		s.HighScore, bricks, s.Runs, s.Wins, s.Wins*100/s.Runs, s.AvgScore, s.LastPlayed.Format("Jan 02 15:04"))
}

func outcomeLabel(outcome string) string {
	switch outcome {
	case storage.OutcomeLevelWon:
		return "CLEARED"
	case storage.OutcomeGameOver:
		return "game over"
	case storage.OutcomeQuit:
		return "quit"
	}
	return outcome
}

// progressBar draws the share of bricks destroyed in a run.
func progressBar(score, total int) string {
	if total <= 0 {
		return strings.Repeat("░", progressWidth) + "   0%"
	}
	score = min(max(score, 0), total)
	filled := score * progressWidth / total
	return strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled) + fmt.Sprintf(" %3d%%", score*100/total)
}

// formatClock renders seconds as m:ss.
func formatClock(secs int) string {
	secs = max(secs, 0)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func formatWhen(r storage.RunRecord, long bool) string {
	if r.CreatedAt.IsZero() {
		return "-"
	}
	if long {
		return r.CreatedAt.Format("2006-01-02 15:04")
	}
	return r.CreatedAt.Format("Jan 02 15:04")
}

// Selected returns the ID of the level being shown.
func (m ScoreboardModel) Selected() string {
	if len(m.levels) == 0 {
		return ""
	}
	return m.levels[m.cursor].ID
}

// IsGoingBack returns true if user wants to go back to the level menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the run history screen. It reports whether the user
// asked to go back to the level menu.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if m, ok := final.(ScoreboardModel); ok {
		return m.IsGoingBack(), nil
	}
	return false, nil
}
