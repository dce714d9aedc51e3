package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"connect4/internal/board"
	"connect4/internal/game"
	"connect4/internal/history"
	"connect4/internal/replay"
	"connect4/internal/state"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Italic(true)
	lastStyle   = lipgloss.NewStyle().Reverse(true)
	boardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)
)

func chipStyle(p board.Player) lipgloss.Style {
	switch p {
	case board.Red:
		return redStyle
	case board.Yellow:
		return yellowStyle
	}
	return emptyStyle
}

func chip(p board.Player) string {
	if p == board.None {
		return emptyStyle.Render("·")
	}
	return chipStyle(p).Render("●")
}

// renderBoard draws b with the cell (lastRow, lastCol) highlighted. A cursor
// column >= 0 shows a marker above the board in the mover's color.
func renderBoard(b board.Board, lastRow, lastCol, cursor int, mover board.Player) string {
	var sb strings.Builder

	if cursor >= 0 {
		marks := make([]string, board.Columns)
		for c := range marks {
			marks[c] = " "
			if c == cursor {
				marks[c] = chipStyle(mover).Render("▼")
			}
		}
		sb.WriteString("  " + strings.Join(marks, " ") + "\n")
	}

	var grid strings.Builder
	for row := 0; row < board.Rows; row++ {
		cells := make([]string, board.Columns)
		for col := range cells {
			cell := chip(b.At(row, col))
			if row == lastRow && col == lastCol {
				cell = lastStyle.Render(cell)
			}
			cells[col] = cell
		}
		grid.WriteString(strings.Join(cells, " "))
		if row < board.Rows-1 {
			grid.WriteString("\n")
		}
	}
	sb.WriteString(boardStyle.Render(grid.String()))

	numbers := make([]string, board.Columns)
	for c := range numbers {
		numbers[c] = fmt.Sprint(c + 1)
	}
	sb.WriteString("\n  " + dimStyle.Render(strings.Join(numbers, " ")))
	return sb.String()
}

func playerLabel(s state.Settings, p board.Player) string {
	return chipStyle(p).Render("● " + s.Name(p))
}

// Play

type playKeys struct {
	Left    key.Binding
	Right   key.Binding
	Drop    key.Binding
	Column  key.Binding
	Forfeit key.Binding
	Rematch key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k playKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Drop, k.Forfeit, k.Rematch, k.Help, k.Quit}
}

func (k playKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Drop, k.Column},
		{k.Forfeit, k.Rematch, k.Help, k.Quit},
	}
}

var defaultPlayKeys = playKeys{
	Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Drop:    key.NewBinding(key.WithKeys("enter", " ", "down", "j"), key.WithHelp("enter", "drop")),
	Column:  key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7"), key.WithHelp("1-7", "drop in column")),
	Forfeit: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "forfeit")),
	Rematch: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rematch")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// tickMsg carries the generation of the game it was scheduled for, so a tick
// left over from a finished game never reaches its rematch.
type tickMsg struct {
	gen int
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

type playModel struct {
	session *game.Session
	gen     int
	column  int
	err     error
	keys    playKeys
	help    help.Model
}

func newPlayModel(sess *game.Session) *playModel {
	return &playModel{
		session: sess,
		column:  board.Columns / 2,
		keys:    defaultPlayKeys,
		help:    help.New(),
	}
}

func (m *playModel) ticking() tea.Cmd {
	if !m.session.CurrentGame.Clock.Enabled() {
		return nil
	}
	return tickCmd(m.gen)
}

func (m *playModel) Init() tea.Cmd {
	return m.ticking()
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	g := m.session.CurrentGame

	switch msg := msg.(type) {
	case tickMsg:
		if msg.gen != m.gen || g.IsOver() {
			return m, nil
		}
		m.err = g.HandleTick()
		if g.IsOver() {
			return m, nil
		}
		return m, tickCmd(m.gen)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Left):
			m.column = max(0, m.column-1)
		case key.Matches(msg, m.keys.Right):
			m.column = min(board.Columns-1, m.column+1)
		case key.Matches(msg, m.keys.Column):
			m.column = int(msg.String()[0] - '1')
			m.err = g.HandleDrop(m.column)
		case key.Matches(msg, m.keys.Drop):
			m.err = g.HandleDrop(m.column)
		case key.Matches(msg, m.keys.Forfeit):
			m.err = g.Forfeit()
		case key.Matches(msg, m.keys.Rematch):
			if err := m.session.Rematch(); err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.gen++
			m.column = board.Columns / 2
			return m, m.ticking()
		}
	}
	return m, nil
}

func (m *playModel) View() string {
	g := m.session.CurrentGame
	snap := g.Snapshot()
	settings := g.State.Settings

	var sb strings.Builder

	red := playerLabel(settings, board.Red)
	yellow := playerLabel(settings, board.Yellow)
	if snap.Timed {
		red += " " + clockText(snap, board.Red)
		yellow += " " + clockText(snap, board.Yellow)
	}
	sb.WriteString(boldStyle.Render("CONNECT 4") + "  " + red + dimStyle.Render("  vs  ") + yellow + "\n\n")

	cursor := m.column
	lastRow, lastCol := -1, -1
	if snap.HasLast {
		lastRow, lastCol = snap.LastRow, snap.LastColumn
	}
	if snap.Result.IsTerminal() {
		cursor = -1
	}
	sb.WriteString(renderBoard(snap.Board, lastRow, lastCol, cursor, snap.Current) + "\n\n")

	if snap.Result.IsTerminal() {
		sb.WriteString(boldStyle.Render(snap.Result.Headline(settings)))
		if g.SaveErr != nil {
			sb.WriteString("\n" + errorStyle.Render("Game could not be saved: "+g.SaveErr.Error()))
		}
	} else {
		sb.WriteString(fmt.Sprintf("%s to move (move %d)", playerLabel(settings, snap.Current), snap.Moves+1))
	}

	tally := m.session.Tally()
	if tally.Games() > 0 {
		sb.WriteString("\n" + dimStyle.Render(fmt.Sprintf("Session: %s %d  %s %d  draws %d",
			settings.RedPlayerName, tally.RedWins, settings.YellowPlayerName, tally.YellowWins, tally.Draws)))
	}

	if m.err != nil && !errors.Is(m.err, state.ErrGameOver) {
		sb.WriteString("\n" + errorStyle.Render(m.err.Error()))
	}

	sb.WriteString("\n\n" + m.help.View(m.keys))
	return sb.String()
}

// clockText colors the clock of p: bold while it runs, red under ten seconds.
func clockText(snap game.Snapshot, p board.Player) string {
	style := dimStyle
	if snap.Active == p && !snap.Result.IsTerminal() {
		style = boldStyle
	}
	if snap.Remaining[p] < 10*time.Second {
		style = style.Foreground(lipgloss.Color("9"))
	}
	return style.Render(snap.ClockText[p])
}

// Replay

type replayKeys struct {
	Back    key.Binding
	Forward key.Binding
	Start   key.Binding
	End     key.Binding
	Close   key.Binding
	Quit    key.Binding
}

func (k replayKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Forward, k.Start, k.End, k.Close, k.Quit}
}

func (k replayKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultReplayKeys = replayKeys{
	Back:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous move")),
	Forward: key.NewBinding(key.WithKeys("right", "l", " "), key.WithHelp("→/l", "next move")),
	Start:   key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "start")),
	End:     key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "end")),
	Close:   key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// closeReplayMsg returns from a replay opened from the history list.
type closeReplayMsg struct{}

type replayModel struct {
	engine *replay.Engine
	// standalone replays quit on close instead of returning to a list.
	standalone bool
	err        error
	keys       replayKeys
	help       help.Model
}

func newReplayModel(r history.Record, standalone bool) *replayModel {
	return &replayModel{
		engine:     replay.New(r),
		standalone: standalone,
		keys:       defaultReplayKeys,
		help:       help.New(),
	}
}

func (m *replayModel) Init() tea.Cmd {
	return nil
}

func (m *replayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Close):
			if m.standalone {
				return m, tea.Quit
			}
			return m, func() tea.Msg { return closeReplayMsg{} }
		case key.Matches(msg, m.keys.Back):
			m.err = m.engine.StepBackward()
		case key.Matches(msg, m.keys.Forward):
			m.err = m.engine.StepForward()
		case key.Matches(msg, m.keys.Start):
			m.err = m.engine.Rewind()
		case key.Matches(msg, m.keys.End):
			m.err = m.engine.FastForward()
		}
	}
	return m, nil
}

func (m *replayModel) View() string {
	r := m.engine.Record()
	var sb strings.Builder

	sb.WriteString(boldStyle.Render("REPLAY") + "  " +
		playerLabel(r.Settings, board.Red) + dimStyle.Render("  vs  ") + playerLabel(r.Settings, board.Yellow) +
		dimStyle.Render("  "+r.PlayedAtText()) + "\n\n")

	lastRow, lastCol, ok := m.engine.LastMove()
	if !ok {
		lastRow, lastCol = -1, -1
	}
	sb.WriteString(renderBoard(m.engine.Board(), lastRow, lastCol, -1, board.None) + "\n\n")

	sb.WriteString(m.engine.CounterText())
	if m.engine.AtEnd() {
		sb.WriteString("  " + boldStyle.Render(r.ResultText()))
	}
	if m.err != nil && !errors.Is(m.err, replay.ErrAtEnd) && !errors.Is(m.err, replay.ErrAtStart) {
		sb.WriteString("\n" + errorStyle.Render("Record is damaged: "+m.err.Error()))
	}

	sb.WriteString("\n\n" + m.help.View(m.keys))
	return sb.String()
}

// History

type historyKeys struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Delete key.Binding
	Quit   key.Binding
}

func (k historyKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Delete, k.Quit}
}

func (k historyKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultHistoryKeys = historyKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "replay")),
	Delete: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

type historyModel struct {
	archive *history.Archive
	records []history.Record
	table   table.Model
	replay  *replayModel
	err     error
	keys    historyKeys
	help    help.Model
}

func newHistoryModel(archive *history.Archive) (*historyModel, error) {
	columns := []table.Column{
		{Title: "Played", Width: 16},
		{Title: "Players", Width: 28},
		{Title: "Result", Width: 28},
		{Title: "Moves", Width: 5},
		{Title: "Clock", Width: 7},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	m := &historyModel{
		archive: archive,
		table:   t,
		keys:    defaultHistoryKeys,
		help:    help.New(),
	}
	if err := m.reload(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *historyModel) reload() error {
	records, err := m.archive.List()
	if err != nil {
		return err
	}
	m.records = records

	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		clock := "-"
		if r.Settings.Timed() {
			clock = fmt.Sprintf("%d+%d", r.Settings.BaseTimeMinutes, r.Settings.IncrementSeconds)
		}
		rows = append(rows, table.Row{
			r.PlayedAtText(),
			r.PlayersText(),
			r.ResultText(),
			fmt.Sprint(len(r.Moves)),
			clock,
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
	return nil
}

func (m *historyModel) selected() (history.Record, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.records) {
		return history.Record{}, false
	}
	return m.records[i], true
}

func (m *historyModel) Init() tea.Cmd {
	return nil
}

func (m *historyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(closeReplayMsg); ok {
		m.replay = nil
		return m, nil
	}
	if m.replay != nil {
		_, cmd := m.replay.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Open):
			if r, ok := m.selected(); ok {
				m.replay = newReplayModel(r, false)
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if r, ok := m.selected(); ok {
				m.err = m.archive.Delete(r.ID)
				if m.err == nil {
					m.err = m.reload()
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *historyModel) View() string {
	if m.replay != nil {
		return m.replay.View()
	}

	var sb strings.Builder
	sb.WriteString(boldStyle.Render("GAME HISTORY") + dimStyle.Render(fmt.Sprintf("  %d games", len(m.records))) + "\n\n")
	if len(m.records) == 0 {
		sb.WriteString(dimStyle.Render("No games played yet.") + "\n")
	} else {
		sb.WriteString(m.table.View() + "\n")
	}
	if m.err != nil {
		sb.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}
	sb.WriteString("\n" + m.help.View(m.keys))
	return sb.String()
}
