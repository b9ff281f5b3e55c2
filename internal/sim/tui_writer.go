package sim

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"deconflict-sim/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// positionMsg carries one position row update.
type positionMsg struct{ telemetry.PositionRow }

// conflictMsg carries a conflict event for the log pane.
type conflictMsg struct{ telemetry.ConflictRow }

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	conflictStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	arrivedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	borderStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// TUIWriter renders playback in a terminal dashboard: a live drone board
// plus a scrolling conflict log.
type TUIWriter struct {
	program teaProgram
	done    chan struct{}
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(simID string) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	p := tea.NewProgram(newTUIModel(simID), tea.WithAltScreen())
	w.program = p
	go func() {
		defer close(w.done)
		_, _ = p.Run()
	}()
	return w
}

// Write sends a position row to the dashboard.
func (w *TUIWriter) Write(row telemetry.PositionRow) error {
	w.program.Send(positionMsg{row})
	return nil
}

// WriteBatch sends multiple position rows.
func (w *TUIWriter) WriteBatch(rows []telemetry.PositionRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteConflict sends a conflict event to the log pane.
func (w *TUIWriter) WriteConflict(row telemetry.ConflictRow) error {
	w.program.Send(conflictMsg{row})
	return nil
}

// Wait blocks until the user quits the dashboard.
func (w *TUIWriter) Wait() {
	<-w.done
}

type tuiModel struct {
	simID    string
	board    table.Model
	log      viewport.Model
	rows     map[string]telemetry.PositionRow
	order    []string
	logLines []string
	width    int
	height   int
}

func newTUIModel(simID string) tuiModel {
	cols := []table.Column{
		{Title: "Drone", Width: 14},
		{Title: "X", Width: 8},
		{Title: "Y", Width: 8},
		{Title: "Z", Width: 8},
		{Title: "Progress", Width: 9},
		{Title: "Status", Width: 10},
	}
	board := table.New(table.WithColumns(cols), table.WithHeight(10))
	vp := viewport.New(80, 6)
	return tuiModel{
		simID: simID,
		board: board,
		log:   vp,
		rows:  make(map[string]telemetry.PositionRow),
	}
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.log.Width = msg.Width - 4
		if h := msg.Height - m.board.Height() - 8; h > 3 {
			m.log.Height = h
		}
	case positionMsg:
		if _, seen := m.rows[msg.DroneID]; !seen {
			m.order = append(m.order, msg.DroneID)
		}
		m.rows[msg.DroneID] = msg.PositionRow
		m.refreshBoard()
	case conflictMsg:
		line := fmt.Sprintf("[%s] %s conflict: %s <-> %s at %.2f units",
			msg.Time.Format("15:04:05"), msg.Kind, msg.DroneA, msg.DroneB, msg.Distance)
		m.logLines = append(m.logLines, conflictStyle.Render(line))
		m.log.SetContent(wordwrap.String(joinLines(m.logLines), m.log.Width))
		m.log.GotoBottom()
	}

	var cmd tea.Cmd
	m.board, cmd = m.board.Update(msg)
	return m, cmd
}

func (m *tuiModel) refreshBoard() {
	rows := make([]table.Row, 0, len(m.order))
	for _, id := range m.order {
		r := m.rows[id]
		status := r.Status
		switch status {
		case telemetry.StatusConflict:
			status = conflictStyle.Render(status)
		case telemetry.StatusArrived:
			status = arrivedStyle.Render(status)
		}
		rows = append(rows, table.Row{
			shortID(id),
			fmt.Sprintf("%.2f", r.X),
			fmt.Sprintf("%.2f", r.Y),
			fmt.Sprintf("%.2f", r.Z),
			fmt.Sprintf("%3.0f%%", r.Progress*100),
			status,
		})
	}
	m.board.SetRows(rows)
}

func (m tuiModel) View() string {
	title := titleStyle.Render(fmt.Sprintf("deconflict-sim :: %s", m.simID))
	help := "q: quit"
	logPane := borderStyle.Render(m.log.View())
	if len(m.logLines) == 0 {
		logPane = borderStyle.Render("no conflicts detected")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		borderStyle.Render(m.board.View()),
		logPane,
		help,
	)
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
