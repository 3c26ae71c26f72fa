package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pscicluna/obsplan/internal/backup"
	"github.com/pscicluna/obsplan/internal/report"
	"github.com/pscicluna/obsplan/internal/state"
)

// Styles for the board
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	eventStyles = map[state.EventType]lipgloss.Style{
		state.EventBackupAdded:   lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		state.EventBackupDropped: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		state.EventBackupMoved:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// maxBoardEvents is the number of events shown under the table.
const maxBoardEvents = 8

// BoardModel shows the current backup ranking and its recent changes.
type BoardModel struct {
	width    int
	height   int
	cursor   int
	snapshot state.Snapshot
	events   []state.Event // oldest first
}

// NewBoardModel creates a new board model.
func NewBoardModel() BoardModel {
	return BoardModel{}
}

// SetSize updates the viewport size.
func (m BoardModel) SetSize(width, height int) BoardModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with a new snapshot and the events to list,
// keeping the cursor in range.
func (m BoardModel) UpdateData(snapshot state.Snapshot, events []state.Event) BoardModel {
	m.snapshot = snapshot
	m.events = events
	if n := len(m.scores()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	return m
}

// Update handles cursor movement.
func (m BoardModel) Update(msg tea.Msg) (BoardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		n := len(m.scores())
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < n-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if n > 0 {
				m.cursor = n - 1
			}
		}
	}
	return m, nil
}

// Selected returns the score under the cursor.
func (m BoardModel) Selected() (backup.Score, bool) {
	scores := m.scores()
	if m.cursor < 0 || m.cursor >= len(scores) {
		return backup.Score{}, false
	}
	return scores[m.cursor], true
}

func (m BoardModel) scores() []backup.Score {
	if m.snapshot.Ranking == nil {
		return nil
	}
	return m.snapshot.Ranking.Scores
}

// View renders the board.
func (m BoardModel) View() string {
	var b strings.Builder

	if m.snapshot.LastError != nil {
		b.WriteString(errorStyle.Render("Error: " + m.snapshot.LastError.Error()))
		b.WriteString("\n\n")
	}

	r := m.snapshot.Ranking
	if r == nil {
		if m.snapshot.LastError == nil {
			b.WriteString("Waiting for first ranking...\n")
		}
		return b.String()
	}

	window := fmt.Sprintf("%s → %s UTC", report.FormatTime(r.Start), report.FormatTime(r.Start.Add(r.Options.Duration)))
	b.WriteString(titleStyle.Render("Backup Targets"))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render(window))
	b.WriteString("\n\n")

	b.WriteString(report.RenderTable(r.Scores, true))
	b.WriteString("\n")

	if s, ok := m.Selected(); ok {
		b.WriteString(m.renderDetail(m.cursor+1, s))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderEvents())
	return b.String()
}

func (m BoardModel) renderDetail(rank int, s backup.Score) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("▶ #%d %s", rank, s.Target.Name))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  RA %.4f°  Dec %+.4f°  ", s.Target.Coord.RADeg, s.Target.Coord.DecDeg)))
	b.WriteString(m.renderFractionBar(s.FracGood, 20))
	return b.String()
}

// renderFractionBar draws the good-sample fraction as a bar.
func (m BoardModel) renderFractionBar(frac float64, width int) string {
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return "[" + barStyle.Render(bar) + "]"
}

func (m BoardModel) renderEvents() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recent Changes"))
	b.WriteString("\n")

	events := m.events
	if len(events) == 0 {
		b.WriteString(labelStyle.Render("  none"))
		b.WriteString("\n")
		return b.String()
	}

	// Newest first.
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		b.WriteString("  ")
		b.WriteString(labelStyle.Render(e.Timestamp.UTC().Format("15:04:05")))
		b.WriteString(" ")
		b.WriteString(eventStyles[e.Type].Render(FormatEvent(e)))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatEvent describes a ranking change in one line.
func FormatEvent(e state.Event) string {
	switch e.Type {
	case state.EventBackupAdded:
		return fmt.Sprintf("+ %s entered at #%d", e.Target, e.NewRank)
	case state.EventBackupDropped:
		return fmt.Sprintf("- %s dropped from #%d", e.Target, e.OldRank)
	case state.EventBackupMoved:
		arrow := "↑"
		if e.NewRank > e.OldRank {
			arrow = "↓"
		}
		return fmt.Sprintf("%s %s #%d → #%d", arrow, e.Target, e.OldRank, e.NewRank)
	}
	return string(e.Type) + " " + e.Target
}
