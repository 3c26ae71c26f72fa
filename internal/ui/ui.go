// Package ui provides the terminal backup board using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pscicluna/obsplan/internal/backup"
	"github.com/pscicluna/obsplan/internal/state"
	"github.com/pscicluna/obsplan/internal/version"
)

// RankFunc produces a fresh ranking for the given twilight mode.
type RankFunc func(mode backup.TwilightMode) (*state.Ranking, error)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// RefreshMsg requests a scheduled re-rank. Stale generations are ignored.
	RefreshMsg struct {
		gen int
	}

	// rankDoneMsg carries the result of a ranking run.
	rankDoneMsg struct {
		ranking  *state.Ranking
		duration time.Duration
		err      error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state *state.Manager
	rank  RankFunc
	site  string

	// UI state
	width    int
	height   int
	ready    bool
	animTick int
	mode     backup.TwilightMode

	// ranking is true while a run is in flight; pending asks for another
	// run once it completes.
	ranking bool
	pending bool
	gen     int

	board    BoardModel
	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(stateMgr *state.Manager, rank RankFunc, site string, mode backup.TwilightMode) Model {
	return Model{
		state: stateMgr,
		rank:  rank,
		site:  site,
		mode:  mode,
		board: NewBoardModel(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
		func() tea.Msg { return RefreshMsg{gen: 0} },
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "r":
			if cmd := m.startRank(); cmd != nil {
				cmds = append(cmds, cmd)
			}

		case "t":
			m.mode = m.mode.Next()
			if cmd := m.startRank(); cmd != nil {
				cmds = append(cmds, cmd)
			}

		default:
			var cmd tea.Cmd
			m.board, cmd = m.board.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.board = m.board.SetSize(msg.Width, msg.Height-6)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.snapshot = m.state.Snapshot()
		m.board = m.board.UpdateData(m.snapshot, m.state.RecentEvents(maxBoardEvents))

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case RefreshMsg:
		if msg.gen == m.gen {
			if cmd := m.startRank(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}

	case rankDoneMsg:
		m.ranking = false
		m.state.Update(msg.ranking, msg.duration, msg.err)
		m.snapshot = m.state.Snapshot()
		m.board = m.board.UpdateData(m.snapshot, m.state.RecentEvents(maxBoardEvents))

		if m.pending {
			m.pending = false
			cmds = append(cmds, m.startRank())
		} else {
			m.gen++
			cmds = append(cmds, refreshCmd(m.state.RefreshInterval(), m.gen))
		}
	}

	return m, tea.Batch(cmds...)
}

// startRank returns a command running one ranking, or nil when one is
// already in flight.
func (m *Model) startRank() tea.Cmd {
	if m.ranking {
		m.pending = true
		return nil
	}
	m.ranking = true
	rank, mode := m.rank, m.mode
	return func() tea.Msg {
		began := time.Now()
		r, err := rank(mode)
		return rankDoneMsg{ranking: r, duration: time.Since(began), err: err}
	}
}

// Mode returns the active twilight mode.
func (m Model) Mode() backup.TwilightMode {
	return m.mode
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.renderHeader() + "\n" + m.board.View() + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString("\n  ")

	title := "OBSPLAN · backup board"
	runes := []rune(title)
	for col, r := range runes {
		color := gradientColor(col, len(runes))
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(string(r)))
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  v%s", version.Version)))
	b.WriteString("\n  ")
	b.WriteString(muted.Render(fmt.Sprintf("site %s · twilight %s", m.site, m.mode)))
	b.WriteString("\n")
	return b.String()
}

// gradientColor returns a hex color for a position in the title gradient:
// blue -> purple -> magenta.
func gradientColor(col, width int) string {
	x := 0.0
	if width > 1 {
		x = float64(col) / float64(width-1)
	}

	var r, g, b float64
	if x < 0.5 {
		t := x / 0.5
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	} else {
		t := (x - 0.5) / 0.5
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	}
	return fmt.Sprintf("#%02X%02X%02X", int(r), int(g), int(b))
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.ranking:
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Ranking...")
	case m.snapshot.LastError != nil:
		status = errStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case !m.snapshot.LastRank.IsZero():
		countdown := time.Until(m.snapshot.NextRefresh).Round(time.Second)
		if countdown < 0 {
			countdown = 0
		}
		status = accentStyle.Render(spinner) + dimStyle.Render(fmt.Sprintf(" re-rank in %ds", int(countdown.Seconds())))
		if m.snapshot.RankDuration > 0 {
			status += dimStyle.Render(" (" + m.snapshot.RankDuration.Round(time.Millisecond).String() + ")")
		}
	default:
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Waiting for data...")
	}

	help := dimStyle.Render("↑↓: select | r: re-rank | t: twilight | q: quit")
	return "  " + status + "  " + dimStyle.Render("|") + "  " + help
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	pos := m.animTick % (len(runes) + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 180, 160, 220
		case dist <= 3:
			r8, g8, b8 = 140, 120, 180
		case dist <= 5:
			r8, g8, b8 = 110, 90, 150
		default:
			r8, g8, b8 = 80, 70, 120
		}

		hexColor := fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)
		result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor)).Render(string(r)))
	}
	return result.String()
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

func refreshCmd(interval time.Duration, gen int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return RefreshMsg{gen: gen}
	})
}
