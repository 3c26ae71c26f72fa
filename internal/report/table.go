package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pscicluna/obsplan/internal/astro"
	"github.com/pscicluna/obsplan/internal/backup"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	tierStyles = map[astro.AirmassTier]lipgloss.Style{
		astro.AirmassExcellent: lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		astro.AirmassGood:      lipgloss.NewStyle().Foreground(lipgloss.Color("118")),
		astro.AirmassFair:      lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		astro.AirmassPoor:      lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	}
)

// TierStyle returns the colour used for an airmass tier.
func TierStyle(t astro.AirmassTier) lipgloss.Style {
	if s, ok := tierStyles[t]; ok {
		return s
	}
	return dimStyle
}

// RenderTable renders scores as an aligned table. When styled is false no
// ANSI sequences are emitted.
func RenderTable(scores []backup.Score, styled bool) string {
	if len(scores) == 0 {
		return "No backup targets meet the constraints.\n"
	}

	nameWidth := len("Target")
	for _, s := range scores {
		nameWidth = max(nameWidth, len(s.Target.Name))
	}

	render := func(st lipgloss.Style, s string) string {
		if !styled {
			return s
		}
		return st.Render(s)
	}

	var b strings.Builder
	header := fmt.Sprintf("%-3s %-*s %8s %6s %-10s  %-23s", "#", nameWidth, "Target", "Airmass", "Good", "Tier", "Best time (UTC)")
	b.WriteString(render(headerStyle, strings.TrimRight(header, " ")))
	b.WriteString("\n")

	for i, s := range scores {
		tier := astro.GetAirmassTier(s.BestAirmass)
		line := fmt.Sprintf("%-3d %-*s %8.3f %5.0f%% %-10s  %s",
			i+1, nameWidth, s.Target.Name, s.BestAirmass, s.FracGood*100, tier, FormatTime(s.BestTime))
		b.WriteString(render(TierStyle(tier), line))
		b.WriteString("\n")
	}
	return b.String()
}
