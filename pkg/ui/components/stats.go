// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds session statistics for display.
type Stats struct {
	DetectionTicks     int
	OpportunitiesFound int
	Executions         int
	Successes          int
	Failures           int
	RealizedProfitUSD  string
	SuccessRate        float64
}

// StatsComponent renders the session statistics line.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	profitStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#14F195")).Bold(true)

	return labelStyle.Render("SESSION") + "  " +
		fmt.Sprintf("Scans: %s  │  Found: %s  │  Executed: %s  │  Success: %s (%.0f%%)  │  Realized: %s",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.DetectionTicks)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.OpportunitiesFound)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Executions)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Successes)),
			s.stats.SuccessRate*100,
			profitStyle.Render("$"+s.stats.RealizedProfitUSD),
		)
}
