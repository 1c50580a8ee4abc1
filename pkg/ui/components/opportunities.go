// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// OpportunityRow represents an opportunity in the table.
type OpportunityRow struct {
	ID        string
	Strategy  string
	Route     string
	ProfitPct decimal.Decimal
	ProfitUSD decimal.Decimal
	GasUSD    decimal.Decimal
	Risk      float64
	Status    string
}

// OpportunitiesComponent renders the opportunity table with a selection
// cursor.
type OpportunitiesComponent struct {
	rows     []OpportunityRow
	selected int
	maxRows  int
}

// NewOpportunitiesComponent creates a new opportunities component.
func NewOpportunitiesComponent(maxRows int) *OpportunitiesComponent {
	return &OpportunitiesComponent{maxRows: maxRows}
}

// Update replaces the table contents, clamping the cursor.
func (o *OpportunitiesComponent) Update(rows []OpportunityRow) {
	if len(rows) > o.maxRows {
		rows = rows[:o.maxRows]
	}
	o.rows = rows
	if o.selected >= len(o.rows) {
		o.selected = len(o.rows) - 1
	}
	if o.selected < 0 {
		o.selected = 0
	}
}

// MoveUp moves the selection cursor up.
func (o *OpportunitiesComponent) MoveUp() {
	if o.selected > 0 {
		o.selected--
	}
}

// MoveDown moves the selection cursor down.
func (o *OpportunitiesComponent) MoveDown() {
	if o.selected < len(o.rows)-1 {
		o.selected++
	}
}

// SelectedID returns the ID under the cursor, empty when the table is
// empty.
func (o *OpportunitiesComponent) SelectedID() string {
	if o.selected < 0 || o.selected >= len(o.rows) {
		return ""
	}
	return o.rows[o.selected].ID
}

// View renders the opportunities component.
func (o *OpportunitiesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9945FF"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	readyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#14F195"))
	executingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	selectedStyle := lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("#4C1D95"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("OPPORTUNITIES (%d)", len(o.rows))))
	sb.WriteString("\n\n")

	if len(o.rows) == 0 {
		sb.WriteString(dimStyle.Render("  No opportunities above thresholds..."))
		return sb.String()
	}

	sb.WriteString(dimStyle.Render(fmt.Sprintf("  %-13s %-32s %9s %9s %7s %5s  %s",
		"Strategy", "Route", "Profit%", "ProfitUSD", "GasUSD", "Risk", "Status")))
	sb.WriteString("\n")

	for i, row := range o.rows {
		route := row.Route
		if len(route) > 32 {
			route = route[:29] + "..."
		}
		line := fmt.Sprintf("  %-13s %-32s %8s%% %9s %7s %5.2f  ",
			row.Strategy,
			route,
			row.ProfitPct.StringFixed(3),
			"$"+row.ProfitUSD.StringFixed(2),
			"$"+row.GasUSD.StringFixed(2),
			row.Risk,
		)

		statusStyle := dimStyle
		switch row.Status {
		case "ready":
			statusStyle = readyStyle
		case "executing":
			statusStyle = executingStyle
		}

		if i == o.selected {
			sb.WriteString(selectedStyle.Render(line + row.Status))
		} else {
			sb.WriteString(line)
			sb.WriteString(statusStyle.Render(row.Status))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
