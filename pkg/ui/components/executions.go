// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// ExecutionRow represents one settled execution in the feed.
type ExecutionRow struct {
	Timestamp string
	Strategy  string
	Route     string
	Success   bool
	Reason    string
	NetUSD    decimal.Decimal
	LatencyMs int64
}

// ExecutionsComponent renders recent executions, newest first.
type ExecutionsComponent struct {
	rows    []ExecutionRow
	maxRows int
}

// NewExecutionsComponent creates a new executions component.
func NewExecutionsComponent(maxRows int) *ExecutionsComponent {
	return &ExecutionsComponent{maxRows: maxRows}
}

// Add prepends a settled execution to the feed.
func (e *ExecutionsComponent) Add(row ExecutionRow) {
	e.rows = append([]ExecutionRow{row}, e.rows...)
	if len(e.rows) > e.maxRows {
		e.rows = e.rows[:e.maxRows]
	}
}

// View renders the executions component.
func (e *ExecutionsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9945FF"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#14F195"))
	failStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("EXECUTIONS"))
	sb.WriteString("\n\n")

	if len(e.rows) == 0 {
		sb.WriteString(dimStyle.Render("  No executions yet..."))
		return sb.String()
	}

	for _, row := range e.rows {
		route := row.Route
		if len(route) > 30 {
			route = route[:27] + "..."
		}
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  [%s] ", row.Timestamp)))
		if row.Success {
			sb.WriteString(successStyle.Render("✓"))
			sb.WriteString(fmt.Sprintf(" %-13s %-30s ", row.Strategy, route))
			sb.WriteString(successStyle.Render(fmt.Sprintf("+$%s", row.NetUSD.StringFixed(2))))
		} else {
			sb.WriteString(failStyle.Render("✗"))
			sb.WriteString(fmt.Sprintf(" %-13s %-30s ", row.Strategy, route))
			sb.WriteString(failStyle.Render(row.Reason))
		}
		sb.WriteString(dimStyle.Render(fmt.Sprintf(" %dms", row.LatencyMs)))
		sb.WriteString("\n")
	}

	return sb.String()
}
