// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// PriceRow holds one token's quotes across venues plus its best spread.
type PriceRow struct {
	Token     string
	Quotes    []string // formatted, aligned with the venue header order
	SpreadPct decimal.Decimal
	SpreadLow string // venue quoting the low side
	SpreadHi  string // venue quoting the high side
}

// PricesComponent renders the token/venue price matrix.
type PricesComponent struct {
	venues []string
	rows   []PriceRow
	age    string
}

// NewPricesComponent creates a new prices component.
func NewPricesComponent() *PricesComponent {
	return &PricesComponent{}
}

// Update replaces the matrix contents.
func (p *PricesComponent) Update(venues []string, rows []PriceRow, age string) {
	p.venues = venues
	p.rows = rows
	p.age = age
}

// View renders the prices component.
func (p *PricesComponent) View() string {
	if len(p.rows) == 0 {
		return "Waiting for price data..."
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9945FF"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	spreadStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#14F195"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("PRICES"))
	if p.age != "" {
		sb.WriteString(dimStyle.Render("  (" + p.age + ")"))
	}
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  %-6s", "Token"))
	for _, venue := range p.venues {
		sb.WriteString(fmt.Sprintf("  %12s", venue))
	}
	sb.WriteString(fmt.Sprintf("  %14s\n", "Best Spread"))
	sb.WriteString(dimStyle.Render("  " + strings.Repeat("─", 6+14*len(p.venues)+16)))
	sb.WriteString("\n")

	for _, row := range p.rows {
		sb.WriteString(fmt.Sprintf("  %-6s", row.Token))
		for _, quote := range row.Quotes {
			sb.WriteString(fmt.Sprintf("  %12s", quote))
		}
		if row.SpreadPct.IsPositive() {
			spread := fmt.Sprintf("%s%% %s→%s",
				row.SpreadPct.StringFixed(3), row.SpreadLow, row.SpreadHi)
			sb.WriteString("  " + spreadStyle.Render(fmt.Sprintf("%14s", spread)))
		} else {
			sb.WriteString("  " + dimStyle.Render(fmt.Sprintf("%14s", "flat")))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
