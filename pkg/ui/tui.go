// Package ui provides the Bubble Tea TUI for the arbitrage engine.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/domain"
	pricingDomain "github.com/solarb-labs/arbitrage-engine/business/pricing/domain"
	"github.com/solarb-labs/arbitrage-engine/pkg/ui/components"
)

// Controller is the engine surface the TUI drives. *app.Engine
// satisfies it.
type Controller interface {
	Execute(ctx context.Context, id string) error
	SetAutoRun(on bool)
	AutoRun() bool
}

// StrategyFilter narrows the opportunity table to one strategy class.
type StrategyFilter int

const (
	FilterAll StrategyFilter = iota
	FilterDirect
	FilterTriangular
	FilterQuadrilateral
)

func (f StrategyFilter) String() string {
	switch f {
	case FilterDirect:
		return "direct"
	case FilterTriangular:
		return "triangular"
	case FilterQuadrilateral:
		return "quadrilateral"
	default:
		return "all"
	}
}

func (f StrategyFilter) next() StrategyFilter {
	return (f + 1) % 4
}

func (f StrategyFilter) matches(s domain.StrategyType) bool {
	switch f {
	case FilterDirect:
		return s == domain.StrategyDirect
	case FilterTriangular:
		return s == domain.StrategyTriangular
	case FilterQuadrilateral:
		return s == domain.StrategyQuadrilateral
	default:
		return true
	}
}

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	controller Controller
	keys       KeyMap

	prices        *components.PricesComponent
	opportunities *components.OpportunitiesComponent
	executions    *components.ExecutionsComponent
	stats         *components.StatsComponent

	// State
	ready      bool
	quitting   bool
	showHelp   bool
	width      int
	height     int
	filter     StrategyFilter
	autoRun    bool
	lastUpdate time.Time
	started    time.Time
	errors     []ErrorEntry // Persistent error panel (last 3)

	// Full table kept so the filter can be re-applied locally.
	current []*domain.Opportunity
}

// New creates a new TUI model.
func New(ctrl Controller) Model {
	return Model{
		controller:    ctrl,
		keys:          DefaultKeyMap(),
		prices:        components.NewPricesComponent(),
		opportunities: components.NewOpportunitiesComponent(12),
		executions:    components.NewExecutionsComponent(8),
		stats:         components.NewStatsComponent(),
		autoRun:       ctrl.AutoRun(),
		started:       time.Now(),
		errors:        make([]ErrorEntry, 0, 3),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 250ms so the
// status bar clock stays live between engine pushes.
func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// executeCmd asks the engine for a manual execution of id.
func executeCmd(ctrl Controller, id string) tea.Cmd {
	return func() tea.Msg {
		if err := ctrl.Execute(context.Background(), id); err != nil {
			return ErrorMsg{Error: err}
		}
		return nil
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.AutoRun):
			m.autoRun = !m.autoRun
			m.controller.SetAutoRun(m.autoRun)
			return m, nil
		case key.Matches(msg, m.keys.Filter):
			m.filter = m.filter.next()
			m.applyFilter()
			return m, nil
		case key.Matches(msg, m.keys.Up):
			m.opportunities.MoveUp()
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.opportunities.MoveDown()
			return m, nil
		case key.Matches(msg, m.keys.Execute):
			if id := m.opportunities.SelectedID(); id != "" {
				return m, executeCmd(m.controller, id)
			}
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			m.errors = make([]ErrorEntry, 0, 3)
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		return m, tickCmd()

	case PricesMsg:
		if msg.Snapshot != nil {
			m.updatePrices(msg.Snapshot)
			m.lastUpdate = time.Now()
		}

	case OpportunitiesMsg:
		m.current = msg.Opportunities
		m.applyFilter()
		m.lastUpdate = time.Now()

	case ExecutionMsg:
		if msg.Opportunity != nil && msg.Result != nil {
			m.executions.Add(components.ExecutionRow{
				Timestamp: msg.Result.CompletedAt.Format("15:04:05"),
				Strategy:  string(msg.Opportunity.Strategy),
				Route:     msg.Opportunity.Route(),
				Success:   msg.Result.Success,
				Reason:    string(msg.Result.FailureReason),
				NetUSD:    msg.Result.ProfitAfterCostsUSD,
				LatencyMs: msg.Result.ExecutionTimeMs,
			})
			m.lastUpdate = time.Now()
		}

	case StatsMsg:
		m.autoRun = msg.Stats.AutoRun
		m.stats.Update(components.Stats{
			DetectionTicks:     msg.Stats.DetectionTicks,
			OpportunitiesFound: msg.Stats.OpportunitiesFound,
			Executions:         msg.Stats.Executions,
			Successes:          msg.Stats.Successes,
			Failures:           msg.Stats.Failures,
			RealizedProfitUSD:  msg.Stats.RealizedProfitUSD.StringFixed(2),
			SuccessRate:        msg.Stats.SuccessRate(),
		})

	case ErrorMsg:
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}
	}

	return m, nil
}

// applyFilter rebuilds the opportunity component rows from the full
// table under the current strategy filter.
func (m *Model) applyFilter() {
	rows := make([]components.OpportunityRow, 0, len(m.current))
	for _, opp := range m.current {
		if !m.filter.matches(opp.Strategy) {
			continue
		}
		rows = append(rows, components.OpportunityRow{
			ID:        opp.ID,
			Strategy:  string(opp.Strategy),
			Route:     opp.Route(),
			ProfitPct: opp.ProfitPct,
			ProfitUSD: opp.ProfitUSD,
			GasUSD:    opp.GasCostUSD,
			Risk:      opp.RiskFactor,
			Status:    string(opp.Status),
		})
	}
	m.opportunities.Update(rows)
}

// updatePrices rebuilds the price matrix from a snapshot.
func (m *Model) updatePrices(snap *pricingDomain.PriceSnapshot) {
	tokens := snap.Tokens()

	// Venue columns: union of quoted venues, in sorted order.
	seen := make(map[pricingDomain.Venue]bool)
	venues := make([]pricingDomain.Venue, 0, 4)
	for _, sym := range tokens {
		for _, venue := range snap.Venues(sym) {
			if !seen[venue] {
				seen[venue] = true
				venues = append(venues, venue)
			}
		}
	}

	venueNames := make([]string, len(venues))
	for i, venue := range venues {
		venueNames[i] = string(venue)
	}

	rows := make([]components.PriceRow, 0, len(tokens))
	for _, sym := range tokens {
		row := components.PriceRow{Token: string(sym)}
		for _, venue := range venues {
			if price, ok := snap.Price(sym, venue); ok {
				row.Quotes = append(row.Quotes, formatQuote(price))
			} else {
				row.Quotes = append(row.Quotes, "-")
			}
		}
		if spread, ok := snap.Spread(sym); ok {
			row.SpreadPct = spread.Pct
			row.SpreadLow = string(spread.LowVenue)
			row.SpreadHi = string(spread.HighVenue)
		}
		rows = append(rows, row)
	}

	m.prices.Update(venueNames, rows, snap.Age().Round(time.Second).String()+" old")
}

// formatQuote picks display precision by magnitude so BONK-scale quotes
// stay readable next to SOL-scale ones.
func formatQuote(price decimal.Decimal) string {
	switch {
	case price.LessThan(decimal.NewFromFloat(0.01)):
		return price.StringFixed(8)
	case price.LessThan(decimal.NewFromInt(1)):
		return price.StringFixed(4)
	default:
		return price.StringFixed(2)
	}
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}
	if !m.ready {
		return "\n  Loading..."
	}

	var b strings.Builder

	title := TitleStyle.Render(" ◎ Solana Arbitrage Engine ")
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	leftCol := m.prices.View()
	rightCol := m.executions.View()

	if m.width > 120 {
		left := BoxStyle.Width(m.width*3/5 - 2).Render(leftCol)
		right := BoxStyle.Width(m.width*2/5 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(BoxStyle.Width(m.width - 4).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(m.width - 4).Render(rightCol))
	}
	b.WriteString("\n")

	b.WriteString(BoxStyle.Width(m.width - 4).Render(m.opportunities.View()))
	b.WriteString("\n")

	b.WriteString(m.stats.View())
	b.WriteString("\n")

	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)

		b.WriteString("\n")
		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(MutedValue.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(MutedValue.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	if m.autoRun {
		parts = append(parts, ModeAuto.Render("● AUTO-RUN"))
	} else {
		parts = append(parts, ModeManual.Render("○ MANUAL"))
	}

	parts = append(parts, fmt.Sprintf("Filter: %s", m.filter))

	uptime := time.Since(m.started).Round(time.Second)
	parts = append(parts, MutedValue.Render(fmt.Sprintf("Uptime: %s", uptime)))

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago", ago)))
	}

	return strings.Join(parts, "  │  ")
}

func (m Model) renderHelp() string {
	bindings := m.keys.ShortHelp()
	if m.showHelp {
		bindings = nil
		for _, group := range m.keys.FullHelp() {
			bindings = append(bindings, group...)
		}
	}

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, fmt.Sprintf("%s: %s", help.Key, help.Desc))
	}
	return HelpStyle.Render(strings.Join(parts, " • "))
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctrl Controller) error {
	Program = tea.NewProgram(New(ctrl), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}
