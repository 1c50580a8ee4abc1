// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/app"
	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/domain"
	pricingDomain "github.com/solarb-labs/arbitrage-engine/business/pricing/domain"
)

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a new ConsoleReporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{
		out: os.Stdout,
	}
}

// Start initializes the console reporter.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "Arbitrage Engine Started")
	fmt.Fprintln(r.out, "========================")
	return nil
}

// ReportOpportunities outputs the current opportunity table.
func (r *ConsoleReporter) ReportOpportunities(opps []*domain.Opportunity) {
	if len(opps) == 0 {
		fmt.Fprintf(r.out, "[%s] scan complete, no opportunities above thresholds\n",
			time.Now().Format("15:04:05"))
		return
	}

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "OPPORTUNITIES (%d)\n", len(opps))
	fmt.Fprintln(r.out, "================================================================================")
	for _, opp := range opps {
		fmt.Fprintf(r.out, "%-14s %-42s %7s%% $%-8s risk %.2f [%s]\n",
			opp.Strategy,
			opp.Route(),
			opp.ProfitPct.StringFixed(3),
			opp.ProfitUSD.StringFixed(2),
			opp.RiskFactor,
			opp.Status,
		)
	}
	fmt.Fprintln(r.out, "================================================================================")
}

// ReportExecution outputs a settled execution outcome.
func (r *ConsoleReporter) ReportExecution(opp *domain.Opportunity, result *domain.ExecutionResult) {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	if result.Success {
		fmt.Fprintln(r.out, "EXECUTION COMPLETED")
	} else {
		fmt.Fprintln(r.out, "EXECUTION FAILED")
	}
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintf(r.out, "Route:          %s\n", opp.Route())
	fmt.Fprintf(r.out, "Strategy:       %s\n", opp.Strategy)
	fmt.Fprintf(r.out, "Investment:     $%s\n", result.Investment.StringFixed(2))
	fmt.Fprintf(r.out, "Gas Cost:       %s SOL ($%s)\n",
		result.GasCostSOL.StringFixed(6), result.GasCostUSD.StringFixed(2))
	if result.Success {
		fmt.Fprintf(r.out, "Profit:         $%s gross, $%s after costs\n",
			result.ActualProfitUSD.StringFixed(2), result.ProfitAfterCostsUSD.StringFixed(2))
	} else {
		fmt.Fprintf(r.out, "Reason:         %s (%s)\n",
			result.FailureReason, result.FailureReason.Description())
		fmt.Fprintf(r.out, "Net:            $%s\n", result.ProfitAfterCostsUSD.StringFixed(2))
	}
	fmt.Fprintf(r.out, "Latency:        %dms\n", result.ExecutionTimeMs)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
}

// UpdatePrices is a no-op for the console; quotes churn too fast to print.
func (r *ConsoleReporter) UpdatePrices(snap *pricingDomain.PriceSnapshot) {
}

// UpdateStats outputs a one-line session summary.
func (r *ConsoleReporter) UpdateStats(stats app.Stats) {
	mode := "manual"
	if stats.AutoRun {
		mode = "auto"
	}
	fmt.Fprintf(r.out, "[%s] ticks=%d found=%d exec=%d ok=%d fail=%d profit=$%s mode=%s\n",
		time.Now().Format("15:04:05"),
		stats.DetectionTicks,
		stats.OpportunitiesFound,
		stats.Executions,
		stats.Successes,
		stats.Failures,
		stats.RealizedProfitUSD.StringFixed(2),
		mode,
	)
	if len(stats.FailuresByReason) > 0 {
		parts := make([]string, 0, len(stats.FailuresByReason))
		for _, reason := range domain.FailureReasons {
			if n := stats.FailuresByReason[reason]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s=%d", reason, n))
			}
		}
		if len(parts) > 0 {
			fmt.Fprintf(r.out, "          failures: %s\n", strings.Join(parts, " "))
		}
	}
}

// Stop gracefully shuts down the console reporter.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Arbitrage Engine Stopped")
	return nil
}
