package app

import (
	"testing"

	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/domain"
)

func opp(id string, profit, gas string, risk float64, status domain.Status) *domain.Opportunity {
	return &domain.Opportunity{
		ID:         id,
		Strategy:   domain.StrategyDirect,
		ProfitUSD:  d(profit),
		GasCostUSD: d(gas),
		RiskFactor: risk,
		Status:     status,
	}
}

func TestSelect_Tiers(t *testing.T) {
	// a: big gross, big gas, high risk. b: middling everything.
	// c: small but clean.
	opps := []*domain.Opportunity{
		opp("a", "10.0", "6.0", 0.9, domain.StatusReady),
		opp("b", "8.0", "3.0", 0.5, domain.StatusReady),
		opp("c", "6.0", "1.2", 0.1, domain.StatusReady),
	}

	tests := []struct {
		name   string
		tier   IntelligenceTier
		wantID string
	}{
		{name: "low_chases_gross_profit", tier: TierLow, wantID: "a"},
		{name: "medium_nets_out_gas", tier: TierMedium, wantID: "b"},   // 4.0 vs 5.0 vs 4.8
		{name: "high_penalizes_risk_too", tier: TierHigh, wantID: "c"}, // 3.1 vs 4.5 vs 4.7
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := Select(opps, tt.tier)
			if !ok {
				t.Fatal("expected a selection")
			}
			if id != tt.wantID {
				t.Errorf("selected %s, want %s", id, tt.wantID)
			}
		})
	}
}

func TestSelect_OnlyReady(t *testing.T) {
	opps := []*domain.Opportunity{
		opp("done", "100.0", "1.0", 0.1, domain.StatusCompleted),
		opp("busy", "50.0", "1.0", 0.1, domain.StatusExecuting),
		opp("ok", "1.0", "0.1", 0.1, domain.StatusReady),
	}

	id, ok := Select(opps, TierLow)
	if !ok || id != "ok" {
		t.Errorf("selected %q (ok=%v), want %q", id, ok, "ok")
	}
}

func TestSelect_EmptyReadySet(t *testing.T) {
	if id, ok := Select(nil, TierMedium); ok {
		t.Errorf("selected %q from empty set", id)
	}

	settled := []*domain.Opportunity{
		opp("done", "10.0", "1.0", 0.1, domain.StatusFailed),
	}
	if id, ok := Select(settled, TierMedium); ok {
		t.Errorf("selected %q with nothing ready", id)
	}
}

func TestSelect_TieBreaksFirstSeen(t *testing.T) {
	opps := []*domain.Opportunity{
		opp("first", "5.0", "1.0", 0.2, domain.StatusReady),
		opp("second", "5.0", "1.0", 0.2, domain.StatusReady),
	}

	for i := 0; i < 10; i++ {
		id, ok := Select(opps, TierHigh)
		if !ok || id != "first" {
			t.Fatalf("iteration %d selected %q, want %q", i, id, "first")
		}
	}
}

func TestSelect_Deterministic(t *testing.T) {
	opps := []*domain.Opportunity{
		opp("a", "3.3", "1.0", 0.4, domain.StatusReady),
		opp("b", "7.1", "5.0", 0.2, domain.StatusReady),
		opp("c", "2.0", "0.2", 0.1, domain.StatusReady),
	}

	for _, tier := range []IntelligenceTier{TierLow, TierMedium, TierHigh} {
		first, ok := Select(opps, tier)
		if !ok {
			t.Fatalf("tier %s: no selection", tier)
		}
		for i := 0; i < 20; i++ {
			got, _ := Select(opps, tier)
			if got != first {
				t.Fatalf("tier %s: selection changed from %q to %q", tier, first, got)
			}
		}
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		in   string
		want IntelligenceTier
	}{
		{"low", TierLow},
		{"medium", TierMedium},
		{"high", TierHigh},
		{"", TierMedium},
		{"bogus", TierMedium},
	}
	for _, tt := range tests {
		if got := ParseTier(tt.in); got != tt.want {
			t.Errorf("ParseTier(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSortByProfit(t *testing.T) {
	opps := []*domain.Opportunity{
		opp("small", "1.0", "0.1", 0.1, domain.StatusReady),
		opp("big", "9.0", "0.1", 0.1, domain.StatusCompleted),
		opp("mid_first", "5.0", "0.1", 0.1, domain.StatusReady),
		opp("mid_second", "5.0", "0.1", 0.1, domain.StatusReady),
	}

	sorted := SortByProfit(opps)

	wantOrder := []string{"big", "mid_first", "mid_second", "small"}
	for i, want := range wantOrder {
		if sorted[i].ID != want {
			t.Errorf("sorted[%d] = %s, want %s", i, sorted[i].ID, want)
		}
	}

	// Input order must be untouched.
	if opps[0].ID != "small" {
		t.Error("SortByProfit mutated its input")
	}
}
