package mockfeed

import (
	"context"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/solarb-labs/arbitrage-engine/business/pricing/domain"
	"github.com/solarb-labs/arbitrage-engine/internal/token"
)

func TestFeed_SnapshotWithinJitterBand(t *testing.T) {
	feed := NewWithRand(DefaultConfig(), rand.New(rand.NewSource(1)))

	for i := 0; i < 50; i++ {
		snap, err := feed.Snapshot(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for sym, venues := range BaseQuotes() {
			for venue, base := range venues {
				got, ok := snap.Price(sym, venue)
				if !ok {
					t.Fatalf("missing quote %s@%s", sym, venue)
				}

				// |got - base| / base must stay within the 0.5% band,
				// with slack for magnitude rounding.
				dev := got.Sub(base).Abs().Div(base)
				if dev.GreaterThan(decimal.RequireFromString("0.006")) {
					t.Errorf("%s@%s deviates %s from base %s", sym, venue, dev, base)
				}
			}
		}
	}
}

func TestFeed_Deterministic(t *testing.T) {
	a := NewWithRand(DefaultConfig(), rand.New(rand.NewSource(42)))
	b := NewWithRand(DefaultConfig(), rand.New(rand.NewSource(42)))

	snapA, err := a.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snapB, err := b.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, sym := range snapA.Tokens() {
		for _, venue := range snapA.Venues(sym) {
			pa, _ := snapA.Price(sym, venue)
			pb, _ := snapB.Price(sym, venue)
			if !pa.Equal(pb) {
				t.Errorf("seeds diverge at %s@%s: %s vs %s", sym, venue, pa, pb)
			}
		}
	}
}

func TestFeed_VenueFilter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Venues = []domain.Venue{domain.VenueRaydium, domain.VenueOrca}
	feed := NewWithRand(cfg, rand.New(rand.NewSource(7)))

	snap, err := feed.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	venues := snap.Venues(token.SymbolSOL)
	if len(venues) != 2 {
		t.Fatalf("venues = %v, want Orca and Raydium only", venues)
	}
	if _, ok := snap.Price(token.SymbolSOL, domain.VenueJupiter); ok {
		t.Error("Jupiter quote should be filtered out")
	}
}

func TestFeed_ContextCancelled(t *testing.T) {
	feed := NewWithRand(DefaultConfig(), rand.New(rand.NewSource(1)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := feed.Snapshot(ctx); err == nil {
		t.Fatal("expected context error")
	}
}

func TestFeed_RoundingPrecision(t *testing.T) {
	feed := NewWithRand(DefaultConfig(), rand.New(rand.NewSource(3)))

	snap, err := feed.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// BONK trades far below a cent; its quotes must keep 8 decimals.
	bonk, _ := snap.Price(token.SymbolBONK, domain.VenueRaydium)
	if bonk.Exponent() < -8 {
		t.Errorf("BONK quote %s has more than 8 decimals", bonk)
	}

	sol, _ := snap.Price(token.SymbolSOL, domain.VenueRaydium)
	if sol.Exponent() < -4 {
		t.Errorf("SOL quote %s has more than 4 decimals", sol)
	}
}
