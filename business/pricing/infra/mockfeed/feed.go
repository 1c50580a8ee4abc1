// Package mockfeed provides a synthetic quote source for development and
// tests. It jitters a fixed quote table the way live venue quotes drift
// tick to tick.
package mockfeed

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solarb-labs/arbitrage-engine/business/pricing/domain"
	"github.com/solarb-labs/arbitrage-engine/internal/token"
)

// Config holds mock feed tuning.
type Config struct {
	Venues    []domain.Venue // venues to quote; empty means all in the base table
	JitterPct float64        // half-width of the per-quote jitter, in percent
}

// DefaultConfig returns the standard development feed settings.
func DefaultConfig() Config {
	return Config{JitterPct: 0.5}
}

// Feed serves jittered quotes from a fixed base table.
type Feed struct {
	base   map[token.Symbol]map[domain.Venue]decimal.Decimal
	config Config

	mu  sync.Mutex
	rng *rand.Rand

	now func() time.Time
}

// BaseQuotes returns the built-in quote table: USD prices for the
// supported token universe across the four major Solana venues.
func BaseQuotes() map[token.Symbol]map[domain.Venue]decimal.Decimal {
	q := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return map[token.Symbol]map[domain.Venue]decimal.Decimal{
		token.SymbolSOL: {
			domain.VenueRaydium: q("144.55"),
			domain.VenueJupiter: q("144.95"),
			domain.VenueOrca:    q("144.25"),
			domain.VenueMeteora: q("145.10"),
		},
		token.SymbolBONK: {
			domain.VenueRaydium: q("0.000027"),
			domain.VenueJupiter: q("0.0000272"),
			domain.VenueOrca:    q("0.0000276"),
			domain.VenueMeteora: q("0.0000274"),
		},
		token.SymbolUSDC: {
			domain.VenueRaydium: q("1.00"),
			domain.VenueJupiter: q("1.00"),
			domain.VenueOrca:    q("1.00"),
			domain.VenueMeteora: q("1.00"),
		},
		token.SymbolMSOL: {
			domain.VenueRaydium: q("147.20"),
			domain.VenueJupiter: q("146.90"),
			domain.VenueOrca:    q("147.05"),
			domain.VenueMeteora: q("147.40"),
		},
		token.SymbolJUP: {
			domain.VenueRaydium: q("1.26"),
			domain.VenueJupiter: q("1.27"),
			domain.VenueOrca:    q("1.25"),
			domain.VenueMeteora: q("1.28"),
		},
	}
}

// New creates a feed over the built-in quote table, seeded from the clock.
func New(cfg Config) *Feed {
	return NewWithRand(cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand creates a feed with an explicit random source for
// deterministic tests.
func NewWithRand(cfg Config, rng *rand.Rand) *Feed {
	return &Feed{
		base:   BaseQuotes(),
		config: cfg,
		rng:    rng,
		now:    time.Now,
	}
}

// Name implements app.QuoteSource.
func (f *Feed) Name() string {
	return "mockfeed"
}

// Snapshot implements app.QuoteSource. Each quote is jittered
// independently within ±JitterPct and rounded to a precision fitting
// its magnitude, so sub-cent tokens keep meaningful digits.
func (f *Feed) Snapshot(ctx context.Context) (*domain.PriceSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	prices := make(map[token.Symbol]map[domain.Venue]decimal.Decimal, len(f.base))
	for sym, venues := range f.base {
		quotes := make(map[domain.Venue]decimal.Decimal, len(venues))
		for venue, base := range venues {
			if !f.quoted(venue) {
				continue
			}
			quotes[venue] = f.jitter(base)
		}
		if len(quotes) > 0 {
			prices[sym] = quotes
		}
	}

	return domain.NewPriceSnapshot(prices, f.now())
}

func (f *Feed) quoted(venue domain.Venue) bool {
	if len(f.config.Venues) == 0 {
		return true
	}
	for _, v := range f.config.Venues {
		if v == venue {
			return true
		}
	}
	return false
}

func (f *Feed) jitter(base decimal.Decimal) decimal.Decimal {
	fluctuation := (f.rng.Float64() - 0.5) * 2 * f.config.JitterPct / 100
	jittered := base.Mul(decimal.NewFromFloat(1 + fluctuation))
	return jittered.Round(precisionFor(base))
}

// precisionFor picks rounding precision by price magnitude.
func precisionFor(base decimal.Decimal) int32 {
	switch {
	case base.LessThan(decimal.RequireFromString("0.001")):
		return 8
	case base.LessThan(decimal.RequireFromString("0.1")):
		return 6
	default:
		return 4
	}
}
