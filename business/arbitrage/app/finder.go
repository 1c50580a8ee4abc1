// Package app contains application services and port definitions for the arbitrage context.
package app

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/domain"
	pricingDomain "github.com/solarb-labs/arbitrage-engine/business/pricing/domain"
	"github.com/solarb-labs/arbitrage-engine/internal/token"
)

// Strategies toggles the strategy classes scanned per detection pass.
type Strategies struct {
	Direct        bool
	Triangular    bool
	Quadrilateral bool
}

// Detection thresholds. Longer paths compound fees and risk, so each
// strategy clears a higher profit bar and a larger gas buffer.
var (
	referenceTradeUSD = decimal.NewFromInt(100)

	directMinProfitPct = decimal.RequireFromString("0.25")
	directGasSOL       = decimal.RequireFromString("0.015")
	directGasBuffer    = decimal.RequireFromString("1.2")

	triangularMinProfitPct = decimal.RequireFromString("0.4")
	triangularGasSOL       = decimal.RequireFromString("0.025")
	triangularGasBuffer    = decimal.RequireFromString("1.3")

	quadMinProfitPct = decimal.RequireFromString("0.5")
	quadGasSOL       = decimal.RequireFromString("0.035")
	quadGasBuffer    = decimal.RequireFromString("1.4")
)

// FinderConfig holds detection parameters.
type FinderConfig struct {
	BaseToken      token.Symbol        // cycle start/end, conventionally the stablecoin
	ReferenceVenue pricingDomain.Venue // venue whose SOL quote prices gas
	QuadSamples    int                 // random 4-hop routes sampled per scan
}

// DefaultFinderConfig returns the standard detection parameters.
func DefaultFinderConfig() FinderConfig {
	return FinderConfig{
		BaseToken:      token.SymbolUSDC,
		ReferenceVenue: pricingDomain.VenueRaydium,
		QuadSamples:    3,
	}
}

// Finder scans price snapshots for profitable cyclic trading paths.
// Candidates that do not clear their gas buffer are never emitted.
type Finder struct {
	config FinderConfig

	mu  sync.Mutex
	rng *rand.Rand

	now func() time.Time
}

// NewFinder creates a finder seeded from the clock.
func NewFinder(cfg FinderConfig) *Finder {
	return NewFinderWithRand(cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewFinderWithRand creates a finder with an explicit random source for
// deterministic tests. Randomness only feeds risk-factor jitter and
// quadrilateral route sampling, never profitability itself.
func NewFinderWithRand(cfg FinderConfig, rng *rand.Rand) *Finder {
	if cfg.QuadSamples <= 0 {
		cfg.QuadSamples = DefaultFinderConfig().QuadSamples
	}
	return &Finder{
		config: cfg,
		rng:    rng,
		now:    time.Now,
	}
}

// Find scans the snapshot and concatenates candidates for each enabled
// strategy. Strategies are independent; there is no precedence between
// them.
func (f *Finder) Find(snap *pricingDomain.PriceSnapshot, enabled Strategies) []*domain.Opportunity {
	solRef, ok := snap.Price(token.SymbolSOL, f.config.ReferenceVenue)
	if !ok {
		// Gas cannot be priced without the reference SOL quote.
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var opps []*domain.Opportunity
	if enabled.Direct {
		opps = append(opps, f.findDirect(snap, solRef)...)
	}
	if enabled.Triangular {
		opps = append(opps, f.findTriangular(snap, solRef)...)
	}
	if enabled.Quadrilateral {
		opps = append(opps, f.findQuadrilateral(snap, solRef)...)
	}
	return opps
}

// findDirect scans every non-base token for venue pairs where the same
// token trades at different prices: buy on the cheap venue, sell on the
// dear one.
func (f *Finder) findDirect(snap *pricingDomain.PriceSnapshot, solRef decimal.Decimal) []*domain.Opportunity {
	gasUSD := directGasSOL.Mul(solRef)
	minProfitUSD := gasUSD.Mul(directGasBuffer)

	var opps []*domain.Opportunity
	for _, sym := range snap.Tokens() {
		if sym == f.config.BaseToken {
			continue
		}

		venues := snap.Venues(sym)
		for _, lowVenue := range venues {
			lowPrice, _ := snap.Price(sym, lowVenue)

			for _, highVenue := range venues {
				if lowVenue == highVenue {
					continue
				}
				highPrice, _ := snap.Price(sym, highVenue)
				if !lowPrice.LessThan(highPrice) {
					continue
				}

				profitPct := highPrice.Div(lowPrice).Sub(decimal.NewFromInt(1)).Mul(oneHundredPct)
				if !profitPct.GreaterThan(directMinProfitPct) {
					continue
				}

				// 100 USD buys 100/low units, each sold for (high - low) more.
				profitUSD := referenceTradeUSD.Div(lowPrice).Mul(highPrice.Sub(lowPrice))
				if !profitUSD.GreaterThan(minProfitUSD) {
					continue
				}

				buyRate, ok := snap.Rate(f.config.BaseToken, sym, lowVenue)
				if !ok {
					continue
				}
				sellRate, ok := snap.Rate(sym, f.config.BaseToken, highVenue)
				if !ok {
					continue
				}

				opps = append(opps, &domain.Opportunity{
					ID:       f.newID(domain.StrategyDirect, string(sym), string(lowVenue), string(highVenue)),
					Strategy: domain.StrategyDirect,
					Path: []domain.Step{
						{Venue: lowVenue, FromToken: f.config.BaseToken, ToToken: sym, Rate: buyRate},
						{Venue: highVenue, FromToken: sym, ToToken: f.config.BaseToken, Rate: sellRate},
					},
					ProfitPct:    profitPct,
					ProfitUSD:    profitUSD,
					GasCostSOL:   directGasSOL,
					GasCostUSD:   gasUSD,
					RiskFactor:   0.1,
					Status:       domain.StatusReady,
					DiscoveredAt: f.now(),
				})
			}
		}
	}
	return opps
}

// findTriangular enumerates 3-hop cycles base -> midA -> midB -> base
// over every ordered pair of distinct mids, choosing the venue for each
// hop independently.
func (f *Finder) findTriangular(snap *pricingDomain.PriceSnapshot, solRef decimal.Decimal) []*domain.Opportunity {
	gasUSD := triangularGasSOL.Mul(solRef)
	minProfitUSD := gasUSD.Mul(triangularGasBuffer)

	mids := f.midTokens(snap)

	var opps []*domain.Opportunity
	for _, midA := range mids {
		for _, midB := range mids {
			if midA == midB {
				continue
			}

			path := []token.Symbol{f.config.BaseToken, midA, midB, f.config.BaseToken}
			for _, steps := range f.enumerateVenues(snap, path) {
				opp := f.buildCycle(domain.StrategyTriangular, steps,
					triangularMinProfitPct, gasUSD, minProfitUSD, triangularGasSOL)
				if opp != nil {
					opp.RiskFactor = 0.3 + f.rng.Float64()*0.2
					opps = append(opps, opp)
				}
			}
		}
	}
	return opps
}

// findQuadrilateral samples bounded random 4-hop cycles through three
// distinct mids. Exhaustive search over four hops is combinatorially
// heavy relative to the value of the extra routes, so the explore step
// is pruned by sampling.
func (f *Finder) findQuadrilateral(snap *pricingDomain.PriceSnapshot, solRef decimal.Decimal) []*domain.Opportunity {
	gasUSD := quadGasSOL.Mul(solRef)
	minProfitUSD := gasUSD.Mul(quadGasBuffer)

	mids := f.midTokens(snap)
	if len(mids) < 3 {
		return nil
	}

	var opps []*domain.Opportunity
	for i := 0; i < f.config.QuadSamples; i++ {
		f.rng.Shuffle(len(mids), func(a, b int) { mids[a], mids[b] = mids[b], mids[a] })
		route := []token.Symbol{f.config.BaseToken, mids[0], mids[1], mids[2], f.config.BaseToken}

		steps, ok := f.sampleVenues(snap, route)
		if !ok {
			continue
		}

		opp := f.buildCycle(domain.StrategyQuadrilateral, steps,
			quadMinProfitPct, gasUSD, minProfitUSD, quadGasSOL)
		if opp != nil {
			opp.RiskFactor = 0.5 + f.rng.Float64()*0.3
			opps = append(opps, opp)
		}
	}
	return opps
}

// buildCycle compounds a 100-unit base investment through the steps and
// returns an opportunity when both the profit threshold and the gas
// buffer clear, nil otherwise.
func (f *Finder) buildCycle(
	strategy domain.StrategyType,
	steps []domain.Step,
	minProfitPct, gasUSD, minProfitUSD, gasSOL decimal.Decimal,
) *domain.Opportunity {
	amount := referenceTradeUSD
	for _, step := range steps {
		amount = amount.Mul(step.Rate)
	}

	profitUSD := amount.Sub(referenceTradeUSD)
	profitPct := profitUSD.Div(referenceTradeUSD).Mul(oneHundredPct)

	if !profitPct.GreaterThan(minProfitPct) {
		return nil
	}
	if !profitUSD.GreaterThan(minProfitUSD) {
		return nil
	}

	parts := make([]string, 0, len(steps)+1)
	parts = append(parts, string(steps[0].FromToken))
	for _, s := range steps {
		parts = append(parts, string(s.ToToken))
	}

	return &domain.Opportunity{
		ID:           f.newID(strategy, parts...),
		Strategy:     strategy,
		Path:         steps,
		ProfitPct:    profitPct,
		ProfitUSD:    profitUSD,
		GasCostSOL:   gasSOL,
		GasCostUSD:   gasUSD,
		Status:       domain.StatusReady,
		DiscoveredAt: f.now(),
	}
}

// enumerateVenues yields every venue assignment for the hop sequence
// where each hop's venue quotes both of its tokens.
func (f *Finder) enumerateVenues(snap *pricingDomain.PriceSnapshot, path []token.Symbol) [][]domain.Step {
	assignments := [][]domain.Step{{}}
	for i := 0; i+1 < len(path); i++ {
		from, to := path[i], path[i+1]

		var next [][]domain.Step
		for _, prefix := range assignments {
			for _, venue := range snap.Venues(to) {
				rate, ok := snap.Rate(from, to, venue)
				if !ok {
					continue
				}
				steps := make([]domain.Step, len(prefix), len(prefix)+1)
				copy(steps, prefix)
				next = append(next, append(steps, domain.Step{
					Venue: venue, FromToken: from, ToToken: to, Rate: rate,
				}))
			}
		}
		assignments = next
	}
	return assignments
}

// sampleVenues picks one random quoting venue per hop.
func (f *Finder) sampleVenues(snap *pricingDomain.PriceSnapshot, path []token.Symbol) ([]domain.Step, bool) {
	steps := make([]domain.Step, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		from, to := path[i], path[i+1]

		var candidates []domain.Step
		for _, venue := range snap.Venues(to) {
			rate, ok := snap.Rate(from, to, venue)
			if !ok {
				continue
			}
			candidates = append(candidates, domain.Step{
				Venue: venue, FromToken: from, ToToken: to, Rate: rate,
			})
		}
		if len(candidates) == 0 {
			return nil, false
		}
		steps = append(steps, candidates[f.rng.Intn(len(candidates))])
	}
	return steps, true
}

// midTokens returns every quoted token except the base.
func (f *Finder) midTokens(snap *pricingDomain.PriceSnapshot) []token.Symbol {
	var mids []token.Symbol
	for _, sym := range snap.Tokens() {
		if sym != f.config.BaseToken {
			mids = append(mids, sym)
		}
	}
	return mids
}

func (f *Finder) newID(strategy domain.StrategyType, pathParts ...string) string {
	return fmt.Sprintf("%s-%s-%d-%s",
		strategy,
		strings.Join(pathParts, ":"),
		f.now().UnixNano(),
		uuid.NewString()[:8])
}

var oneHundredPct = decimal.NewFromInt(100)
