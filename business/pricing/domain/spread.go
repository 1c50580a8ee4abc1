package domain

import (
	"github.com/shopspring/decimal"

	"github.com/solarb-labs/arbitrage-engine/internal/token"
)

// VenueSpread is the spread between the cheapest and dearest venue
// quoting a token in one snapshot.
type VenueSpread struct {
	Token     token.Symbol
	LowVenue  Venue
	HighVenue Venue
	Low       decimal.Decimal
	High      decimal.Decimal
	Pct       decimal.Decimal // (High - Low) / Low * 100
}

var oneHundred = decimal.NewFromInt(100)

// Spread computes the venue spread for sym. Returns false when the token
// is absent. A token quoted on a single venue has zero spread.
func (s *PriceSnapshot) Spread(sym token.Symbol) (VenueSpread, bool) {
	venues := s.venueOrder[sym]
	if len(venues) == 0 {
		return VenueSpread{}, false
	}

	sp := VenueSpread{Token: sym}
	for i, venue := range venues {
		price := s.prices[sym][venue]
		if i == 0 {
			sp.LowVenue, sp.HighVenue = venue, venue
			sp.Low, sp.High = price, price
			continue
		}
		if price.LessThan(sp.Low) {
			sp.LowVenue, sp.Low = venue, price
		}
		if price.GreaterThan(sp.High) {
			sp.HighVenue, sp.High = venue, price
		}
	}

	sp.Pct = sp.High.Sub(sp.Low).Div(sp.Low).Mul(oneHundred)
	return sp, true
}
