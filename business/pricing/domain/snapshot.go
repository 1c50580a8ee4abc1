// Package domain contains the core domain types for the pricing context.
package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solarb-labs/arbitrage-engine/internal/apperror"
	"github.com/solarb-labs/arbitrage-engine/internal/token"
)

// Venue identifies a DEX a quote was observed on.
type Venue string

const (
	VenueRaydium Venue = "Raydium"
	VenueJupiter Venue = "Jupiter"
	VenueOrca    Venue = "Orca"
	VenueMeteora Venue = "Meteora"
)

// PriceSnapshot is an immutable token -> venue -> USD price matrix taken
// at a single instant. Construction validates the matrix; consumers may
// assume every stored price is strictly positive and every token has at
// least one venue quote.
type PriceSnapshot struct {
	prices     map[token.Symbol]map[Venue]decimal.Decimal
	tokenOrder []token.Symbol
	venueOrder map[token.Symbol][]Venue
	taken      time.Time
}

// NewPriceSnapshot builds a snapshot from the given matrix, copying it so
// later mutation of the input cannot leak in. Returns CodeInvalidSnapshot
// when the matrix is empty, a venue map is empty, or a price is not
// strictly positive.
func NewPriceSnapshot(prices map[token.Symbol]map[Venue]decimal.Decimal, taken time.Time) (*PriceSnapshot, error) {
	if len(prices) == 0 {
		return nil, apperror.New(apperror.CodeInvalidSnapshot,
			apperror.WithMessage("snapshot has no tokens"))
	}

	s := &PriceSnapshot{
		prices:     make(map[token.Symbol]map[Venue]decimal.Decimal, len(prices)),
		tokenOrder: make([]token.Symbol, 0, len(prices)),
		venueOrder: make(map[token.Symbol][]Venue, len(prices)),
		taken:      taken,
	}

	for sym, venues := range prices {
		if len(venues) == 0 {
			return nil, apperror.New(apperror.CodeInvalidSnapshot,
				apperror.WithMessage(fmt.Sprintf("token %s has no venue quotes", sym)))
		}

		quotes := make(map[Venue]decimal.Decimal, len(venues))
		order := make([]Venue, 0, len(venues))
		for venue, price := range venues {
			if !price.IsPositive() {
				return nil, apperror.New(apperror.CodeInvalidSnapshot,
					apperror.WithMessage(fmt.Sprintf("non-positive price %s", price)),
					apperror.WithContext(fmt.Sprintf("%s@%s", sym, venue)))
			}
			quotes[venue] = price
			order = append(order, venue)
		}
		sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

		s.prices[sym] = quotes
		s.venueOrder[sym] = order
		s.tokenOrder = append(s.tokenOrder, sym)
	}
	sort.Slice(s.tokenOrder, func(i, j int) bool { return s.tokenOrder[i] < s.tokenOrder[j] })

	return s, nil
}

// Tokens returns the token symbols present, in stable sorted order.
func (s *PriceSnapshot) Tokens() []token.Symbol {
	out := make([]token.Symbol, len(s.tokenOrder))
	copy(out, s.tokenOrder)
	return out
}

// Venues returns the venues quoting sym, in stable sorted order.
func (s *PriceSnapshot) Venues(sym token.Symbol) []Venue {
	order := s.venueOrder[sym]
	out := make([]Venue, len(order))
	copy(out, order)
	return out
}

// Price returns the USD price of sym on venue.
func (s *PriceSnapshot) Price(sym token.Symbol, venue Venue) (decimal.Decimal, bool) {
	quotes, ok := s.prices[sym]
	if !ok {
		return decimal.Decimal{}, false
	}
	p, ok := quotes[venue]
	return p, ok
}

// Rate returns how many units of to one unit of from buys on venue,
// derived from the venue's own USD quotes for both tokens.
func (s *PriceSnapshot) Rate(from, to token.Symbol, venue Venue) (decimal.Decimal, bool) {
	fromPrice, ok := s.Price(from, venue)
	if !ok {
		return decimal.Decimal{}, false
	}
	toPrice, ok := s.Price(to, venue)
	if !ok {
		return decimal.Decimal{}, false
	}
	return fromPrice.Div(toPrice), true
}

// Taken returns the instant the snapshot was captured.
func (s *PriceSnapshot) Taken() time.Time {
	return s.taken
}

// Age returns how old the snapshot is.
func (s *PriceSnapshot) Age() time.Duration {
	return time.Since(s.taken)
}
