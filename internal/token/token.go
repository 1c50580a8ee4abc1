// Package token provides metadata for the tokens quoted by the engine.
package token

// Symbol identifies a token by its ticker (e.g. "SOL", "USDC").
// Quotes are keyed by symbol; the registry carries the display metadata.
type Symbol string

func (s Symbol) String() string {
	return string(s)
}

// Token represents the metadata of a tradable token.
// The symbol is the identity within one snapshot universe.
type Token struct {
	symbol   Symbol
	name     string
	decimals uint8
	stable   bool
}

// New creates a new Token with the given parameters.
func New(symbol Symbol, name string, decimals uint8) *Token {
	if symbol == "" {
		panic("token: empty symbol")
	}
	if decimals > 30 {
		panic("token: suspicious decimals (>30)")
	}

	return &Token{
		symbol:   symbol,
		name:     name,
		decimals: decimals,
	}
}

// NewStable creates a stablecoin Token. Stablecoins serve as the base
// currency that arbitrage cycles open and close in.
func NewStable(symbol Symbol, name string, decimals uint8) *Token {
	t := New(symbol, name, decimals)
	t.stable = true
	return t
}

// Symbol returns the ticker symbol.
func (t *Token) Symbol() Symbol {
	return t.symbol
}

// Name returns the human-readable name, falling back to the symbol.
func (t *Token) Name() string {
	if t.name == "" {
		return string(t.symbol)
	}
	return t.name
}

// Decimals returns the number of decimal places.
func (t *Token) Decimals() uint8 {
	return t.decimals
}

// IsStable returns true if this token is a stablecoin.
func (t *Token) IsStable() bool {
	return t.stable
}
