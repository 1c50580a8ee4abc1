package token

// Well-known token symbols on Solana
const (
	SymbolSOL  Symbol = "SOL"
	SymbolUSDC Symbol = "USDC"
	SymbolBONK Symbol = "BONK"
	SymbolMSOL Symbol = "mSOL"
	SymbolJUP  Symbol = "JUP"
)

// Well-known Tokens (pre-created instances)
var (
	SOL  = New(SymbolSOL, "Solana", 9)
	USDC = NewStable(SymbolUSDC, "USD Coin", 6)
	BONK = New(SymbolBONK, "Bonk", 5)
	MSOL = New(SymbolMSOL, "Marinade Staked SOL", 9)
	JUP  = New(SymbolJUP, "Jupiter", 6)
)

// DefaultRegistry returns a registry pre-populated with the default
// token universe. USDC is registered first so it is picked up as the
// base token.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(USDC)
	r.Register(SOL)
	r.Register(BONK)
	r.Register(MSOL)
	r.Register(JUP)
	return r
}
