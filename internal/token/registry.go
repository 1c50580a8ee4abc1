package token

import (
	"fmt"
	"sync"
)

// Registry is a thread-safe registry of known tokens.
type Registry struct {
	bySymbol map[Symbol]*Token
	order    []Symbol // registration order, for stable iteration
	mu       sync.RWMutex
}

// NewRegistry creates a new empty token registry.
func NewRegistry() *Registry {
	return &Registry{
		bySymbol: make(map[Symbol]*Token),
	}
}

// Register adds a token to the registry.
// Panics if a token with the same symbol is already registered.
func (r *Registry) Register(t *Token) {
	if t == nil {
		panic("token: cannot register nil token")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sym := t.Symbol()
	if _, exists := r.bySymbol[sym]; exists {
		panic(fmt.Sprintf("token: %s already registered", sym))
	}

	r.bySymbol[sym] = t
	r.order = append(r.order, sym)
}

// Get retrieves a token by symbol.
func (r *Registry) Get(sym Symbol) (*Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.bySymbol[sym]
	return t, ok
}

// MustGet retrieves a token by symbol, panics if not found.
func (r *Registry) MustGet(sym Symbol) *Token {
	t, ok := r.Get(sym)
	if !ok {
		panic(fmt.Sprintf("token: %s not found in registry", sym))
	}
	return t
}

// Symbols returns all registered symbols in registration order.
func (r *Registry) Symbols() []Symbol {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Symbol, len(r.order))
	copy(out, r.order)
	return out
}

// Stable returns the first registered stablecoin, used as the base token.
func (r *Registry) Stable() (*Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sym := range r.order {
		if r.bySymbol[sym].IsStable() {
			return r.bySymbol[sym], true
		}
	}
	return nil, false
}
