package token_test

import (
	"testing"

	"github.com/solarb-labs/arbitrage-engine/internal/token"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := token.NewRegistry()
	r.Register(token.New("FOO", "Foo Token", 9))

	got, ok := r.Get("FOO")
	if !ok {
		t.Fatal("expected FOO to be registered")
	}
	if got.Name() != "Foo Token" {
		t.Errorf("expected 'Foo Token', got %q", got.Name())
	}
	if got.Decimals() != 9 {
		t.Errorf("expected 9 decimals, got %d", got.Decimals())
	}

	if _, ok := r.Get("BAR"); ok {
		t.Error("expected BAR to be absent")
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := token.NewRegistry()
	r.Register(token.New("FOO", "Foo Token", 9))

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	r.Register(token.New("FOO", "Other", 6))
}

func TestRegistry_SymbolsKeepRegistrationOrder(t *testing.T) {
	r := token.NewRegistry()
	r.Register(token.New("C", "", 0))
	r.Register(token.New("A", "", 0))
	r.Register(token.New("B", "", 0))

	syms := r.Symbols()
	want := []token.Symbol{"C", "A", "B"}
	if len(syms) != len(want) {
		t.Fatalf("expected %d symbols, got %d", len(want), len(syms))
	}
	for i := range want {
		if syms[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], syms[i])
		}
	}
}

func TestDefaultRegistry_StableIsUSDC(t *testing.T) {
	r := token.DefaultRegistry()

	stable, ok := r.Stable()
	if !ok {
		t.Fatal("expected a stablecoin in the default registry")
	}
	if stable.Symbol() != token.SymbolUSDC {
		t.Errorf("expected USDC as base token, got %s", stable.Symbol())
	}
	if !stable.IsStable() {
		t.Error("expected USDC to report stable")
	}

	for _, sym := range []token.Symbol{token.SymbolSOL, token.SymbolBONK, token.SymbolMSOL, token.SymbolJUP} {
		tok := r.MustGet(sym)
		if tok.IsStable() {
			t.Errorf("%s should not be stable", sym)
		}
	}
}

func TestToken_NameFallsBackToSymbol(t *testing.T) {
	tok := token.New("XYZ", "", 4)
	if tok.Name() != "XYZ" {
		t.Errorf("expected symbol fallback, got %q", tok.Name())
	}
}
