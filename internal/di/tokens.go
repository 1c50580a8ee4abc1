package di

import (
	"fmt"
	"sync"
)

// Token is a typed handle for a service registered in a Container.
// The type parameter ties registration and resolution together so a
// mismatched cast fails at compile time instead of at runtime.
type Token[T any] struct {
	name string
}

// NewToken creates a token with a unique name. Names are namespaced by
// convention: "context.Service" for public services, "context:dep" for
// dependencies private to one module.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the token's registration name.
func (t Token[T]) Name() string {
	return t.name
}

// provider lazily constructs a service on first resolution.
type provider[T any] struct {
	once    sync.Once
	factory func(ServiceRegistry) T
	value   T
}

// RegisterToken registers a lazy factory for the token. The factory runs
// at most once, on first GetToken, so registration order between modules
// does not matter.
func RegisterToken[T any](c Container, t Token[T], factory func(ServiceRegistry) T) {
	c.Register(t.name, &provider[T]{factory: factory})
}

// GetToken resolves the token, invoking its factory if needed.
func GetToken[T any](sr ServiceRegistry, t Token[T]) T {
	svc := sr.Get(t.name)

	if p, ok := svc.(*provider[T]); ok {
		p.once.Do(func() {
			p.value = p.factory(sr)
		})
		return p.value
	}

	if v, ok := svc.(T); ok {
		return v
	}

	panic(fmt.Sprintf("di: service %q is not a %T", t.name, *new(T)))
}
