// Package di provides a minimal service container used to wire modules.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry exposes read access to registered services.
type ServiceRegistry interface {
	Get(name string) any
	Lookup(name string) (any, bool)
}

// Container registers and resolves named services.
type Container interface {
	ServiceRegistry
	Register(name string, svc any)
}

type container struct {
	services map[string]any
	mu       sync.RWMutex
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		services: make(map[string]any),
	}
}

// Register stores svc under name. Registering the same name twice panics:
// duplicate wiring is a programming error and should fail loudly at startup.
func (c *container) Register(name string, svc any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.services[name]; exists {
		panic(fmt.Sprintf("di: service %q already registered", name))
	}
	c.services[name] = svc
}

// Get resolves a service by name, panicking if absent. Use during startup
// wiring where a missing dependency is unrecoverable.
func (c *container) Get(name string) any {
	svc, ok := c.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("di: service %q not registered", name))
	}
	return svc
}

// Lookup resolves a service by name.
func (c *container) Lookup(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	svc, ok := c.services[name]
	return svc, ok
}
