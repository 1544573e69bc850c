package toolkit

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNotFound is returned when a toolkit name is not registered.
var ErrNotFound = errors.New("toolkit: not found")

// Factory builds a toolkit instance.
type Factory func() (Toolkit, error)

// Registry stores toolkit factories by name so configuration can pick one.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory by name. Duplicate names return an error.
func (r *Registry) Register(name string, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("toolkit: factory is required")
	}
	if name == "" {
		return fmt.Errorf("toolkit: name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("toolkit: %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// New instantiates the toolkit registered under name.
func (r *Registry) New(name string) (Toolkit, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	tk, err := factory()
	if err != nil {
		return nil, fmt.Errorf("toolkit: create %q: %w", name, err)
	}
	return tk, nil
}

// List returns a sorted list of toolkit names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
