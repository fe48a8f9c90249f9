package model

import "sync"

// Registry holds the complete set of types produced by one build. Lookup is
// keyed both by normalized type name and, when distinct, by the original
// safe name. A rebuild replaces the whole set atomically via Replace.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
	order []string // canonical names in build order
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Type)}
}

// newRegistry wraps a completed build table. Build-internal.
func newRegistry(types map[string]*Type, order []string) *Registry {
	return &Registry{types: types, order: order}
}

// Lookup returns the type registered under name (normalized or safe form).
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[name]
	return t, ok
}

// Types returns all types in build order.
func (r *Registry) Types() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Type, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.types[name])
	}
	return out
}

// Roots returns the types with no superclass.
func (r *Registry) Roots() []*Type {
	var roots []*Type
	for _, t := range r.Types() {
		if len(t.ancestors) == 0 {
			roots = append(roots, t)
		}
	}
	return roots
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// Replace swaps this registry's contents for another's. Readers see either
// the old set or the new set, never a mixture.
func (r *Registry) Replace(other *Registry) {
	other.mu.RLock()
	types := make(map[string]*Type, len(other.types))
	for k, v := range other.types {
		types[k] = v
	}
	order := make([]string, len(other.order))
	copy(order, other.order)
	other.mu.RUnlock()

	r.mu.Lock()
	r.types = types
	r.order = order
	r.mu.Unlock()
}
