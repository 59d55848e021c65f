package command

import "sort"

// Builder collects modules during bootstrap. Build seals the result; the
// sealed Registry has no mutation API.
type Builder struct {
	modules map[string]Module
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{modules: make(map[string]Module)}
}

// Register inserts or overwrites the module stored under key. It reports
// whether an existing entry was replaced.
func (b *Builder) Register(key string, m Module) (replaced bool) {
	_, replaced = b.modules[key]
	b.modules[key] = m
	return replaced
}

// Build returns a read-only snapshot of everything registered so far.
func (b *Builder) Build() *Registry {
	modules := make(map[string]Module, len(b.modules))
	for k, m := range b.modules {
		modules[k] = m
	}
	return &Registry{modules: modules}
}

// Registry maps resolved keys to modules. It is immutable, so concurrent
// lookups need no locking. Keys are matched exactly.
type Registry struct {
	modules map[string]Module
}

// Lookup returns the module stored under key.
func (r *Registry) Lookup(key string) (Module, bool) {
	if r == nil {
		return nil, false
	}
	m, ok := r.modules[key]
	return m, ok
}

// Keys returns all registered keys, sorted.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, 0, len(r.modules))
	for k := range r.modules {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered keys.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.modules)
}
