package module

import (
	"sort"
	"sync"
)

// Registry maps module names to their port sets so main can wire modules
// without importing each module's constructor twice
type Registry struct {
	mu    sync.RWMutex
	ports map[string]any
}

// NewRegistry returns an empty Registry
func NewRegistry() *Registry { return &Registry{ports: map[string]any{}} }

// Set stores ports under name, replacing any earlier entry
func (r *Registry) Set(name string, ports any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ports[name] = ports
}

// Get returns the raw port set stored under name
func (r *Registry) Get(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.ports[name]
	return v, ok
}

// Names lists registered modules in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.ports))
	for n := range r.ports {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// process-wide registry used by cmd/ipums-prep
var global = NewRegistry()

// Register stores a port set in the process registry
func Register(name string, ports any) { global.Set(name, ports) }

// Names lists the modules in the process registry
func Names() []string { return global.Names() }

// PortsAs fetches name from the process registry as T
func PortsAs[T any](name string) (T, bool) {
	var zero T
	v, ok := global.Get(name)
	if !ok {
		return zero, false
	}
	out, ok := v.(T)
	if !ok {
		return zero, false
	}
	return out, true
}

// Reset empties the process registry; tests only
func Reset() { global = NewRegistry() }
