package membership

import (
	"sort"
	"sync"
)

// Registry holds the abilities the gate knows, keyed by handle.
//
// Abilities come from two sources: the permissions table, loaded wholesale
// on every boot, and abilities defined by the host application. Host
// definitions survive reboots and win over a stored permission with the
// same handle.
type Registry struct {
	mu      sync.RWMutex
	booted  map[string]Ability
	defined map[string]Ability
}

// NewRegistry creates an empty ability registry.
func NewRegistry() *Registry {
	return &Registry{
		booted:  make(map[string]Ability),
		defined: make(map[string]Ability),
	}
}

// Define registers a host ability.
func (r *Registry) Define(handle string, ability Ability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defined[handle] = ability
}

// Get returns the ability registered for a handle.
func (r *Registry) Get(handle string) (Ability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if a, ok := r.defined[handle]; ok {
		return a, true
	}
	a, ok := r.booted[handle]
	return a, ok
}

// Has reports whether a handle is registered.
func (r *Registry) Has(handle string) bool {
	_, ok := r.Get(handle)
	return ok
}

// Handles returns every registered handle, sorted.
func (r *Registry) Handles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := make(map[string]bool, len(r.booted)+len(r.defined))
	for h := range r.booted {
		set[h] = true
	}
	for h := range r.defined {
		set[h] = true
	}

	handles := make([]string, 0, len(set))
	for h := range set {
		handles = append(handles, h)
	}
	sort.Strings(handles)
	return handles
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	return len(r.Handles())
}

// replaceBooted swaps the stored-permission abilities in one step.
func (r *Registry) replaceBooted(abilities map[string]Ability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.booted = abilities
}
