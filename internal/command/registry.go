package command

import (
	"log/slog"
	"sort"
	"sync"
)

// Registry maps command names to descriptors with thread-safe access.
// Registration happens during startup; lookups dominate afterwards.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Descriptor
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Descriptor),
	}
}

// Register adds a descriptor. Registering a name that already exists
// replaces the previous descriptor; the replacement is logged so silent
// collisions between modules are visible.
func (r *Registry) Register(desc Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[desc.Name]; exists {
		slog.Warn("replacing registered command", "command", desc.Name)
	}
	r.commands[desc.Name] = desc
}

// Unregister removes a command by name and reports whether it was present.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, found := r.commands[name]
	delete(r.commands, name)
	return found
}

// Lookup retrieves a descriptor by name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.commands[name]
	return desc, ok
}

// List returns a name-sorted snapshot of all registered descriptors.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descs := make([]Descriptor, 0, len(r.commands))
	for _, desc := range r.commands {
		descs = append(descs, desc)
	}
	sort.Slice(descs, func(i, j int) bool {
		return descs[i].Name < descs[j].Name
	})
	return descs
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}
