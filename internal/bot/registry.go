package bot

import "sync"

// ModuleRegistry collects the modules that contribute commands to the bot.
type ModuleRegistry struct {
	mu      sync.RWMutex
	modules []Module
}

// NewModuleRegistry creates an empty module registry.
func NewModuleRegistry() *ModuleRegistry {
	return &ModuleRegistry{
		modules: make([]Module, 0),
	}
}

// Register adds a module in registration order. Later modules override
// earlier ones when their command names collide, because the command
// registry replaces on re-register.
func (r *ModuleRegistry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = append(r.modules, m)
}

// Modules returns a snapshot copy of the registered modules.
func (r *ModuleRegistry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Module, len(r.modules))
	copy(result, r.modules)
	return result
}

// The global registry backs module self-registration: each module package
// calls Register from init(), and the entrypoint picks which modules ship
// by blank-importing their packages.
var globalRegistry = NewModuleRegistry()

// Register adds a module to the global registry.
func Register(m Module) {
	globalRegistry.Register(m)
}

// Modules returns all modules from the global registry.
func Modules() []Module {
	return globalRegistry.Modules()
}

// ResetGlobalRegistry replaces the global registry with an empty one.
// Intended for tests only.
func ResetGlobalRegistry() {
	globalRegistry = NewModuleRegistry()
}
