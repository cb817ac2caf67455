package bot

import "github.com/sglre6355/relaybot/internal/command"

// ModuleDependencies provides dependencies that modules may need during
// initialization.
type ModuleDependencies struct {
	Config *Config
}

// Module defines the interface that all bot modules must implement.
type Module interface {
	// Name returns the unique identifier for this module.
	Name() string

	// Commands returns the command descriptors this module provides.
	// Called after Init.
	Commands() []command.Descriptor

	// Init initializes the module with the provided dependencies.
	Init(deps ModuleDependencies) error

	// Shutdown gracefully shuts down the module.
	Shutdown() error
}
