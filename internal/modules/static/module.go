// Package static provides operator-defined slash commands that reply with
// fixed text, loaded from a YAML file.
package static

import (
	"context"
	"log/slog"

	"github.com/sglre6355/relaybot/internal/bot"
	"github.com/sglre6355/relaybot/internal/command"
)

func init() {
	bot.Register(&Module{})
}

// Module serves static-reply commands.
type Module struct {
	defs []Def
}

// Name returns the module name.
func (m *Module) Name() string {
	return "static"
}

// Commands returns one descriptor per loaded definition.
func (m *Module) Commands() []command.Descriptor {
	descs := make([]command.Descriptor, 0, len(m.defs))
	for _, def := range m.defs {
		descs = append(descs, command.Descriptor{
			Name:        def.Name,
			Description: def.Description,
			Handler:     handler(def),
		})
	}
	return descs
}

// handler builds the reply handler for one definition.
func handler(def Def) command.Handler {
	return func(ctx context.Context, inv *command.Invocation) error {
		return inv.RespondText(def.Reply, def.Ephemeral)
	}
}

// Init loads definitions from the configured file. With no file
// configured the module contributes nothing.
func (m *Module) Init(deps bot.ModuleDependencies) error {
	if deps.Config.StaticCommandsFile == "" {
		return nil
	}

	defs, err := Load(deps.Config.StaticCommandsFile)
	if err != nil {
		return err
	}
	m.defs = defs

	slog.Info("loaded static commands",
		"file", deps.Config.StaticCommandsFile, "count", len(defs))
	return nil
}

// Shutdown cleans up module resources.
func (m *Module) Shutdown() error {
	return nil
}
