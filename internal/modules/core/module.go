// Package core provides the built-in commands: ping, echo, and status.
package core

import (
	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/relaybot/internal/bot"
	"github.com/sglre6355/relaybot/internal/command"
	"github.com/sglre6355/relaybot/internal/status"
)

func init() {
	bot.Register(&Module{})
}

// Module provides the built-in commands.
type Module struct {
	collector status.Collector
}

// Name returns the module name.
func (m *Module) Name() string {
	return "core"
}

// Commands returns the command descriptors for this module.
func (m *Module) Commands() []command.Descriptor {
	return []command.Descriptor{
		{
			Name:        "ping",
			Description: "Replies with Pong!",
			Handler:     handlePing,
		},
		{
			Name:        "echo",
			Description: "Repeats the given text",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "text",
					Description: "Text to repeat",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "ephemeral",
					Description: "Reply only to you",
					Required:    false,
				},
			},
			Handler: handleEcho,
		},
		{
			Name:        "status",
			Description: "Show CPU, memory, and disk usage of the bot host",
			Handler:     m.handleStatus,
		},
	}
}

// Init initializes the module.
func (m *Module) Init(deps bot.ModuleDependencies) error {
	m.collector = status.NewGopsutilCollector()
	return nil
}

// Shutdown cleans up module resources.
func (m *Module) Shutdown() error {
	return nil
}
