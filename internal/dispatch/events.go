package dispatch

import (
	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/relaybot/internal/command"
)

// EventKind discriminates gateway events on the inbound channel.
type EventKind int

// Gateway event kinds.
const (
	// EventInteraction carries a command or component invocation.
	EventInteraction EventKind = iota
	// EventReady signals the gateway session is connected and identified.
	EventReady
	// EventDisconnect signals the gateway connection dropped.
	EventDisconnect
	// EventError carries a gateway-level error.
	EventError
)

// Event is one typed inbound gateway event. Interaction events carry the
// invocation plus the raw options, which are bound against the descriptor
// schema during dispatch.
type Event struct {
	Kind       EventKind
	Invocation *command.Invocation
	Options    []*discordgo.ApplicationCommandInteractionDataOption
	Err        error
}
