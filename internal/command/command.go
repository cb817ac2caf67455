// Package command defines slash command descriptors, the typed parameter
// model, and the registry that maps command names to handlers.
package command

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Handler processes one invocation. The context carries the dispatch
// deadline; handlers should respect it but are not force-cancelled when it
// expires.
type Handler func(ctx context.Context, inv *Invocation) error

// Descriptor describes one slash command: its registration metadata and
// the handler invoked when a user runs it.
type Descriptor struct {
	Name        string
	Description string
	Options     []*discordgo.ApplicationCommandOption
	Handler     Handler
}

// ApplicationCommand converts the descriptor to the discordgo registration
// type.
func (d Descriptor) ApplicationCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        d.Name,
		Description: d.Description,
		Options:     d.Options,
	}
}

// State tracks an invocation through its dispatch lifecycle. Replied,
// TimedOut, and Errored are terminal.
type State int32

// Dispatch states.
const (
	StateReceived State = iota
	StateDispatching
	StateReplied
	StateTimedOut
	StateErrored
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateDispatching:
		return "dispatching"
	case StateReplied:
		return "replied"
	case StateTimedOut:
		return "timed_out"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Invocation is one inbound command invocation: the command name, typed
// parameter values, caller identity, and the reply channel back to the
// gateway. It is consumed by at most one dispatch.
type Invocation struct {
	InteractionID string
	Command       string
	CallerID      string
	CallerName    string
	GuildID       string
	ChannelID     string
	Params        map[string]Value
	CreatedAt     time.Time

	responder  Responder
	dispatched atomic.Bool
	replied    atomic.Bool
	state      atomic.Int32
}

// NewInvocation creates an invocation bound to the given responder.
func NewInvocation(interactionID, commandName string, responder Responder) *Invocation {
	return &Invocation{
		InteractionID: interactionID,
		Command:       commandName,
		Params:        make(map[string]Value),
		CreatedAt:     time.Now(),
		responder:     responder,
	}
}

// BeginDispatch claims the invocation for dispatch. It returns true exactly
// once; later calls report that the invocation was already dispatched.
func (inv *Invocation) BeginDispatch() bool {
	return inv.dispatched.CompareAndSwap(false, true)
}

// Respond sends the terminal reply for this invocation. Only the first
// reply is sent; the platform rejects duplicates anyway, so later calls
// fail fast locally.
func (inv *Invocation) Respond(resp *discordgo.InteractionResponse) error {
	if !inv.replied.CompareAndSwap(false, true) {
		return fmt.Errorf("interaction %s already replied", inv.InteractionID)
	}
	return inv.responder.Respond(resp)
}

// RespondText replies with plain text.
func (inv *Invocation) RespondText(text string, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{Content: text}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return inv.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// RespondEmbed replies with a single embed.
func (inv *Invocation) RespondEmbed(title, description string, color int, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{
			{Title: title, Description: description, Color: color},
		},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return inv.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// Defer acknowledges the interaction within the platform's ack window so
// the handler may finish with a followup. Deferring consumes the initial
// response slot.
func (inv *Invocation) Defer(ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return inv.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

// Followup sends a followup message after Defer.
func (inv *Invocation) Followup(text string, ephemeral bool) error {
	params := &discordgo.WebhookParams{Content: text}
	if ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	return inv.responder.Followup(params)
}

// Replied reports whether a terminal reply has been sent.
func (inv *Invocation) Replied() bool {
	return inv.replied.Load()
}

// State returns the current dispatch state.
func (inv *Invocation) State() State {
	return State(inv.state.Load())
}

// SetState records a dispatch state transition.
func (inv *Invocation) SetState(s State) {
	inv.state.Store(int32(s))
}
