// Package dispatch routes inbound gateway events to registered command
// handlers under a response deadline.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/relaybot/internal/command"
)

// DefaultDeadline is the handler response deadline: the platform's 3 s
// acknowledgement window.
const DefaultDeadline = 3000 * time.Millisecond

// Embed colors for error replies.
const (
	colorYellow = 0xFFFF00
	colorRed    = 0xFF0000
)

// Dispatcher consumes inbound gateway events and runs command handlers,
// racing each against the response deadline. One failing or stalled
// handler never affects other interactions or the gateway session.
type Dispatcher struct {
	registry *command.Registry
	deadline time.Duration
	wg       sync.WaitGroup
}

// New creates a Dispatcher over the given registry. A non-positive
// deadline falls back to DefaultDeadline.
func New(registry *command.Registry, deadline time.Duration) *Dispatcher {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	return &Dispatcher{
		registry: registry,
		deadline: deadline,
	}
}

// Run consumes events until the channel closes or ctx is cancelled.
// Interactions run in their own goroutines so unrelated invocations never
// block each other; steps of a single invocation stay sequential.
func (d *Dispatcher) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			d.handleEvent(ev)
		}
	}
}

// Wait blocks until all in-flight dispatches have settled. Handlers still
// running past their deadline are not waited for.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) handleEvent(ev Event) {
	switch ev.Kind {
	case EventInteraction:
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.Dispatch(ev.Invocation, ev.Options)
		}()
	case EventReady:
		slog.Info("gateway session ready")
	case EventDisconnect:
		slog.Warn("gateway session disconnected")
	case EventError:
		slog.Error("gateway error", "error", ev.Err)
	}
}

// Dispatch runs one invocation to a terminal state and returns it. A given
// invocation is dispatched at most once; duplicate calls are no-ops that
// return the state recorded by the first.
//
// The handler is raced against the deadline. The loser's result is
// discarded but the handler goroutine is never killed: its context expires
// at the deadline, and handlers that ignore it keep running in the
// background. Handler side effects must therefore tolerate completing
// after a timeout reply has already been sent.
func (d *Dispatcher) Dispatch(
	inv *command.Invocation,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) command.State {
	if !inv.BeginDispatch() {
		slog.Warn("ignoring duplicate dispatch",
			"interaction", inv.InteractionID, "command", inv.Command)
		return inv.State()
	}
	inv.SetState(command.StateDispatching)

	desc, ok := d.registry.Lookup(inv.Command)
	if !ok {
		slog.Warn("found no handler for command",
			"command", inv.Command, "caller", inv.CallerID)
		d.replyError(inv, "Unknown Command", "This command is not recognized.", colorYellow)
		inv.SetState(command.StateErrored)
		return command.StateErrored
	}

	if err := command.BindOptions(inv, desc, options); err != nil {
		slog.Warn("rejecting invocation with invalid options",
			"command", inv.Command, "caller", inv.CallerID, "error", err)
		d.replyError(inv, "Invalid Parameters",
			"The command was invoked with invalid parameters.", colorYellow)
		inv.SetState(command.StateErrored)
		return command.StateErrored
	}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(d.deadline))

	done := make(chan error, 1)
	go func() {
		done <- desc.Handler(ctx, inv)
		cancel()
	}()

	select {
	case err := <-done:
		return d.settle(inv, err)

	case <-ctx.Done():
		// The handler goroutine cancels the context after sending its
		// result, so Canceled here means the handler settled just under
		// the wire and its result is already buffered in done.
		if errors.Is(ctx.Err(), context.Canceled) {
			return d.settle(inv, <-done)
		}
		slog.Error("command handler exceeded deadline",
			"command", inv.Command, "caller", inv.CallerID, "deadline", d.deadline)
		d.replyError(inv, "Timeout", "The command took too long to execute.", colorRed)
		inv.SetState(command.StateTimedOut)
		return command.StateTimedOut
	}
}

// settle records the terminal state for a handler that finished before the
// deadline.
func (d *Dispatcher) settle(inv *command.Invocation, err error) command.State {
	if err != nil {
		slog.Error("failed to handle command",
			"command", inv.Command, "caller", inv.CallerID, "error", err)
		d.replyError(inv, "Error",
			"An error occurred while processing your command.", colorRed)
		inv.SetState(command.StateErrored)
		return command.StateErrored
	}
	if !inv.Replied() {
		// Handler contract violation: a successful handler must have
		// issued its own reply.
		slog.Warn("handler completed without replying", "command", inv.Command)
	}
	inv.SetState(command.StateReplied)
	return command.StateReplied
}

// replyError sends a single ephemeral embed reply. If the invocation was
// already replied to, the attempt is dropped quietly.
func (d *Dispatcher) replyError(inv *command.Invocation, title, description string, color int) {
	if err := inv.RespondEmbed(title, description, color, true); err != nil {
		slog.Debug("skipped error reply", "interaction", inv.InteractionID, "error", err)
	}
}
