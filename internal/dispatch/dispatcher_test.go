package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/relaybot/internal/command"
)

func newTestInvocation(name string) (*command.Invocation, *command.MockResponder) {
	responder := &command.MockResponder{}
	inv := command.NewInvocation("interaction-1", name, responder)
	inv.CallerID = "caller-1"
	return inv, responder
}

func ephemeralResponse(t *testing.T, responder *command.MockResponder) *discordgo.InteractionResponseData {
	t.Helper()

	resp := responder.LastResponse()
	if resp == nil {
		t.Fatal("expected a response, got none")
	}
	if resp.Data == nil {
		t.Fatal("expected response data, got nil")
	}
	if resp.Data.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Error("expected response to be ephemeral")
	}
	return resp.Data
}

func TestDispatch_HandlerSuccess(t *testing.T) {
	registry := command.NewRegistry()
	registry.Register(command.Descriptor{
		Name: "ping",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			return inv.RespondText("Pong!", false)
		},
	})
	d := New(registry, time.Second)

	inv, responder := newTestInvocation("ping")

	state := d.Dispatch(inv, nil)
	if state != command.StateReplied {
		t.Errorf("expected state %v, got %v", command.StateReplied, state)
	}
	if len(responder.Responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responder.Responses))
	}
	if responder.LastResponse().Data.Content != "Pong!" {
		t.Errorf("expected content %q, got %q", "Pong!", responder.LastResponse().Data.Content)
	}
}

func TestDispatch_UnknownCommand(t *testing.T) {
	d := New(command.NewRegistry(), time.Second)

	inv, responder := newTestInvocation("doesnotexist")

	state := d.Dispatch(inv, nil)
	if state != command.StateErrored {
		t.Errorf("expected state %v, got %v", command.StateErrored, state)
	}

	data := ephemeralResponse(t, responder)
	if len(data.Embeds) != 1 || data.Embeds[0].Title != "Unknown Command" {
		t.Errorf("expected unknown-command embed, got %+v", data.Embeds)
	}
}

func TestDispatch_HandlerError(t *testing.T) {
	registry := command.NewRegistry()
	registry.Register(command.Descriptor{
		Name: "broken",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			return errors.New("secret internal failure")
		},
	})
	d := New(registry, time.Second)

	inv, responder := newTestInvocation("broken")

	state := d.Dispatch(inv, nil)
	if state != command.StateErrored {
		t.Errorf("expected state %v, got %v", command.StateErrored, state)
	}

	data := ephemeralResponse(t, responder)
	if len(data.Embeds) != 1 {
		t.Fatalf("expected 1 embed, got %d", len(data.Embeds))
	}
	// Internal error text must never reach the user.
	if data.Embeds[0].Description == "secret internal failure" {
		t.Error("internal error text leaked to the user reply")
	}
}

func TestDispatch_Timeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	registry := command.NewRegistry()
	registry.Register(command.Descriptor{
		Name: "stuck",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			<-block
			return nil
		},
	})
	d := New(registry, 50*time.Millisecond)

	inv, responder := newTestInvocation("stuck")

	start := time.Now()
	state := d.Dispatch(inv, nil)
	elapsed := time.Since(start)

	if state != command.StateTimedOut {
		t.Errorf("expected state %v, got %v", command.StateTimedOut, state)
	}
	if elapsed > time.Second {
		t.Errorf("expected timeout near the 50ms deadline, took %v", elapsed)
	}
	if len(responder.Responses) != 1 {
		t.Fatalf("expected exactly 1 reply, got %d", len(responder.Responses))
	}
	ephemeralResponse(t, responder)
}

func TestDispatch_FastHandlerNeverTimesOut(t *testing.T) {
	registry := command.NewRegistry()
	registry.Register(command.Descriptor{
		Name: "ping",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			return inv.RespondText("Pong!", false)
		},
	})
	d := New(registry, time.Second)

	// A finishing handler cancels the dispatch context itself; that
	// cancellation must never be read as a deadline miss, however the
	// scheduler interleaves it with the deadline select.
	for i := 0; i < 500; i++ {
		inv, responder := newTestInvocation("ping")
		if state := d.Dispatch(inv, nil); state != command.StateReplied {
			t.Fatalf("dispatch %d: expected state %v, got %v", i, command.StateReplied, state)
		}
		if len(responder.Responses) != 1 {
			t.Fatalf("dispatch %d: expected exactly 1 reply, got %d", i, len(responder.Responses))
		}
	}
}

func TestDispatch_InvalidOptionsRejectedBeforeHandler(t *testing.T) {
	handlerRan := false
	registry := command.NewRegistry()
	registry.Register(command.Descriptor{
		Name: "echo",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "text", Required: true},
		},
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			handlerRan = true
			return nil
		},
	})
	d := New(registry, time.Second)

	inv, responder := newTestInvocation("echo")

	state := d.Dispatch(inv, []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "text", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(1)},
	})
	if state != command.StateErrored {
		t.Errorf("expected state %v, got %v", command.StateErrored, state)
	}
	if handlerRan {
		t.Error("expected handler not to run for invalid options")
	}
	ephemeralResponse(t, responder)
}

func TestDispatch_AtMostOnce(t *testing.T) {
	calls := 0
	registry := command.NewRegistry()
	registry.Register(command.Descriptor{
		Name: "ping",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			calls++
			return inv.RespondText("Pong!", false)
		},
	})
	d := New(registry, time.Second)

	inv, responder := newTestInvocation("ping")

	d.Dispatch(inv, nil)
	d.Dispatch(inv, nil)

	if calls != 1 {
		t.Errorf("expected handler to run once, ran %d times", calls)
	}
	if len(responder.Responses) != 1 {
		t.Errorf("expected exactly 1 reply, got %d", len(responder.Responses))
	}
}

func TestRun_DispatchesInteractionEvents(t *testing.T) {
	replied := make(chan struct{})
	registry := command.NewRegistry()
	registry.Register(command.Descriptor{
		Name: "ping",
		Handler: func(ctx context.Context, inv *command.Invocation) error {
			defer close(replied)
			return inv.RespondText("Pong!", false)
		},
	})
	d := New(registry, time.Second)

	events := make(chan Event, 1)
	inv, _ := newTestInvocation("ping")
	events <- Event{Kind: EventInteraction, Invocation: inv}
	close(events)

	d.Run(context.Background(), events)

	select {
	case <-replied:
	case <-time.After(time.Second):
		t.Fatal("expected handler to run for interaction event")
	}
	d.Wait()
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	d := New(command.NewRegistry(), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan Event)

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Run(ctx, events)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected Run to return after cancellation")
	}
}
