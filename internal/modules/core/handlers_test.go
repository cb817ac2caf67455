package core

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/relaybot/internal/command"
)

func TestHandlePing(t *testing.T) {
	responder := &command.MockResponder{}
	inv := command.NewInvocation("1", "ping", responder)

	if err := handlePing(context.Background(), inv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp := responder.LastResponse()
	if resp == nil {
		t.Fatal("expected response, got nil")
	}
	if resp.Data.Content != "Pong!" {
		t.Errorf("expected content %q, got %q", "Pong!", resp.Data.Content)
	}
}

func TestHandleEcho(t *testing.T) {
	responder := &command.MockResponder{}
	inv := command.NewInvocation("1", "echo", responder)
	inv.Params["text"] = command.Value{Kind: command.KindString, Str: "hello"}
	inv.Params["ephemeral"] = command.Value{Kind: command.KindBool, Bool: true}

	if err := handleEcho(context.Background(), inv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp := responder.LastResponse()
	if resp == nil {
		t.Fatal("expected response, got nil")
	}
	if resp.Data.Content != "hello" {
		t.Errorf("expected content %q, got %q", "hello", resp.Data.Content)
	}
	if resp.Data.Flags&discordgo.MessageFlagsEphemeral == 0 {
		t.Error("expected ephemeral reply")
	}
}

func TestModule_Commands(t *testing.T) {
	m := &Module{}

	descs := m.Commands()
	if len(descs) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(descs))
	}

	for _, desc := range descs {
		if desc.Handler == nil {
			t.Errorf("command %q has no handler", desc.Name)
		}
	}
}
