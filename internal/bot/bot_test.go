package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/sglre6355/relaybot/internal/command"
)

func testConfig() *Config {
	return &Config{
		DiscordToken: "test-token",
		APIToken:     "test-api-token",
	}
}

func TestNewBot(t *testing.T) {
	cfg := testConfig()

	b := NewBot(cfg)

	if b == nil {
		t.Fatal("expected bot to be created, got nil")
	}
	if b.config != cfg {
		t.Error("expected config to be stored")
	}
	if b.commands == nil {
		t.Error("expected command registry to be created")
	}
}

func TestBot_InitModules(t *testing.T) {
	b := NewBot(testConfig())

	initCalled := false
	trackingMod := &trackingStubModule{
		stubModule: stubModule{name: "tracking"},
		initCalled: &initCalled,
	}
	b.modules = []Module{trackingMod}

	err := b.initModules()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !initCalled {
		t.Error("expected Init to be called")
	}
}

func TestBot_InitModules_ReturnsInitError(t *testing.T) {
	b := NewBot(testConfig())

	expectedErr := errors.New("init failed")
	mod := &stubModule{
		name:    "failing",
		initErr: expectedErr,
	}
	b.modules = []Module{mod}

	err := b.initModules()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestBot_CollectCommands(t *testing.T) {
	b := NewBot(testConfig())

	handler := func(ctx context.Context, inv *command.Invocation) error { return nil }

	mod := &stubModule{
		name: "test",
		commands: []command.Descriptor{
			{Name: "ping", Description: "Ping command", Handler: handler},
		},
	}
	b.modules = []Module{mod}

	b.collectCommands()

	desc, ok := b.commands.Lookup("ping")
	if !ok {
		t.Fatal("expected ping command to be registered")
	}
	if desc.Description != "Ping command" {
		t.Errorf("expected description %q, got %q", "Ping command", desc.Description)
	}
}

func TestBot_CollectCommands_MultipleModules(t *testing.T) {
	b := NewBot(testConfig())

	handler := func(ctx context.Context, inv *command.Invocation) error { return nil }

	mod1 := &stubModule{
		name:     "mod1",
		commands: []command.Descriptor{{Name: "cmd1", Handler: handler}},
	}
	mod2 := &stubModule{
		name:     "mod2",
		commands: []command.Descriptor{{Name: "cmd2", Handler: handler}},
	}
	b.modules = []Module{mod1, mod2}

	b.collectCommands()

	if b.commands.Len() != 2 {
		t.Errorf("expected 2 commands, got %d", b.commands.Len())
	}
}

// trackingStubModule is a stub that tracks if Init was called
type trackingStubModule struct {
	stubModule
	initCalled *bool
}

func (m *trackingStubModule) Init(deps ModuleDependencies) error {
	*m.initCalled = true
	return m.stubModule.Init(deps)
}
