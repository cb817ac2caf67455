package command

import (
	"context"
	"testing"
)

func noopHandler(ctx context.Context, inv *Invocation) error { return nil }

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()

	reg.Register(Descriptor{Name: "ping", Description: "first", Handler: noopHandler})

	desc, ok := reg.Lookup("ping")
	if !ok {
		t.Fatal("expected command to be found")
	}
	if desc.Description != "first" {
		t.Errorf("expected description %q, got %q", "first", desc.Description)
	}
}

func TestRegistry_LookupMissing(t *testing.T) {
	reg := NewRegistry()

	if _, ok := reg.Lookup("nope"); ok {
		t.Error("expected lookup of unknown command to fail")
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	reg := NewRegistry()

	reg.Register(Descriptor{Name: "ping", Description: "first", Handler: noopHandler})
	reg.Register(Descriptor{Name: "ping", Description: "second", Handler: noopHandler})

	if reg.Len() != 1 {
		t.Fatalf("expected 1 command after replacement, got %d", reg.Len())
	}

	desc, ok := reg.Lookup("ping")
	if !ok {
		t.Fatal("expected command to be found")
	}
	if desc.Description != "second" {
		t.Errorf("expected replacement descriptor, got %q", desc.Description)
	}
}

func TestRegistry_Unregister(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Descriptor{Name: "ping", Handler: noopHandler})

	if !reg.Unregister("ping") {
		t.Error("expected unregister of existing command to report found")
	}
	if reg.Unregister("ping") {
		t.Error("expected second unregister to report not found")
	}
	if _, ok := reg.Lookup("ping"); ok {
		t.Error("expected command to be gone after unregister")
	}
}

func TestRegistry_ListSorted(t *testing.T) {
	reg := NewRegistry()
	reg.Register(Descriptor{Name: "zeta", Handler: noopHandler})
	reg.Register(Descriptor{Name: "alpha", Handler: noopHandler})
	reg.Register(Descriptor{Name: "mid", Handler: noopHandler})

	descs := reg.List()
	if len(descs) != 3 {
		t.Fatalf("expected 3 commands, got %d", len(descs))
	}

	names := []string{descs[0].Name, descs[1].Name, descs[2].Name}
	expected := []string{"alpha", "mid", "zeta"}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("expected name %q at %d, got %q", expected[i], i, names[i])
		}
	}
}
