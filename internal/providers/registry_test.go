package providers

import (
	"context"
	"testing"
)

type stubClient struct {
	id string
}

func (s *stubClient) ID() string { return s.id }

func (s *stubClient) Search(context.Context, []string, SearchParams) ([]Candidate, error) {
	return nil, nil
}

func newTestRegistry() *Registry {
	registry := NewRegistry(&stubClient{id: "youtube"})
	registry.Register(ProviderConfig{ID: "nasa", Priority: 2, Enabled: true}, &stubClient{id: "nasa"})
	registry.Register(ProviderConfig{ID: "dvids", Priority: 1, Enabled: true}, &stubClient{id: "dvids"})
	registry.Register(ProviderConfig{ID: "archive", Priority: 3, Enabled: false}, &stubClient{id: "archive"})
	return registry
}

func TestRegistryChainHonorsPriority(t *testing.T) {
	chain := newTestRegistry().Chain("")
	if len(chain) != 2 {
		t.Fatalf("expected 2 enabled providers, got %d", len(chain))
	}
	if chain[0].ID() != "dvids" || chain[1].ID() != "nasa" {
		t.Fatalf("unexpected chain order: %s, %s", chain[0].ID(), chain[1].ID())
	}
}

func TestRegistryChainPreferredProvider(t *testing.T) {
	chain := newTestRegistry().Chain("NASA")
	if len(chain) != 1 || chain[0].ID() != "nasa" {
		t.Fatalf("expected preferred provider only, got %d entries", len(chain))
	}
}

func TestRegistryChainIgnoresDisabledPreference(t *testing.T) {
	chain := newTestRegistry().Chain("archive")
	if len(chain) != 2 {
		t.Fatalf("disabled preference should fall back to priority order, got %d entries", len(chain))
	}
	if chain[0].ID() != "dvids" {
		t.Fatalf("expected dvids first, got %s", chain[0].ID())
	}
}

func TestRegistryStandardClient(t *testing.T) {
	registry := newTestRegistry()
	if registry.Standard().ID() != "youtube" {
		t.Fatalf("unexpected standard client %s", registry.Standard().ID())
	}
	if _, _, ok := registry.Lookup("unknown"); ok {
		t.Fatal("lookup of unknown provider should fail")
	}
}
