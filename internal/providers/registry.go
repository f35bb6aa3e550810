package providers

import (
	"sort"
	"strings"
)

// Registry holds the configured provider clients with priority ordering and
// enablement flags, plus the standard content-search client used outside
// pipeline mode.
type Registry struct {
	standard Client
	configs  map[string]ProviderConfig
	clients  map[string]Client
	order    []string
}

// NewRegistry builds an empty registry around the standard client. The
// standard client may be nil when no content-search credentials are
// configured; standard-mode runs then fail with a configuration error at
// the orchestrator boundary.
func NewRegistry(standard Client) *Registry {
	return &Registry{
		standard: standard,
		configs:  make(map[string]ProviderConfig),
		clients:  make(map[string]Client),
	}
}

// Register adds a pipeline-mode provider client under its catalog config.
func (r *Registry) Register(cfg ProviderConfig, client Client) {
	id := strings.ToLower(strings.TrimSpace(cfg.ID))
	if id == "" || client == nil {
		return
	}
	cfg.ID = id
	if _, exists := r.configs[id]; !exists {
		r.order = append(r.order, id)
	}
	r.configs[id] = cfg
	r.clients[id] = client
	sort.SliceStable(r.order, func(i, j int) bool {
		return r.configs[r.order[i]].Priority < r.configs[r.order[j]].Priority
	})
}

// Standard returns the default content-search client, or nil when absent.
func (r *Registry) Standard() Client {
	return r.standard
}

// Configs returns all registered provider configs ordered by priority.
func (r *Registry) Configs() []ProviderConfig {
	configs := make([]ProviderConfig, 0, len(r.order))
	for _, id := range r.order {
		configs = append(configs, r.configs[id])
	}
	return configs
}

// Lookup returns the client and config for a provider id.
func (r *Registry) Lookup(id string) (Client, ProviderConfig, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	client, ok := r.clients[id]
	if !ok {
		return nil, ProviderConfig{}, false
	}
	return client, r.configs[id], true
}

// Chain resolves the pipeline-mode fallback order. With a preference it
// returns just that provider when it is registered and enabled; otherwise
// the enabled providers by ascending priority.
func (r *Registry) Chain(preferred string) []Client {
	preferred = strings.ToLower(strings.TrimSpace(preferred))
	if preferred != "" {
		if client, cfg, ok := r.Lookup(preferred); ok && cfg.Enabled {
			return []Client{client}
		}
	}
	var chain []Client
	for _, id := range r.order {
		if !r.configs[id].Enabled {
			continue
		}
		chain = append(chain, r.clients[id])
	}
	return chain
}
