package main

import (
	"fmt"
	"time"

	"log/slog"

	"clipforge/internal/config"
	"clipforge/internal/downloads"
	"clipforge/internal/logging"
	"clipforge/internal/providers"
	"clipforge/internal/providers/mcp"
	"clipforge/internal/providers/youtube"
	"clipforge/internal/ranking"
	"clipforge/internal/sourcing"
	"clipforge/internal/store"
)

// runtime bundles the wired services every command operates on.
type runtime struct {
	cfg          *config.Config
	logger       *slog.Logger
	store        *store.Store
	registry     *providers.Registry
	orchestrator *sourcing.Orchestrator
}

// buildRuntime opens the store and wires the provider registry, ranking
// engine, and orchestrator from configuration. Providers that fail to
// construct are skipped with a warning rather than blocking startup.
func buildRuntime(cfg *config.Config) (*runtime, error) {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var standard providers.Client
	if cfg.YouTube.APIKey != "" {
		client, err := youtube.New(cfg.YouTube)
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("init youtube client: %w", err)
		}
		standard = client
	}
	registry := providers.NewRegistry(standard)

	catalog, err := providers.LoadCatalog(cfg.Paths.ProviderCatalog)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("load provider catalog: %w", err)
	}
	mcpTimeout := time.Duration(cfg.MCP.TimeoutSeconds) * time.Second
	for _, entry := range catalog {
		client, err := mcp.New(entry, mcpTimeout)
		if err != nil {
			logger.Warn("skipping provider",
				logging.String("provider", entry.ID),
				logging.Error(err))
			continue
		}
		registry.Register(entry, client)
	}

	engine := ranking.NewEngine(
		ranking.WithWindow(cfg.Sourcing.MinDurationFactor, cfg.Sourcing.MaxDurationFactor),
		ranking.WithMaxSuggestions(cfg.Sourcing.MaxSuggestions),
	)

	orchestrator := sourcing.New(st, registry, engine,
		sourcing.WithLogger(logger),
		sourcing.WithDownloadTrigger(downloads.NewService(st, logger)),
		sourcing.WithLockDir(cfg.LockDir()),
		sourcing.WithProgressBuffer(cfg.Sourcing.ProgressBuffer),
	)

	return &runtime{
		cfg:          cfg,
		logger:       logger,
		store:        st,
		registry:     registry,
		orchestrator: orchestrator,
	}, nil
}

func (r *runtime) Close() {
	if r.store != nil {
		_ = r.store.Close()
	}
}
