package providers

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ProviderConfig describes one configured pipeline-mode provider. Loaded
// once per run from the catalog file and immutable afterwards.
type ProviderConfig struct {
	ID       string `toml:"id" json:"id"`
	Name     string `toml:"name" json:"name"`
	Endpoint string `toml:"endpoint" json:"-"`
	Priority int    `toml:"priority" json:"priority"`
	Enabled  bool   `toml:"enabled" json:"enabled"`
}

type catalogFile struct {
	Providers []ProviderConfig `toml:"providers"`
}

// LoadCatalog reads the provider catalog from a TOML file. A missing file
// yields an empty catalog rather than an error: pipeline mode is then simply
// unavailable. Entries are returned sorted by ascending priority.
func LoadCatalog(path string) ([]ProviderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read provider catalog: %w", err)
	}

	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse provider catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Providers))
	for i := range file.Providers {
		entry := &file.Providers[i]
		entry.ID = strings.ToLower(strings.TrimSpace(entry.ID))
		if entry.ID == "" {
			return nil, fmt.Errorf("provider catalog entry %d: id required", i)
		}
		if _, dup := seen[entry.ID]; dup {
			return nil, fmt.Errorf("provider catalog: duplicate id %q", entry.ID)
		}
		seen[entry.ID] = struct{}{}
		if strings.TrimSpace(entry.Name) == "" {
			entry.Name = entry.ID
		}
	}

	sort.SliceStable(file.Providers, func(i, j int) bool {
		return file.Providers[i].Priority < file.Providers[j].Priority
	})
	return file.Providers, nil
}
