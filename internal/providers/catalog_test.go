package providers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "providers.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestLoadCatalogSortsByPriority(t *testing.T) {
	path := writeCatalog(t, `
[[providers]]
id = "nasa"
name = "NASA Image Library"
endpoint = "https://mcp.example/nasa"
priority = 2
enabled = true

[[providers]]
id = "DVIDS"
endpoint = "https://mcp.example/dvids"
priority = 1
enabled = true
`)

	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(catalog))
	}
	if catalog[0].ID != "dvids" || catalog[1].ID != "nasa" {
		t.Fatalf("unexpected order: %s, %s", catalog[0].ID, catalog[1].ID)
	}
	if catalog[0].Name != "dvids" {
		t.Fatalf("expected name to default to id, got %q", catalog[0].Name)
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	catalog, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing catalog should not error: %v", err)
	}
	if catalog != nil {
		t.Fatalf("expected empty catalog, got %v", catalog)
	}
}

func TestLoadCatalogRejectsDuplicateIDs(t *testing.T) {
	path := writeCatalog(t, `
[[providers]]
id = "dvids"
endpoint = "https://a.example"
priority = 1

[[providers]]
id = "dvids"
endpoint = "https://b.example"
priority = 2
`)

	if _, err := LoadCatalog(path); err == nil {
		t.Fatal("expected duplicate id error")
	}
}
