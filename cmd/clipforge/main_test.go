package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "providers.toml")
	catalog := `
[[providers]]
id = "dvids"
name = "DVIDS Archive"
endpoint = "https://mcp.example/dvids"
priority = 1
enabled = true
`
	if err := os.WriteFile(catalogPath, []byte(catalog), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	configPath := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`
[paths]
data_dir = %q
log_dir = %q
provider_catalog = %q
api_bind = "127.0.0.1:0"

[youtube]
api_key = "test-key"
%s
`, filepath.Join(dir, "data"), filepath.Join(dir, "logs"), catalogPath, extra)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("output should name the target, got %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("overwrite should succeed: %v", err)
	}
}

func TestProvidersCommandListsCatalog(t *testing.T) {
	configPath := writeTestConfig(t, "")

	out, err := runCommand(t, "--config", configPath, "providers")
	if err != nil {
		t.Fatalf("providers: %v", err)
	}
	if !strings.Contains(out, "dvids") || !strings.Contains(out, "DVIDS Archive") {
		t.Fatalf("expected catalog entry in output, got:\n%s", out)
	}
	if !strings.Contains(out, "youtube") {
		t.Fatalf("expected standard provider in output, got:\n%s", out)
	}
}

func TestStatusCommandUnknownProject(t *testing.T) {
	configPath := writeTestConfig(t, "")

	_, err := runCommand(t, "--config", configPath, "status", "missing")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestRootShowsHelp(t *testing.T) {
	out, err := runCommand(t, "--help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	if !strings.Contains(out, "generate") || !strings.Contains(out, "serve") {
		t.Fatalf("help should list subcommands, got:\n%s", out)
	}
}
