package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipforge/internal/logging"
	"clipforge/internal/services"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("sourcing started", logging.String("project_id", "p1"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "sourcing started") || !strings.Contains(out, "p1") {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleHandlerRendersAttrs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	scoped := logging.NewComponentLogger(logger, "ranking")
	scoped.Debug("filter applied", logging.Int("kept", 3))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	for _, want := range []string{"DEBUG", "ranking", "filter applied", "kept=3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output %q", want, out)
		}
	}
}

func TestWithContextAddsFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctx.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := services.WithProjectID(context.Background(), "proj-7")
	ctx = services.WithSceneNumber(ctx, 2)
	logging.WithContext(ctx, logger).Info("scene done")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "proj-7") || !strings.Contains(out, "\"scene\":2") {
		t.Fatalf("context fields missing from output: %s", out)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Info("should not panic")
	if logging.WithContext(context.Background(), nil) == nil {
		t.Fatal("WithContext should never return nil")
	}
}
