package services_test

import (
	"errors"
	"strings"
	"testing"

	"clipforge/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransient, "providers", "search", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"providers", "search", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "sourcing", "rank", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected nil marker to default to transient, got %v", err)
	}
}

func TestIsFatal(t *testing.T) {
	quota := services.Wrap(services.ErrQuotaExceeded, "youtube", "search", "daily limit", nil)
	if !services.IsFatal(quota) {
		t.Fatal("expected quota error to be fatal")
	}
	transient := services.Wrap(services.ErrTransient, "youtube", "search", "timeout", nil)
	if services.IsFatal(transient) {
		t.Fatal("expected transient error to be non-fatal")
	}
	if services.IsFatal(nil) {
		t.Fatal("expected nil error to be non-fatal")
	}
}

func TestErrorCodeMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"quota", services.Wrap(services.ErrQuotaExceeded, "p", "s", "", nil), services.CodeQuotaExceeded},
		{"no results", services.Wrap(services.ErrNoResults, "pipeline", "", "", nil), services.CodeMCPNoResults},
		{"not found", services.Wrap(services.ErrNotFound, "store", "project", "", nil), services.CodeProjectNotFound},
		{"generic", errors.New("unexpected"), services.CodeInternalError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.ErrorCode(tc.err); got != tc.want {
				t.Fatalf("ErrorCode = %q, want %q", got, tc.want)
			}
		})
	}
}
