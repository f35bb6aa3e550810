package services_test

import (
	"context"
	"testing"

	"clipforge/internal/services"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithProjectID(ctx, "proj-1")
	ctx = services.WithSceneNumber(ctx, 3)
	ctx = services.WithProvider(ctx, "youtube")
	ctx = services.WithRequestID(ctx, "req-9")

	if id, ok := services.ProjectIDFromContext(ctx); !ok || id != "proj-1" {
		t.Fatalf("project id = %q, %v", id, ok)
	}
	if n, ok := services.SceneNumberFromContext(ctx); !ok || n != 3 {
		t.Fatalf("scene number = %d, %v", n, ok)
	}
	if p, ok := services.ProviderFromContext(ctx); !ok || p != "youtube" {
		t.Fatalf("provider = %q, %v", p, ok)
	}
	if r, ok := services.RequestIDFromContext(ctx); !ok || r != "req-9" {
		t.Fatalf("request id = %q, %v", r, ok)
	}
}

func TestContextIgnoresEmptyValues(t *testing.T) {
	ctx := context.Background()
	if got := services.WithProjectID(ctx, ""); got != ctx {
		t.Fatal("empty project id should not allocate a new context")
	}
	if got := services.WithSceneNumber(ctx, 0); got != ctx {
		t.Fatal("zero scene number should not allocate a new context")
	}
	if _, ok := services.ProviderFromContext(ctx); ok {
		t.Fatal("expected provider to be absent")
	}
}
