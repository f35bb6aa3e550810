package services

import "context"

type contextKey string

const (
	projectIDKey contextKey = "project_id"
	sceneKey     contextKey = "scene_number"
	providerKey  contextKey = "provider"
	requestIDKey contextKey = "request_id"
)

// WithProjectID annotates context with the owning project identifier.
func WithProjectID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, projectIDKey, id)
}

// ProjectIDFromContext extracts the project identifier if present.
func ProjectIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(projectIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSceneNumber annotates context with the scene ordinal being processed.
func WithSceneNumber(ctx context.Context, number int) context.Context {
	if number <= 0 {
		return ctx
	}
	return context.WithValue(ctx, sceneKey, number)
}

// SceneNumberFromContext returns the scene ordinal if present.
func SceneNumberFromContext(ctx context.Context) (int, bool) {
	if v, ok := ctx.Value(sceneKey).(int); ok && v > 0 {
		return v, true
	}
	return 0, false
}

// WithProvider annotates context with the provider identifier in use.
func WithProvider(ctx context.Context, provider string) context.Context {
	if provider == "" {
		return ctx
	}
	return context.WithValue(ctx, providerKey, provider)
}

// ProviderFromContext returns the provider identifier if present.
func ProviderFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(providerKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
