package api

import "clipforge/internal/providers"

// GenerateResponse is the success payload for
// POST /projects/{id}/generate-visuals. The counters are always present,
// zero included. Partial success is still success: failed scenes are
// listed in Errors alongside the counts.
type GenerateResponse struct {
	Success              bool     `json:"success"`
	ScenesProcessed      int      `json:"scenesProcessed"`
	SuggestionsGenerated int      `json:"suggestionsGenerated"`
	TotalDuration        float64  `json:"totalDuration,omitempty"`
	TargetDuration       float64  `json:"targetDuration,omitempty"`
	Provider             string   `json:"provider,omitempty"`
	Errors               []string `json:"errors,omitempty"`
}

// ErrorResponse is the failure payload shared by all endpoints.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// ProvidersResponse lists the configured pipeline providers for UI display.
type ProvidersResponse struct {
	Providers []providers.ProviderConfig `json:"providers"`
}

// VisualStatusResponse reports a project's sourcing state for UI polling.
type VisualStatusResponse struct {
	ProjectID             string  `json:"projectId"`
	Status                string  `json:"status"`
	CurrentStep           string  `json:"currentStep,omitempty"`
	VisualsGenerated      bool    `json:"visualsGenerated"`
	VisualsProvider       string  `json:"visualsProvider,omitempty"`
	DownloadProgress      float64 `json:"downloadProgress,omitempty"`
	TotalDuration         float64 `json:"totalDuration,omitempty"`
	TargetDuration        float64 `json:"targetDuration,omitempty"`
	SceneCount            int     `json:"sceneCount"`
	ScenesWithSuggestions int     `json:"scenesWithSuggestions"`
	SuggestionCount       int     `json:"suggestionCount"`
}
