package store

import (
	"encoding/json"
	"strings"
	"time"
)

// ProjectStatus represents the lifecycle of a project.
type ProjectStatus string

const (
	StatusDraft      ProjectStatus = "draft"
	StatusScripted   ProjectStatus = "scripted"
	StatusSourcing   ProjectStatus = "sourcing"
	StatusVisualsSet ProjectStatus = "visuals_ready"
	StatusAssembling ProjectStatus = "assembling"
	StatusCompleted  ProjectStatus = "completed"
	StatusError      ProjectStatus = "error"
)

// Project is a narrated video project persisted in SQLite.
type Project struct {
	ID               string
	Title            string
	Status           ProjectStatus
	CurrentStep      string
	ConfigJSON       string
	VisualsGenerated bool
	VisualsProvider  string
	DownloadProgress float64
	TotalDuration    float64
	TargetDuration   float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ProjectConfig is the typed view of the project configuration blob.
// Absence or parse failure of the blob yields the zero value, which selects
// standard-mode sourcing.
type ProjectConfig struct {
	QuickProduction   bool            `json:"quickProduction"`
	RAGContext        json.RawMessage `json:"ragContext,omitempty"`
	PreferredProvider string          `json:"preferredProvider,omitempty"`
}

// Config decodes the project configuration blob. Malformed JSON is treated
// as an empty config rather than an error.
func (p *Project) Config() ProjectConfig {
	var cfg ProjectConfig
	raw := strings.TrimSpace(p.ConfigJSON)
	if raw == "" {
		return cfg
	}
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return ProjectConfig{}
	}
	return cfg
}

// Scene is one narration scene of a project. Duration is the target
// voiceover length in seconds; zero or negative means unknown.
type Scene struct {
	ID              string
	ProjectID       string
	SceneNumber     int
	Narration       string
	Duration        float64
	SelectedVideoID string
	CreatedAt       time.Time
}

// HasDuration reports whether the scene carries a usable target duration.
func (s *Scene) HasDuration() bool {
	return s.Duration > 0
}

// Suggestion is a ranked visual candidate persisted for one scene.
// Ranks are contiguous starting at 1 within a scene.
type Suggestion struct {
	ID           int64
	SceneID      string
	Rank         int
	VideoID      string
	Title        string
	Duration     float64
	ThumbnailURL string
	Channel      string
	EmbedURL     string
	Provider     string
	Score        float64
	CreatedAt    time.Time
}

// VisualState carries the project-level fields the sourcing pipeline owns.
type VisualState struct {
	VisualsGenerated bool
	CurrentStep      string
	VisualsProvider  string
	DownloadProgress float64
	TotalDuration    float64
	TargetDuration   float64
}

// DownloadStatus represents the lifecycle of a queued segment download.
type DownloadStatus string

const (
	DownloadPending DownloadStatus = "pending"
	DownloadActive  DownloadStatus = "active"
	DownloadDone    DownloadStatus = "done"
	DownloadFailed  DownloadStatus = "failed"
)

// DownloadItem is one queued segment download, keyed by scene.
type DownloadItem struct {
	ID        int64
	BatchID   string
	ProjectID string
	SceneID   string
	VideoID   string
	Provider  string
	Status    DownloadStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
