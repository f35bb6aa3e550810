package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"clipforge/internal/logging"
	"clipforge/internal/providers"
	"clipforge/internal/services"
	"clipforge/internal/sourcing"
	"clipforge/internal/store"
)

// handleProjects routes /projects/{projectId}/{action}.
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/projects/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[0] == "" {
		s.writeError(w, http.StatusNotFound, "not found", "")
		return
	}
	projectID, action := parts[0], parts[1]

	switch action {
	case "generate-visuals":
		if r.Method != http.MethodPost {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
			return
		}
		s.handleGenerateVisuals(w, r, projectID)
	case "visual-status":
		if r.Method != http.MethodGet {
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
			return
		}
		s.handleVisualStatus(w, r, projectID)
	default:
		s.writeError(w, http.StatusNotFound, "not found", "")
	}
}

func (s *Server) handleGenerateVisuals(w http.ResponseWriter, r *http.Request, projectID string) {
	ctx := services.WithProjectID(r.Context(), projectID)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, s.log())

	logger.Info("generation requested")
	outcome, err := s.generator.Generate(ctx, projectID)
	if err != nil {
		s.writeGenerateError(ctx, w, projectID, outcome, err)
		return
	}
	logger.Info("generation finished",
		logging.Int("scenes_processed", outcome.ScenesProcessed),
		logging.Int("suggestions", outcome.SuggestionsGenerated))

	s.writeJSON(w, http.StatusOK, GenerateResponse{
		Success:              true,
		ScenesProcessed:      outcome.ScenesProcessed,
		SuggestionsGenerated: outcome.SuggestionsGenerated,
		TotalDuration:        outcome.TotalDuration,
		TargetDuration:       outcome.TargetDuration,
		Provider:             outcome.Provider,
		Errors:               outcome.ErrorStrings(),
	})
}

// writeGenerateError maps a classified run error onto the API contract.
// Unclassified failures mark the project status as error before responding.
func (s *Server) writeGenerateError(ctx context.Context, w http.ResponseWriter, projectID string, outcome *sourcing.Outcome, err error) {
	var sceneErrors []string
	if outcome != nil {
		sceneErrors = outcome.ErrorStrings()
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "Project not found", services.CodeProjectNotFound)
	case errors.Is(err, services.ErrValidation):
		s.writeError(w, http.StatusBadRequest, "No scenes found for project", services.CodeNoScenesFound)
	case errors.Is(err, services.ErrNoResults), errors.Is(err, services.ErrQuotaExceeded):
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Error:   err.Error(),
			Code:    services.ErrorCode(err),
			Errors:  sceneErrors,
		})
	default:
		s.log().Error("generation failed",
			logging.String("project_id", projectID),
			logging.Error(err))
		if statusErr := s.store.SetProjectStatus(ctx, projectID, store.StatusError); statusErr != nil {
			s.log().Warn("failed to mark project errored",
				logging.String("project_id", projectID),
				logging.Error(statusErr))
		}
		s.writeError(w, http.StatusInternalServerError, err.Error(), services.CodeInternalError)
	}
}

func (s *Server) handleVisualStatus(w http.ResponseWriter, r *http.Request, projectID string) {
	ctx := r.Context()
	project, err := s.store.Project(ctx, projectID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error(), services.CodeInternalError)
		return
	}
	if project == nil {
		s.writeError(w, http.StatusNotFound, "Project not found", services.CodeProjectNotFound)
		return
	}

	scenes, err := s.store.ScenesByProject(ctx, projectID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error(), services.CodeInternalError)
		return
	}
	counts, err := s.store.SuggestionCounts(ctx, projectID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error(), services.CodeInternalError)
		return
	}
	attempted, err := s.store.SceneIDsWithSuggestions(ctx, projectID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error(), services.CodeInternalError)
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	s.writeJSON(w, http.StatusOK, VisualStatusResponse{
		ProjectID:             project.ID,
		Status:                string(project.Status),
		CurrentStep:           project.CurrentStep,
		VisualsGenerated:      project.VisualsGenerated,
		VisualsProvider:       project.VisualsProvider,
		DownloadProgress:      project.DownloadProgress,
		TotalDuration:         project.TotalDuration,
		TargetDuration:        project.TargetDuration,
		SceneCount:            len(scenes),
		ScenesWithSuggestions: len(attempted),
		SuggestionCount:       total,
	})
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	configs := s.registry.Configs()
	if configs == nil {
		configs = []providers.ProviderConfig{}
	}
	s.writeJSON(w, http.StatusOK, ProvidersResponse{Providers: configs})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
