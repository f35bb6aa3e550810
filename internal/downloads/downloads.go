// Package downloads queues segment downloads for sourced projects. The
// queue feeds the assembly stage; this service only enqueues work, it never
// fetches media itself.
package downloads

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"clipforge/internal/logging"
	"clipforge/internal/services"
	"clipforge/internal/store"
)

// Service enqueues the top-ranked suggestion of every sourced scene.
type Service struct {
	store  *store.Store
	logger *slog.Logger
}

// NewService creates a download trigger backed by the given store.
func NewService(st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{store: st, logger: logging.NewComponentLogger(logger, "downloads")}
}

// TriggerSegmentDownloads queues a download for each scene's rank-1
// suggestion. Scenes already queued are counted, not re-queued; the enqueue
// is idempotent per scene.
func (s *Service) TriggerSegmentDownloads(ctx context.Context, projectID string) (queued, alreadyDownloaded int, err error) {
	top, err := s.store.TopSuggestionsByProject(ctx, projectID)
	if err != nil {
		return 0, 0, services.Wrap(services.ErrTransient, "downloads", "load top suggestions", projectID, err)
	}
	if len(top) == 0 {
		return 0, 0, nil
	}

	batchID := uuid.NewString()
	for sceneID, suggestion := range top {
		inserted, err := s.store.EnqueueDownload(ctx, store.DownloadItem{
			BatchID:   batchID,
			ProjectID: projectID,
			SceneID:   sceneID,
			VideoID:   suggestion.VideoID,
			Provider:  suggestion.Provider,
			Status:    store.DownloadPending,
		})
		if err != nil {
			return queued, alreadyDownloaded, services.Wrap(services.ErrTransient, "downloads", "enqueue", sceneID, err)
		}
		if inserted {
			queued++
		} else {
			alreadyDownloaded++
		}
	}

	s.logger.Info("segment downloads queued",
		logging.String("project_id", projectID),
		logging.String("batch_id", batchID),
		logging.Int("queued", queued),
		logging.Int("already_downloaded", alreadyDownloaded))
	return queued, alreadyDownloaded, nil
}
