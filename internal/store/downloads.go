package store

import (
	"context"
	"fmt"
	"time"
)

// EnqueueDownload inserts a pending segment download for a scene. Returns
// false without error when the scene already has a download row.
func (s *Store) EnqueueDownload(ctx context.Context, item DownloadItem) (bool, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO segment_downloads (batch_id, project_id, scene_id, video_id, provider, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(scene_id) DO NOTHING`,
		item.BatchID, item.ProjectID, item.SceneID, item.VideoID, item.Provider,
		DownloadPending, now, now,
	)
	if err != nil {
		return false, fmt.Errorf("enqueue download: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// DownloadsByProject returns a project's download rows ordered by creation.
func (s *Store) DownloadsByProject(ctx context.Context, projectID string) ([]DownloadItem, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, batch_id, project_id, scene_id, video_id, provider, status, created_at, updated_at
         FROM segment_downloads WHERE project_id = ? ORDER BY created_at, id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("query downloads: %w", err)
	}
	defer rows.Close()

	var items []DownloadItem
	for rows.Next() {
		var (
			item       DownloadItem
			createdRaw string
			updatedRaw string
		)
		if err := rows.Scan(
			&item.ID, &item.BatchID, &item.ProjectID, &item.SceneID,
			&item.VideoID, &item.Provider, &item.Status, &createdRaw, &updatedRaw,
		); err != nil {
			return nil, err
		}
		if created, err := parseTimeString(createdRaw); err == nil {
			item.CreatedAt = created
		}
		if updated, err := parseTimeString(updatedRaw); err == nil {
			item.UpdatedAt = updated
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SetDownloadStatus transitions one download row.
func (s *Store) SetDownloadStatus(ctx context.Context, id int64, status DownloadStatus) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE segment_downloads SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("set download status: %w", err)
	}
	return nil
}
