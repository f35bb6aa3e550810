package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SaveSuggestions replaces the persisted suggestion batch for a scene and
// records the attempt marker. Saving an empty batch is valid: the scene is
// then considered attempted by SceneIDsWithSuggestions even though no
// suggestion rows exist.
func (s *Store) SaveSuggestions(ctx context.Context, projectID, sceneID string, suggestions []Suggestion) ([]Suggestion, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin suggestions tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC().Format(time.RFC3339Nano)

	if _, err := tx.ExecContext(ctx, `DELETE FROM visual_suggestions WHERE scene_id = ?`, sceneID); err != nil {
		return nil, fmt.Errorf("clear previous suggestions: %w", err)
	}

	for _, suggestion := range suggestions {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO visual_suggestions (
                scene_id, rank, video_id, title, duration, thumbnail_url,
                channel, embed_url, provider, score, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sceneID,
			suggestion.Rank,
			suggestion.VideoID,
			nullableString(suggestion.Title),
			suggestion.Duration,
			nullableString(suggestion.ThumbnailURL),
			nullableString(suggestion.Channel),
			nullableString(suggestion.EmbedURL),
			suggestion.Provider,
			suggestion.Score,
			now,
		); err != nil {
			return nil, fmt.Errorf("insert suggestion rank %d: %w", suggestion.Rank, err)
		}
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO scene_visuals (scene_id, project_id, suggestion_count, generated_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(scene_id) DO UPDATE SET suggestion_count = excluded.suggestion_count,
             generated_at = excluded.generated_at`,
		sceneID, projectID, len(suggestions), now,
	); err != nil {
		return nil, fmt.Errorf("record attempt marker: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit suggestions: %w", err)
	}

	return s.SuggestionsByScene(ctx, sceneID)
}

// SuggestionsByScene returns a scene's persisted suggestions ordered by rank.
func (s *Store) SuggestionsByScene(ctx context.Context, sceneID string) ([]Suggestion, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, scene_id, rank, video_id, title, duration, thumbnail_url,
                channel, embed_url, provider, score, created_at
         FROM visual_suggestions WHERE scene_id = ? ORDER BY rank`,
		sceneID,
	)
	if err != nil {
		return nil, fmt.Errorf("query suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []Suggestion
	for rows.Next() {
		suggestion, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, suggestion)
	}
	return suggestions, rows.Err()
}

// SceneIDsWithSuggestions returns the identifiers of scenes that completed a
// persisting step, including scenes whose batch was empty.
func (s *Store) SceneIDsWithSuggestions(ctx context.Context, projectID string) ([]string, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT scene_id FROM scene_visuals WHERE project_id = ?`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("query attempted scenes: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TopSuggestionsByProject returns the rank-1 suggestion for every scene of a
// project that has one, keyed by scene id.
func (s *Store) TopSuggestionsByProject(ctx context.Context, projectID string) (map[string]Suggestion, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT vs.id, vs.scene_id, vs.rank, vs.video_id, vs.title, vs.duration,
                vs.thumbnail_url, vs.channel, vs.embed_url, vs.provider, vs.score, vs.created_at
         FROM visual_suggestions vs
         JOIN scenes sc ON sc.id = vs.scene_id
         WHERE sc.project_id = ? AND vs.rank = 1`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("query top suggestions: %w", err)
	}
	defer rows.Close()

	top := make(map[string]Suggestion)
	for rows.Next() {
		suggestion, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		top[suggestion.SceneID] = suggestion
	}
	return top, rows.Err()
}

// SuggestionCounts returns per-scene suggestion counts for a project,
// including zero-count attempted scenes.
func (s *Store) SuggestionCounts(ctx context.Context, projectID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT scene_id, suggestion_count FROM scene_visuals WHERE project_id = ?`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("query suggestion counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, err
		}
		counts[id] = count
	}
	return counts, rows.Err()
}

func scanSuggestion(scanner interface{ Scan(dest ...any) error }) (Suggestion, error) {
	var (
		suggestion Suggestion
		title      sql.NullString
		duration   sql.NullFloat64
		thumbnail  sql.NullString
		channel    sql.NullString
		embed      sql.NullString
		createdRaw sql.NullString
	)
	if err := scanner.Scan(
		&suggestion.ID, &suggestion.SceneID, &suggestion.Rank, &suggestion.VideoID,
		&title, &duration, &thumbnail, &channel, &embed,
		&suggestion.Provider, &suggestion.Score, &createdRaw,
	); err != nil {
		return Suggestion{}, err
	}
	suggestion.Title = title.String
	suggestion.Duration = duration.Float64
	suggestion.ThumbnailURL = thumbnail.String
	suggestion.Channel = channel.String
	suggestion.EmbedURL = embed.String
	if created, err := parseTimeString(createdRaw.String); err == nil {
		suggestion.CreatedAt = created
	}
	return suggestion, nil
}
