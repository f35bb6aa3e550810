package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"clipforge/internal/config"
)

// Store manages clipforge persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// CreateProject inserts a new project. An empty id is assigned a fresh UUID.
func (s *Store) CreateProject(ctx context.Context, id, title, configJSON string) (*Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("project title required")
	}
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO projects (id, title, status, config_json, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		id, title, StatusDraft, nullableString(configJSON), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return s.Project(ctx, id)
}

// Project fetches a project by identifier. Returns nil when absent.
func (s *Store) Project(ctx context.Context, id string) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

// SetProjectStatus updates the lifecycle status of a project.
func (s *Store) SetProjectStatus(ctx context.Context, id string, status ProjectStatus) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE projects SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("set project status: %w", err)
	}
	return nil
}

// UpdateVisualState persists the sourcing-owned project fields in one write.
func (s *Store) UpdateVisualState(ctx context.Context, id string, state VisualState) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE projects
         SET visuals_generated = ?, current_step = ?, visuals_provider = ?,
             visuals_download_progress = ?, total_duration = ?, target_duration = ?,
             updated_at = ?
         WHERE id = ?`,
		boolToInt(state.VisualsGenerated),
		nullableString(state.CurrentStep),
		nullableString(state.VisualsProvider),
		nullableFloat(state.DownloadProgress),
		nullableFloat(state.TotalDuration),
		nullableFloat(state.TargetDuration),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("update visual state: %w", err)
	}
	return nil
}

// UpdateVisualProgress persists the transient provider/progress fields used
// for UI polling while a sourcing run is in flight.
func (s *Store) UpdateVisualProgress(ctx context.Context, id, provider string, percent float64) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE projects SET visuals_provider = ?, visuals_download_progress = ?, updated_at = ? WHERE id = ?`,
		nullableString(provider),
		percent,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("update visual progress: %w", err)
	}
	return nil
}

// AddScene inserts a scene for a project. An empty id is assigned a fresh UUID.
func (s *Store) AddScene(ctx context.Context, scene *Scene) (*Scene, error) {
	if scene == nil {
		return nil, errors.New("scene is nil")
	}
	if strings.TrimSpace(scene.ProjectID) == "" {
		return nil, errors.New("scene project id required")
	}
	if scene.SceneNumber <= 0 {
		return nil, errors.New("scene number must be positive")
	}
	id := scene.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO scenes (id, project_id, scene_number, narration, duration, selected_video_id, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		scene.ProjectID,
		scene.SceneNumber,
		scene.Narration,
		nullableFloat(scene.Duration),
		nullableString(scene.SelectedVideoID),
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert scene: %w", err)
	}
	return s.SceneByID(ctx, id)
}

// SceneByID fetches one scene.
func (s *Store) SceneByID(ctx context.Context, id string) (*Scene, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sceneColumns+` FROM scenes WHERE id = ?`, id)
	scene, err := scanScene(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get scene: %w", err)
	}
	return scene, nil
}

// ScenesByProject returns a project's scenes ordered by scene number.
func (s *Store) ScenesByProject(ctx context.Context, projectID string) ([]*Scene, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+sceneColumns+` FROM scenes WHERE project_id = ? ORDER BY scene_number`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("query scenes: %w", err)
	}
	defer rows.Close()

	var scenes []*Scene
	for rows.Next() {
		scene, err := scanScene(rows)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, scene)
	}
	return scenes, rows.Err()
}

const projectColumns = "id, title, status, current_step, config_json, visuals_generated, visuals_provider, visuals_download_progress, total_duration, target_duration, created_at, updated_at"

const sceneColumns = "id, project_id, scene_number, narration, duration, selected_video_id, created_at"

func scanProject(scanner interface{ Scan(dest ...any) error }) (*Project, error) {
	var (
		id          string
		title       string
		statusStr   string
		currentStep sql.NullString
		configJSON  sql.NullString
		generated   sql.NullInt64
		provider    sql.NullString
		progress    sql.NullFloat64
		totalDur    sql.NullFloat64
		targetDur   sql.NullFloat64
		createdRaw  sql.NullString
		updatedRaw  sql.NullString
	)
	if err := scanner.Scan(
		&id, &title, &statusStr, &currentStep, &configJSON, &generated,
		&provider, &progress, &totalDur, &targetDur, &createdRaw, &updatedRaw,
	); err != nil {
		return nil, err
	}
	project := &Project{
		ID:               id,
		Title:            title,
		Status:           ProjectStatus(statusStr),
		CurrentStep:      currentStep.String,
		ConfigJSON:       configJSON.String,
		VisualsGenerated: generated.Int64 != 0,
		VisualsProvider:  provider.String,
		DownloadProgress: progress.Float64,
		TotalDuration:    totalDur.Float64,
		TargetDuration:   targetDur.Float64,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		project.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		project.UpdatedAt = updated
	}
	return project, nil
}

func scanScene(scanner interface{ Scan(dest ...any) error }) (*Scene, error) {
	var (
		id         string
		projectID  string
		number     int
		narration  sql.NullString
		duration   sql.NullFloat64
		selected   sql.NullString
		createdRaw sql.NullString
	)
	if err := scanner.Scan(&id, &projectID, &number, &narration, &duration, &selected, &createdRaw); err != nil {
		return nil, err
	}
	scene := &Scene{
		ID:              id,
		ProjectID:       projectID,
		SceneNumber:     number,
		Narration:       narration.String,
		Duration:        duration.Float64,
		SelectedVideoID: selected.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		scene.CreatedAt = created
	}
	return scene, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(value float64) any {
	if value == 0 {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
