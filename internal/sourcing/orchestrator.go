// Package sourcing drives visual candidate generation for a project: it
// prunes already-sourced scenes, runs each remaining scene through query
// analysis, provider search, and ranking, persists the results, and
// aggregates a per-run outcome.
package sourcing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"clipforge/internal/analysis"
	"clipforge/internal/logging"
	"clipforge/internal/providers"
	"clipforge/internal/ranking"
	"clipforge/internal/services"
	"clipforge/internal/store"
)

// stepVisualSelection is the project step reached once suggestions exist.
const stepVisualSelection = "visual_selection"

// SceneError records one failed scene inside an otherwise-continuing run.
type SceneError struct {
	SceneNumber int    `json:"sceneNumber"`
	Message     string `json:"error"`
}

func (e SceneError) String() string {
	return fmt.Sprintf("scene %d: %s", e.SceneNumber, e.Message)
}

// Outcome aggregates one generation run. ScenesProcessed counts scenes with
// a persisted suggestion batch, including scenes completed by earlier runs.
type Outcome struct {
	ScenesProcessed      int
	SuggestionsGenerated int
	TotalDuration        float64
	TargetDuration       float64
	Provider             string
	Errors               []SceneError
}

// ErrorStrings renders the per-scene errors for API payloads.
func (o *Outcome) ErrorStrings() []string {
	if len(o.Errors) == 0 {
		return nil
	}
	out := make([]string, 0, len(o.Errors))
	for _, e := range o.Errors {
		out = append(out, e.String())
	}
	return out
}

// ProgressEvent is published after each completed scene. Consumers persist
// it for UI polling; a slow consumer drops events rather than stalling the
// scene loop.
type ProgressEvent struct {
	ProjectID   string
	SceneNumber int
	ScenesDone  int
	ScenesTotal int
	Percent     float64
	Provider    string
}

// DownloadTrigger kicks off segment downloads after a successful run. The
// trigger is best effort: failures are logged, never surfaced to callers.
type DownloadTrigger interface {
	TriggerSegmentDownloads(ctx context.Context, projectID string) (queued, alreadyDownloaded int, err error)
}

// Orchestrator coordinates one generation run per call. Scenes are
// processed sequentially so quota exhaustion observes completions in order.
type Orchestrator struct {
	store          *store.Store
	registry       *providers.Registry
	engine         *ranking.Engine
	analyze        func(string) analysis.SceneQueries
	trigger        DownloadTrigger
	logger         *slog.Logger
	lockDir        string
	progressBuffer int

	// AllowCrossModeFallback gates falling back to the standard provider
	// when a pipeline run produces zero suggestions. The product rule is
	// that provider selection stays predictable for quota accounting, so
	// this stays false; the field exists so the policy is explicit.
	AllowCrossModeFallback bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithAnalyzer replaces the narration analysis function.
func WithAnalyzer(analyze func(string) analysis.SceneQueries) Option {
	return func(o *Orchestrator) {
		if analyze != nil {
			o.analyze = analyze
		}
	}
}

// WithDownloadTrigger sets the downstream download trigger.
func WithDownloadTrigger(trigger DownloadTrigger) Option {
	return func(o *Orchestrator) {
		o.trigger = trigger
	}
}

// WithLogger sets the run logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logging.NewComponentLogger(logger, "sourcing")
		}
	}
}

// WithLockDir enables per-project advisory locking using lock files under
// the given directory.
func WithLockDir(dir string) Option {
	return func(o *Orchestrator) {
		o.lockDir = dir
	}
}

// WithProgressBuffer sets the progress event channel capacity.
func WithProgressBuffer(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.progressBuffer = n
		}
	}
}

// New builds an orchestrator over the given store, provider registry, and
// ranking engine.
func New(st *store.Store, registry *providers.Registry, engine *ranking.Engine, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:          st,
		registry:       registry,
		engine:         engine,
		analyze:        analysis.AnalyzeScene,
		logger:         logging.NewNop(),
		progressBuffer: 8,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate runs visual sourcing for one project. It returns the aggregated
// outcome together with any run-level error; partial results are persisted
// and reported even when the run stops early.
func (o *Orchestrator) Generate(ctx context.Context, projectID string) (*Outcome, error) {
	project, err := o.store.Project(ctx, projectID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "sourcing", "load project", projectID, err)
	}
	if project == nil {
		return nil, services.Wrap(services.ErrNotFound, "sourcing", "load project", "project not found", nil)
	}

	if o.lockDir != "" {
		release, err := o.acquireProjectLock(projectID)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	scenes, err := o.store.ScenesByProject(ctx, projectID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "sourcing", "load scenes", projectID, err)
	}
	if len(scenes) == 0 {
		return nil, services.Wrap(services.ErrValidation, "sourcing", "load scenes", "no scenes found for project", nil)
	}

	completed, err := o.store.SceneIDsWithSuggestions(ctx, projectID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "sourcing", "load completed scenes", projectID, err)
	}
	priorCounts, err := o.store.SuggestionCounts(ctx, projectID)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "sourcing", "load suggestion counts", projectID, err)
	}

	remaining := Remaining(scenes, completed)
	outcome := &Outcome{ScenesProcessed: len(scenes) - len(remaining)}

	priorSuggestions := 0
	coveredDuration := 0.0
	for _, scene := range scenes {
		if scene.HasDuration() {
			outcome.TargetDuration += scene.Duration
		}
		if n := priorCounts[scene.ID]; n > 0 {
			priorSuggestions += n
			if scene.HasDuration() {
				coveredDuration += scene.Duration
			}
		}
	}
	// Prior runs count toward the summary the same way prior scenes do.
	outcome.SuggestionsGenerated = priorSuggestions

	projectCfg := project.Config()
	pipelineMode := projectCfg.QuickProduction

	if len(remaining) == 0 {
		o.logger.Info("all scenes already sourced",
			logging.String("project_id", projectID),
			logging.Int("scenes", len(scenes)))
		outcome.TotalDuration = coveredDuration
		o.finalize(ctx, projectID, outcome)
		return outcome, nil
	}

	run := &sceneRun{
		orchestrator: o,
		projectID:    projectID,
		pipelineMode: pipelineMode,
	}
	if pipelineMode {
		run.chain = o.registry.Chain(projectCfg.PreferredProvider)
		if len(run.chain) == 0 {
			return nil, services.Wrap(services.ErrConfiguration, "sourcing", "resolve providers", "no enabled pipeline providers", nil)
		}
	} else {
		run.active = o.registry.Standard()
		if run.active == nil {
			return nil, services.Wrap(services.ErrConfiguration, "sourcing", "resolve providers", "standard provider not configured", nil)
		}
	}

	events := make(chan ProgressEvent, o.progressBuffer)
	var consumer sync.WaitGroup
	consumer.Add(1)
	go func() {
		defer consumer.Done()
		o.consumeProgress(projectID, events)
	}()

	runSuggestions := 0
	var fatal error
	for _, scene := range remaining {
		sceneCtx := services.WithSceneNumber(services.WithProjectID(ctx, projectID), scene.SceneNumber)
		suggestions, err := run.process(sceneCtx, scene)
		if err != nil {
			if services.IsFatal(err) {
				fatal = err
				break
			}
			logging.WithContext(sceneCtx, o.logger).Warn("scene failed", logging.Error(err))
			outcome.Errors = append(outcome.Errors, SceneError{SceneNumber: scene.SceneNumber, Message: err.Error()})
			continue
		}

		outcome.ScenesProcessed++
		outcome.SuggestionsGenerated += len(suggestions)
		if len(suggestions) > 0 {
			runSuggestions += len(suggestions)
			if scene.HasDuration() {
				coveredDuration += scene.Duration
			}
		}
		o.publishProgress(events, ProgressEvent{
			ProjectID:   projectID,
			SceneNumber: scene.SceneNumber,
			ScenesDone:  outcome.ScenesProcessed,
			ScenesTotal: len(scenes),
			Percent:     float64(outcome.ScenesProcessed) / float64(len(scenes)) * 100,
			Provider:    run.providerName(),
		})
	}

	close(events)
	consumer.Wait()

	outcome.Provider = run.providerName()
	outcome.TotalDuration = coveredDuration

	if fatal != nil {
		o.logger.Error("run stopped",
			logging.String("project_id", projectID),
			logging.Int("scenes_processed", outcome.ScenesProcessed),
			logging.Error(fatal))
		return outcome, fatal
	}

	if pipelineMode && priorSuggestions+runSuggestions == 0 && !o.AllowCrossModeFallback {
		return outcome, services.Wrap(services.ErrNoResults, "sourcing", "pipeline run", "no suggestions from any provider", nil)
	}

	if outcome.ScenesProcessed > 0 {
		o.finalize(ctx, projectID, outcome)
	}

	o.logger.Info("run complete",
		logging.String("project_id", projectID),
		logging.Int("scenes_processed", outcome.ScenesProcessed),
		logging.Int("suggestions", outcome.SuggestionsGenerated),
		logging.Int("failed_scenes", len(outcome.Errors)),
		logging.String("provider", outcome.Provider))
	return outcome, nil
}

// finalize records project-level completion state and fires the download
// trigger. Both are best effort once scenes are persisted.
func (o *Orchestrator) finalize(ctx context.Context, projectID string, outcome *Outcome) {
	state := store.VisualState{
		VisualsGenerated: true,
		CurrentStep:      stepVisualSelection,
		TotalDuration:    outcome.TotalDuration,
		TargetDuration:   outcome.TargetDuration,
	}
	if err := o.store.UpdateVisualState(ctx, projectID, state); err != nil {
		o.logger.Warn("visual state update failed",
			logging.String("project_id", projectID),
			logging.Error(err))
	}

	if o.trigger == nil {
		return
	}
	queued, already, err := o.trigger.TriggerSegmentDownloads(ctx, projectID)
	if err != nil {
		o.logger.Warn("segment download trigger failed",
			logging.String("project_id", projectID),
			logging.Error(err))
		return
	}
	o.logger.Info("segment downloads triggered",
		logging.String("project_id", projectID),
		logging.Int("queued", queued),
		logging.Int("already_downloaded", already))
}

// publishProgress never blocks the scene loop: a full buffer drops the
// event instead of stalling.
func (o *Orchestrator) publishProgress(events chan<- ProgressEvent, event ProgressEvent) {
	select {
	case events <- event:
	default:
	}
}

// consumeProgress persists progress events for UI polling. Write failures
// are logged and swallowed so they can never abort scene processing. The
// background context keeps the final events flowing even when the request
// context is already done.
func (o *Orchestrator) consumeProgress(projectID string, events <-chan ProgressEvent) {
	for event := range events {
		if err := o.store.UpdateVisualProgress(context.Background(), projectID, event.Provider, event.Percent); err != nil {
			o.logger.Warn("progress update failed",
				logging.String("project_id", projectID),
				logging.Int("scene", event.SceneNumber),
				logging.Error(err))
		}
	}
}

func (o *Orchestrator) acquireProjectLock(projectID string) (func(), error) {
	if err := os.MkdirAll(o.lockDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "sourcing", "create lock dir", o.lockDir, err)
	}
	lock := flock.New(filepath.Join(o.lockDir, projectID+".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "sourcing", "project lock", projectID, err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrTransient, "sourcing", "project lock", "generation already running for project", nil)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			o.logger.Warn("project lock release failed",
				logging.String("project_id", projectID),
				logging.Error(err))
		}
	}, nil
}

// sceneRun holds per-run provider state. In pipeline mode the first
// provider that answers without error is locked in for the rest of the run;
// fallback granularity is whole-run, not per-scene.
type sceneRun struct {
	orchestrator *Orchestrator
	projectID    string
	pipelineMode bool
	chain        []providers.Client
	active       providers.Client
}

// providerName reports the locked-in provider, or the head of the chain
// while no provider has answered yet so early progress rows are never
// attributed to an empty provider.
func (r *sceneRun) providerName() string {
	if r.active != nil {
		return r.active.ID()
	}
	if len(r.chain) > 0 {
		return r.chain[0].ID()
	}
	return ""
}

// process takes one scene through analysis, search, ranking, and
// persistence. An empty suggestion batch is still saved so the scene counts
// as attempted on future runs.
func (r *sceneRun) process(ctx context.Context, scene *store.Scene) ([]store.Suggestion, error) {
	queries := r.orchestrator.analyze(scene.Narration)

	var candidates []providers.Candidate
	if len(queries.Queries()) > 0 {
		var err error
		candidates, err = r.search(ctx, queries)
		if err != nil {
			return nil, err
		}
	}

	var ranked []ranking.Ranked
	if scene.HasDuration() {
		ranked = r.orchestrator.engine.Rank(candidates, scene.Duration, queries.ContentType)
	} else {
		ranked = r.orchestrator.engine.FirstN(candidates)
	}

	suggestions := make([]store.Suggestion, 0, len(ranked))
	for _, item := range ranked {
		suggestions = append(suggestions, store.Suggestion{
			SceneID:      scene.ID,
			Rank:         item.Rank,
			VideoID:      item.VideoID,
			Title:        item.Title,
			Duration:     item.Duration,
			ThumbnailURL: item.ThumbnailURL,
			Channel:      item.Channel,
			EmbedURL:     item.EmbedURL,
			Provider:     item.Provider,
			Score:        item.Score,
		})
	}

	saved, err := r.orchestrator.store.SaveSuggestions(ctx, r.projectID, scene.ID, suggestions)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "sourcing", "persist suggestions", scene.ID, err)
	}
	return saved, nil
}

// search dispatches to the active provider, or resolves one from the
// fallback chain on the first pipeline-mode call. Empty provider result
// sets are valid and yield an empty candidate list.
func (r *sceneRun) search(ctx context.Context, queries analysis.SceneQueries) ([]providers.Candidate, error) {
	params := providers.SearchParams{ContentType: queries.ContentType}

	if r.active != nil {
		candidates, err := r.active.Search(ctx, queries.Queries(), params)
		if err != nil {
			if emptyResult(err) {
				return nil, nil
			}
			return nil, err
		}
		return candidates, nil
	}

	var lastErr error
	for _, client := range r.chain {
		candidates, err := client.Search(ctx, queries.Queries(), params)
		if err != nil {
			if services.IsFatal(err) {
				return nil, err
			}
			if emptyResult(err) {
				r.active = client
				return nil, nil
			}
			lastErr = err
			continue
		}
		r.active = client
		return candidates, nil
	}
	if lastErr == nil {
		lastErr = services.Wrap(services.ErrTransient, "sourcing", "provider search", "no provider answered", nil)
	}
	return nil, lastErr
}

func emptyResult(err error) bool {
	return errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrNoResults)
}
