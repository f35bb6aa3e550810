package testsupport

import (
	"context"
	"fmt"
	"testing"

	"clipforge/internal/config"
	"clipforge/internal/store"
)

// MustOpenStore opens a store against the test config and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

// SeedProject creates a project with the supplied config blob and count
// scenes with the given durations (zero duration means unknown).
func SeedProject(t testing.TB, st *store.Store, configJSON string, durations ...float64) (*store.Project, []*store.Scene) {
	t.Helper()

	ctx := context.Background()
	project, err := st.CreateProject(ctx, "", "Test Project", configJSON)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	scenes := make([]*store.Scene, 0, len(durations))
	for i, duration := range durations {
		scene, err := st.AddScene(ctx, &store.Scene{
			ProjectID:   project.ID,
			SceneNumber: i + 1,
			Narration:   fmt.Sprintf("Narration for scene %d about coastal wildlife.", i+1),
			Duration:    duration,
		})
		if err != nil {
			t.Fatalf("add scene %d: %v", i+1, err)
		}
		scenes = append(scenes, scene)
	}
	return project, scenes
}
