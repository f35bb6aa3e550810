package sourcing

import "clipforge/internal/store"

// Remaining filters a project's scenes down to those without a persisted
// suggestion batch, preserving scene order. A scene whose batch is empty
// still counts as attempted and is excluded. The function is pure: repeated
// calls with the same inputs yield the same result.
func Remaining(scenes []*store.Scene, completed []string) []*store.Scene {
	done := make(map[string]struct{}, len(completed))
	for _, id := range completed {
		done[id] = struct{}{}
	}

	remaining := make([]*store.Scene, 0, len(scenes))
	for _, scene := range scenes {
		if _, ok := done[scene.ID]; ok {
			continue
		}
		remaining = append(remaining, scene)
	}
	return remaining
}
