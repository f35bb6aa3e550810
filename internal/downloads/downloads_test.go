package downloads

import (
	"context"
	"testing"

	"clipforge/internal/store"
	"clipforge/internal/testsupport"
)

func TestTriggerSegmentDownloads(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	project, scenes := testsupport.SeedProject(t, st, "", 30, 45)
	ctx := context.Background()

	for i, scene := range scenes {
		_, err := st.SaveSuggestions(ctx, project.ID, scene.ID, []store.Suggestion{
			{SceneID: scene.ID, Rank: 1, VideoID: "top", Provider: "youtube", Duration: 60},
			{SceneID: scene.ID, Rank: 2, VideoID: "second", Provider: "youtube", Duration: 50},
		})
		if err != nil {
			t.Fatalf("save suggestions for scene %d: %v", i+1, err)
		}
	}

	svc := NewService(st, nil)
	queued, already, err := svc.TriggerSegmentDownloads(ctx, project.ID)
	if err != nil {
		t.Fatalf("TriggerSegmentDownloads: %v", err)
	}
	if queued != 2 || already != 0 {
		t.Fatalf("first trigger: queued=%d already=%d", queued, already)
	}

	items, err := st.DownloadsByProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("DownloadsByProject: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 queued items, got %d", len(items))
	}
	for _, item := range items {
		if item.VideoID != "top" {
			t.Fatalf("expected rank-1 video queued, got %q", item.VideoID)
		}
		if item.Status != store.DownloadPending {
			t.Fatalf("expected pending status, got %q", item.Status)
		}
	}

	// A second trigger must not duplicate queue entries.
	queued, already, err = svc.TriggerSegmentDownloads(ctx, project.ID)
	if err != nil {
		t.Fatalf("second trigger: %v", err)
	}
	if queued != 0 || already != 2 {
		t.Fatalf("second trigger: queued=%d already=%d", queued, already)
	}
}

func TestTriggerSegmentDownloadsNoSuggestions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	project, _ := testsupport.SeedProject(t, st, "", 30)

	queued, already, err := NewService(st, nil).TriggerSegmentDownloads(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("TriggerSegmentDownloads: %v", err)
	}
	if queued != 0 || already != 0 {
		t.Fatalf("expected nothing queued, got queued=%d already=%d", queued, already)
	}
}
