package analysis

import (
	"strings"
	"testing"
)

func TestAnalyzeSceneBuildsQueries(t *testing.T) {
	q := AnalyzeScene("The rocket launch countdown began at dawn over the Florida coast.")

	if q.PrimaryQuery == "" {
		t.Fatal("expected a primary query")
	}
	if !strings.Contains(q.PrimaryQuery, "rocket") {
		t.Fatalf("primary query should keep significant words, got %q", q.PrimaryQuery)
	}
	if strings.Contains(q.PrimaryQuery, "the") {
		t.Fatalf("primary query should drop stopwords, got %q", q.PrimaryQuery)
	}
	if q.ContentType != "launch" {
		t.Fatalf("expected launch content type, got %q", q.ContentType)
	}
	if len(q.AlternativeQueries) == 0 {
		t.Fatal("expected alternate queries")
	}
	for _, alt := range q.AlternativeQueries {
		if alt == q.PrimaryQuery {
			t.Fatalf("alternate duplicates primary: %q", alt)
		}
	}
}

func TestAnalyzeSceneQueriesOrder(t *testing.T) {
	q := AnalyzeScene("Drone footage swept across the mountain ridge.")
	all := q.Queries()
	if len(all) == 0 || all[0] != q.PrimaryQuery {
		t.Fatalf("primary query must lead, got %v", all)
	}
}

func TestAnalyzeSceneEmptyNarration(t *testing.T) {
	for _, narration := range []string{"", "   ", "the of and to"} {
		q := AnalyzeScene(narration)
		if q.PrimaryQuery != "" {
			t.Fatalf("narration %q should yield no primary query, got %q", narration, q.PrimaryQuery)
		}
		if len(q.Queries()) != 0 {
			t.Fatalf("narration %q should yield no queries", narration)
		}
	}
}

func TestAnalyzeSceneCaseFolding(t *testing.T) {
	upper := AnalyzeScene("ROCKET LAUNCH OVER FLORIDA")
	lower := AnalyzeScene("rocket launch over florida")
	if upper.PrimaryQuery != lower.PrimaryQuery {
		t.Fatalf("queries should be case-insensitive: %q vs %q", upper.PrimaryQuery, lower.PrimaryQuery)
	}
}

func TestClassifyContentType(t *testing.T) {
	cases := []struct {
		narration string
		want      string
	}{
		{"An interview with the mission director.", "interview"},
		{"Waves crashed against the rocky ocean shore.", "nature"},
		{"Quarterly earnings rose three percent.", ""},
	}
	for _, tc := range cases {
		if got := AnalyzeScene(tc.narration).ContentType; got != tc.want {
			t.Errorf("content type for %q = %q, want %q", tc.narration, got, tc.want)
		}
	}
}
