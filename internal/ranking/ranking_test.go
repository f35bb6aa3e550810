package ranking

import (
	"fmt"
	"testing"

	"clipforge/internal/providers"
)

func candidate(id string, duration float64) providers.Candidate {
	return providers.Candidate{VideoID: id, Title: "clip " + id, Duration: duration, Provider: "youtube"}
}

func TestRankDurationWindowIsClosedInterval(t *testing.T) {
	const sceneDuration = 30.0
	cases := []struct {
		duration float64
		keep     bool
	}{
		{29.9, false},
		{30.0, true},
		{45.0, true},
		{90.0, true},
		{90.1, false},
		{0, false},
	}

	engine := NewEngine()
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%.1fs", tc.duration), func(t *testing.T) {
			ranked := engine.Rank([]providers.Candidate{candidate("v", tc.duration)}, sceneDuration, "")
			if kept := len(ranked) == 1; kept != tc.keep {
				t.Fatalf("duration %v: kept = %v, want %v", tc.duration, kept, tc.keep)
			}
		})
	}
}

func TestRankAssignsContiguousRanks(t *testing.T) {
	candidates := []providers.Candidate{
		candidate("a", 30),
		candidate("b", 45),
		candidate("c", 60),
		candidate("d", 88),
	}

	ranked := NewEngine().Rank(candidates, 30, "")
	if len(ranked) != 4 {
		t.Fatalf("expected 4 ranked, got %d", len(ranked))
	}
	for i, r := range ranked {
		if r.Rank != i+1 {
			t.Fatalf("rank at index %d is %d, want %d", i, r.Rank, i+1)
		}
	}
	// 45s sits at the window midpoint for a 30s scene and must win.
	if ranked[0].VideoID != "b" {
		t.Fatalf("expected midpoint candidate first, got %s", ranked[0].VideoID)
	}
}

func TestRankCapsOutput(t *testing.T) {
	var candidates []providers.Candidate
	for i := 0; i < 20; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("v%d", i), 45))
	}

	ranked := NewEngine().Rank(candidates, 30, "")
	if len(ranked) != DefaultMaxSuggestions {
		t.Fatalf("expected cap of %d, got %d", DefaultMaxSuggestions, len(ranked))
	}

	ranked = NewEngine(WithMaxSuggestions(3)).Rank(candidates, 30, "")
	if len(ranked) != 3 {
		t.Fatalf("expected cap of 3, got %d", len(ranked))
	}
}

func TestRankStableOnTies(t *testing.T) {
	// Identical durations score identically; provider order must hold.
	candidates := []providers.Candidate{
		candidate("first", 45),
		candidate("second", 45),
		candidate("third", 45),
	}

	ranked := NewEngine().Rank(candidates, 30, "")
	if ranked[0].VideoID != "first" || ranked[1].VideoID != "second" || ranked[2].VideoID != "third" {
		t.Fatalf("tie order not stable: %+v", ranked)
	}
}

func TestRankDeterministic(t *testing.T) {
	candidates := []providers.Candidate{
		candidate("a", 62),
		candidate("b", 31),
		candidate("c", 88),
		candidate("d", 45),
	}
	engine := NewEngine()

	first := engine.Rank(candidates, 30, "launch")
	second := engine.Rank(candidates, 30, "launch")
	if len(first) != len(second) {
		t.Fatalf("non-deterministic length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].VideoID != second[i].VideoID || first[i].Rank != second[i].Rank {
			t.Fatalf("non-deterministic output at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRankContentTypeAffinity(t *testing.T) {
	candidates := []providers.Candidate{
		{VideoID: "plain", Title: "some clip", Duration: 45},
		{VideoID: "match", Title: "rocket launch highlights", Duration: 45},
	}

	ranked := NewEngine().Rank(candidates, 30, "launch")
	if ranked[0].VideoID != "match" {
		t.Fatalf("expected content-type match to rank first, got %s", ranked[0].VideoID)
	}
}

func TestRankEmptySurvivorsIsValid(t *testing.T) {
	ranked := NewEngine().Rank([]providers.Candidate{candidate("v", 500)}, 30, "")
	if len(ranked) != 0 {
		t.Fatalf("expected empty result, got %d", len(ranked))
	}
}

func TestFirstNDegradedMode(t *testing.T) {
	var candidates []providers.Candidate
	for i := 0; i < 12; i++ {
		candidates = append(candidates, candidate(fmt.Sprintf("v%d", i), 0))
	}

	engine := NewEngine()
	ranked := engine.FirstN(candidates)
	if len(ranked) != DefaultMaxSuggestions {
		t.Fatalf("expected %d degraded suggestions, got %d", DefaultMaxSuggestions, len(ranked))
	}
	for i, r := range ranked {
		if r.VideoID != fmt.Sprintf("v%d", i) {
			t.Fatalf("degraded mode must keep provider order, got %s at %d", r.VideoID, i)
		}
		if r.Rank != i+1 {
			t.Fatalf("degraded rank at %d is %d", i, r.Rank)
		}
		if r.Score != 0 {
			t.Fatalf("degraded mode must not score, got %v", r.Score)
		}
	}

	// Rank falls back to the degraded path when the duration is unusable.
	viaRank := engine.Rank(candidates, 0, "")
	if len(viaRank) != len(ranked) {
		t.Fatalf("Rank with zero duration should match FirstN, got %d", len(viaRank))
	}
}
