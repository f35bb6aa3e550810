// Package ranking filters and orders visual candidates for one scene. The
// engine is a pure function over its inputs: no I/O, no clock, deterministic
// output for identical input.
package ranking

import (
	"math"
	"sort"
	"strings"

	"clipforge/internal/providers"
)

// DefaultMaxSuggestions caps the ranked output per scene.
const DefaultMaxSuggestions = 8

// Duration window factors relative to the scene's narration duration. A
// usable clip must cover the narration at least once but should not force
// trimming away more than two thirds of the source.
const (
	DefaultMinDurationFactor = 1.0
	DefaultMaxDurationFactor = 3.0
)

// Ranked is a candidate with its assigned rank and score.
type Ranked struct {
	providers.Candidate
	Rank  int
	Score float64
}

// Scorer assigns a quality score to a candidate that already passed the
// duration filter. Higher is better.
type Scorer interface {
	Score(candidate providers.Candidate, sceneDuration float64, contentType string) float64
}

// Engine ranks candidates for scenes with a known narration duration.
type Engine struct {
	minFactor float64
	maxFactor float64
	max       int
	scorer    Scorer
}

// Option configures an Engine.
type Option func(*Engine)

// WithWindow overrides the duration window factors.
func WithWindow(minFactor, maxFactor float64) Option {
	return func(e *Engine) {
		if minFactor > 0 && maxFactor >= minFactor {
			e.minFactor = minFactor
			e.maxFactor = maxFactor
		}
	}
}

// WithMaxSuggestions overrides the output cap.
func WithMaxSuggestions(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.max = max
		}
	}
}

// WithScorer replaces the scoring strategy.
func WithScorer(scorer Scorer) Option {
	return func(e *Engine) {
		if scorer != nil {
			e.scorer = scorer
		}
	}
}

// NewEngine builds an engine with the default window, cap, and scorer.
func NewEngine(opts ...Option) *Engine {
	engine := &Engine{
		minFactor: DefaultMinDurationFactor,
		maxFactor: DefaultMaxDurationFactor,
		max:       DefaultMaxSuggestions,
		scorer:    durationFitScorer{},
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Rank filters candidates to the duration window, scores the survivors, and
// returns at most the configured cap with contiguous ranks from 1. Callers
// must not invoke Rank for scenes without a usable duration; use FirstN for
// those. An empty result is a valid outcome, not an error.
func (e *Engine) Rank(candidates []providers.Candidate, sceneDuration float64, contentType string) []Ranked {
	if sceneDuration <= 0 {
		return e.FirstN(candidates)
	}

	lower := e.minFactor * sceneDuration
	upper := e.maxFactor * sceneDuration

	ranked := make([]Ranked, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Duration < lower || candidate.Duration > upper {
			continue
		}
		ranked = append(ranked, Ranked{
			Candidate: candidate,
			Score:     e.scorer.Score(candidate, sceneDuration, contentType),
		})
	}

	// Stable sort keeps provider-original order on ties so output is
	// deterministic for identical inputs.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > e.max {
		ranked = ranked[:e.max]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// FirstN is the degraded path for scenes without a usable duration: the
// first candidates in provider order, capped, with positional ranks and no
// scoring applied.
func (e *Engine) FirstN(candidates []providers.Candidate) []Ranked {
	n := len(candidates)
	if n > e.max {
		n = e.max
	}
	ranked := make([]Ranked, 0, n)
	for i := 0; i < n; i++ {
		ranked = append(ranked, Ranked{Candidate: candidates[i], Rank: i + 1})
	}
	return ranked
}

// durationFitScorer scores by closeness to the midpoint of the duration
// window, with a small affinity bonus when the requested content type shows
// up in the candidate's title or channel.
type durationFitScorer struct{}

func (durationFitScorer) Score(candidate providers.Candidate, sceneDuration float64, contentType string) float64 {
	ideal := 1.5 * sceneDuration
	spread := 1.5 * sceneDuration
	fit := 1 - math.Abs(candidate.Duration-ideal)/spread
	if fit < 0 {
		fit = 0
	}

	score := fit
	if token := strings.ToLower(strings.TrimSpace(contentType)); token != "" {
		haystack := strings.ToLower(candidate.Title + " " + candidate.Channel)
		if strings.Contains(haystack, token) {
			score += 0.25
		}
	}
	return score
}
