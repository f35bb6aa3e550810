// Package analysis derives search queries and a content-type hint from a
// scene's narration text. It is deliberately heuristic: narration is written
// for the ear, so the goal is a handful of concrete search phrases rather
// than a faithful summary.
package analysis

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// SceneQueries is the query bundle handed to a provider client for one
// scene: a primary query plus alternates that are pooled before ranking.
type SceneQueries struct {
	PrimaryQuery       string
	AlternativeQueries []string
	ContentType        string
}

// Queries returns the primary query followed by the alternates.
func (q SceneQueries) Queries() []string {
	queries := make([]string, 0, 1+len(q.AlternativeQueries))
	if q.PrimaryQuery != "" {
		queries = append(queries, q.PrimaryQuery)
	}
	queries = append(queries, q.AlternativeQueries...)
	return queries
}

const (
	primaryKeywordCount = 4
	alternateCount      = 2
)

var folder = cases.Fold()

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"but": {}, "by": {}, "for": {}, "from": {}, "had": {}, "has": {},
	"have": {}, "he": {}, "her": {}, "his": {}, "in": {}, "into": {},
	"is": {}, "it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "our": {},
	"she": {}, "that": {}, "the": {}, "their": {}, "there": {}, "they": {},
	"this": {}, "to": {}, "was": {}, "we": {}, "were": {}, "which": {},
	"will": {}, "with": {}, "would": {}, "you": {}, "your": {},
}

// contentTypeMarkers maps narration vocabulary to a coarse content-type
// label used by the ranking scorer and passed through to providers.
var contentTypeMarkers = []struct {
	label   string
	markers []string
}{
	{"interview", []string{"interview", "says", "said", "asked", "told", "explains", "statement"}},
	{"aerial", []string{"aerial", "overhead", "drone", "skyline", "bird's"}},
	{"launch", []string{"launch", "liftoff", "rocket", "countdown", "ignition"}},
	{"nature", []string{"ocean", "forest", "mountain", "wildlife", "river", "storm"}},
	{"city", []string{"city", "street", "traffic", "downtown", "urban"}},
}

// AnalyzeScene extracts search queries and a content-type hint from
// narration text. Empty or stopword-only narration yields an empty primary
// query; callers treat that scene as having no searchable content.
func AnalyzeScene(narration string) SceneQueries {
	keywords := extractKeywords(narration)
	result := SceneQueries{
		ContentType: classifyContentType(keywords),
	}
	if len(keywords) == 0 {
		return result
	}

	primary := keywords
	if len(primary) > primaryKeywordCount {
		primary = primary[:primaryKeywordCount]
	}
	result.PrimaryQuery = strings.Join(primary, " ")

	alternates := make([]string, 0, alternateCount)
	if len(primary) >= 2 {
		alternates = append(alternates, strings.Join(primary[:2], " ")+" footage")
	}
	if result.ContentType != "" {
		alternates = append(alternates, primary[0]+" "+result.ContentType)
	}
	if len(alternates) > alternateCount {
		alternates = alternates[:alternateCount]
	}
	result.AlternativeQueries = dedupe(result.PrimaryQuery, alternates)
	return result
}

// extractKeywords tokenizes the narration, folds case, and drops stopwords
// and short tokens while preserving first-appearance order.
func extractKeywords(narration string) []string {
	tokens := strings.FieldsFunc(narration, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	seen := make(map[string]struct{}, len(tokens))
	keywords := make([]string, 0, len(tokens))
	for _, token := range tokens {
		word := folder.String(strings.Trim(token, "'"))
		if len(word) < 3 {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}
	return keywords
}

func classifyContentType(keywords []string) string {
	for _, keyword := range keywords {
		for _, entry := range contentTypeMarkers {
			for _, marker := range entry.markers {
				if keyword == marker {
					return entry.label
				}
			}
		}
	}
	return ""
}

func dedupe(primary string, alternates []string) []string {
	out := alternates[:0]
	for _, alt := range alternates {
		if alt != primary {
			out = append(out, alt)
		}
	}
	return out
}
