package providers

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// Candidate is a raw, unranked search result from any provider. It exists
// only in memory during one scene's processing.
type Candidate struct {
	VideoID      string
	Title        string
	Duration     float64
	ThumbnailURL string
	Channel      string
	EmbedURL     string
	Provider     string
	Quality      string
}

// SearchParams is the parameter bag passed to provider searches.
type SearchParams struct {
	MaxResults  int
	ContentType string
}

// Client queries one external content source. Implementations classify
// failures with the services sentinel errors: quota exhaustion is fatal for
// the rest of a run, not-found means an empty result set, anything else is
// transient.
type Client interface {
	ID() string
	Search(ctx context.Context, queries []string, params SearchParams) ([]Candidate, error)
}

// CoerceSeconds converts a loosely typed duration value into seconds.
// Providers deliver durations as JSON numbers, numeric strings, or
// "MM:SS"/"HH:MM:SS" clock strings. Returns false when the value cannot
// be interpreted.
func CoerceSeconds(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return v, v > 0
	case float32:
		return float64(v), v > 0
	case int:
		return float64(v), v > 0
	case int64:
		return float64(v), v > 0
	case json.Number:
		f, err := v.Float64()
		return f, err == nil && f > 0
	case string:
		return coerceSecondsString(v)
	default:
		return 0, false
	}
}

func coerceSecondsString(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f, f > 0
	}
	if strings.Contains(trimmed, ":") {
		parts := strings.Split(trimmed, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return 0, false
		}
		total := 0.0
		for _, part := range parts {
			n, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil || n < 0 {
				return 0, false
			}
			total = total*60 + n
		}
		return total, total > 0
	}
	return 0, false
}
