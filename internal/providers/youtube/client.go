package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"clipforge/internal/config"
	"clipforge/internal/providers"
	"clipforge/internal/services"
)

// ProviderID tags candidates produced by this client.
const ProviderID = "youtube"

const watchURL = "https://www.youtube.com/watch?v="

// Client searches the YouTube Data API v3 for visual candidates. A fallback
// API key, when configured, is tried automatically on quota errors.
type Client struct {
	apiKey      string
	fallbackKey string
	baseURL     string
	maxPerQuery int
	httpClient  *http.Client
	limiter     *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a YouTube search client from configuration.
func New(cfg config.YouTube, opts ...Option) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("youtube api key required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("youtube base url required")
	}
	maxPerQuery := cfg.MaxPerQuery
	if maxPerQuery <= 0 || maxPerQuery > 50 {
		maxPerQuery = 10
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 4
	}
	client := &Client{
		apiKey:      apiKey,
		fallbackKey: strings.TrimSpace(cfg.APIKeyFallback),
		baseURL:     baseURL,
		maxPerQuery: maxPerQuery,
		httpClient:  &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(rate.Limit(perSecond), 1),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ID returns the provider tag.
func (c *Client) ID() string {
	return ProviderID
}

// Search runs every query against the Data API and pools the results,
// deduplicating by video id while preserving first-seen order.
func (c *Client) Search(ctx context.Context, queries []string, params providers.SearchParams) ([]providers.Candidate, error) {
	seen := make(map[string]struct{})
	var pooled []providers.Candidate

	for _, query := range queries {
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		candidates, err := c.searchOne(ctx, query, params)
		if err != nil {
			return nil, err
		}
		for _, candidate := range candidates {
			if _, dup := seen[candidate.VideoID]; dup {
				continue
			}
			seen[candidate.VideoID] = struct{}{}
			pooled = append(pooled, candidate)
		}
	}
	return pooled, nil
}

// searchOne issues one search plus the details lookup that carries
// durations. Falls back to the secondary key on quota errors.
func (c *Client) searchOne(ctx context.Context, query string, params providers.SearchParams) ([]providers.Candidate, error) {
	keys := []string{c.apiKey}
	if c.fallbackKey != "" {
		keys = append(keys, c.fallbackKey)
	}

	var lastErr error
	for _, key := range keys {
		candidates, err := c.doSearch(ctx, query, params, key)
		if err == nil {
			return candidates, nil
		}
		lastErr = err
		if !errors.Is(err, services.ErrQuotaExceeded) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) doSearch(ctx context.Context, query string, params providers.SearchParams, apiKey string) ([]providers.Candidate, error) {
	maxResults := params.MaxResults
	if maxResults <= 0 || maxResults > c.maxPerQuery {
		maxResults = c.maxPerQuery
	}

	values := url.Values{}
	values.Set("part", "snippet")
	values.Set("q", query)
	values.Set("type", "video")
	values.Set("videoEmbeddable", "true")
	values.Set("maxResults", strconv.Itoa(maxResults))
	values.Set("key", apiKey)

	var searchResp searchResponse
	if err := c.getJSON(ctx, "/search", values, &searchResp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(searchResp.Items))
	byID := make(map[string]searchItem, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		ids = append(ids, item.ID.VideoID)
		byID[item.ID.VideoID] = item
	}
	if len(ids) == 0 {
		return nil, nil
	}

	durations, err := c.fetchDurations(ctx, ids, apiKey)
	if err != nil {
		return nil, err
	}

	candidates := make([]providers.Candidate, 0, len(ids))
	for _, id := range ids {
		item := byID[id]
		candidates = append(candidates, providers.Candidate{
			VideoID:      id,
			Title:        item.Snippet.Title,
			Duration:     durations[id],
			ThumbnailURL: item.Snippet.Thumbnails.Medium.URL,
			Channel:      item.Snippet.ChannelTitle,
			EmbedURL:     watchURL + id,
			Provider:     ProviderID,
		})
	}
	return candidates, nil
}

func (c *Client) fetchDurations(ctx context.Context, ids []string, apiKey string) (map[string]float64, error) {
	values := url.Values{}
	values.Set("part", "contentDetails")
	values.Set("id", strings.Join(ids, ","))
	values.Set("key", apiKey)

	var resp videosResponse
	if err := c.getJSON(ctx, "/videos", values, &resp); err != nil {
		return nil, err
	}

	durations := make(map[string]float64, len(resp.Items))
	for _, item := range resp.Items {
		durations[item.ID] = parseISODuration(item.ContentDetails.Duration)
	}
	return durations, nil
}

func (c *Client) getJSON(ctx context.Context, path string, values url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return services.Wrap(services.ErrTransient, ProviderID, "rate limit", "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+values.Encode(), nil)
	if err != nil {
		return services.Wrap(services.ErrValidation, ProviderID, "build request", "", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, ProviderID, "request", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden, resp.StatusCode == http.StatusTooManyRequests:
		return services.Wrap(services.ErrQuotaExceeded, ProviderID, "request", fmt.Sprintf("status %d", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, ProviderID, "request", path, nil)
	case resp.StatusCode != http.StatusOK:
		return services.Wrap(services.ErrTransient, ProviderID, "request", fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrTransient, ProviderID, "decode response", path, err)
	}
	return nil
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		ChannelTitle string `json:"channelTitle"`
		Thumbnails   struct {
			Medium struct {
				URL string `json:"url"`
			} `json:"medium"`
		} `json:"thumbnails"`
	} `json:"snippet"`
}

type videosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

var isoDurationRE = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISODuration converts an ISO 8601 duration (PT4M13S) to seconds.
// Unparseable values yield 0, which the ranking engine filters out.
func parseISODuration(raw string) float64 {
	m := isoDurationRE.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0
	}
	total := 0.0
	for i, factor := range []float64{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return 0
		}
		total += n * factor
	}
	return total
}
