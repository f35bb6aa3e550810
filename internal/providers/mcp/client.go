package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"clipforge/internal/providers"
	"clipforge/internal/services"
)

// searchTool is the tool name archive providers expose for video search.
const searchTool = "search_videos"

// Client is a pipeline-mode provider backed by an MCP server (public video
// archives such as DVIDS or NASA expose their search as an MCP tool). Each
// Search call opens a session against the provider endpoint, runs the
// search tool per query, and pools the results.
type Client struct {
	id         string
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	impl       *sdk.Implementation
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for the MCP transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates an MCP provider client for one catalog entry.
func New(cfg providers.ProviderConfig, timeout time.Duration, opts ...Option) (*Client, error) {
	id := strings.ToLower(strings.TrimSpace(cfg.ID))
	if id == "" {
		return nil, errors.New("mcp provider id required")
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("mcp provider %s: endpoint required", id)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &Client{
		id:       id,
		endpoint: endpoint,
		timeout:  timeout,
		impl:     &sdk.Implementation{Name: "clipforge", Version: "dev"},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ID returns the provider tag.
func (c *Client) ID() string {
	return c.id
}

// Search connects to the provider and runs the search tool for each query,
// pooling candidates deduplicated by video id.
func (c *Client) Search(ctx context.Context, queries []string, params providers.SearchParams) ([]providers.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	session, err := c.connect(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, c.id, "connect", c.endpoint, err)
	}
	defer session.Close()

	seen := make(map[string]struct{})
	var pooled []providers.Candidate
	for _, query := range queries {
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		candidates, err := c.callSearch(ctx, session, query, params)
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

func (c *Client) connect(ctx context.Context) (*sdk.ClientSession, error) {
	client := sdk.NewClient(c.impl, nil)
	transport := &sdk.StreamableClientTransport{Endpoint: c.endpoint}
	if c.httpClient != nil {
		transport.HTTPClient = c.httpClient
	}
	return client.Connect(ctx, transport, nil)
}

func (c *Client) callSearch(ctx context.Context, session *sdk.ClientSession, query string, params providers.SearchParams) ([]providers.Candidate, error) {
	arguments := map[string]any{"query": query}
	if params.MaxResults > 0 {
		arguments["max_results"] = params.MaxResults
	}
	if params.ContentType != "" {
		arguments["content_type"] = params.ContentType
	}

	result, err := session.CallTool(ctx, &sdk.CallToolParams{
		Name:      searchTool,
		Arguments: arguments,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, c.id, "call tool", searchTool, err)
	}
	if result.IsError {
		message := textContent(result)
		if isQuotaMessage(message) {
			return nil, services.Wrap(services.ErrQuotaExceeded, c.id, "call tool", message, nil)
		}
		return nil, services.Wrap(services.ErrTransient, c.id, "call tool", message, nil)
	}

	payload, err := resultPayload(result)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, c.id, "decode result", "", err)
	}
	return c.parseCandidates(payload), nil
}

// resultPayload extracts the tool's video list, preferring structured
// content over a JSON text block.
func resultPayload(result *sdk.CallToolResult) ([]any, error) {
	if result.StructuredContent != nil {
		if videos := videosField(result.StructuredContent); videos != nil {
			return videos, nil
		}
	}
	text := textContent(result)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil, fmt.Errorf("unexpected tool payload: %w", err)
	}
	if videos := videosField(decoded); videos != nil {
		return videos, nil
	}
	return nil, nil
}

func videosField(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range []string{"videos", "results", "items"} {
			if nested, ok := v[key].([]any); ok {
				return nested
			}
		}
	}
	return nil
}

func (c *Client) parseCandidates(items []any) []providers.Candidate {
	candidates := make([]providers.Candidate, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		videoID := stringField(fields, "id", "video_id", "videoId")
		if videoID == "" {
			continue
		}
		duration, _ := providers.CoerceSeconds(firstField(fields, "duration", "duration_seconds", "durationSeconds"))
		candidates = append(candidates, providers.Candidate{
			VideoID:      videoID,
			Title:        stringField(fields, "title", "name"),
			Duration:     duration,
			ThumbnailURL: stringField(fields, "thumbnail", "thumbnail_url", "thumbnailUrl"),
			Channel:      stringField(fields, "channel", "owner", "source"),
			EmbedURL:     stringField(fields, "url", "embed_url", "embedUrl"),
			Provider:     c.id,
			Quality:      stringField(fields, "quality"),
		})
	}
	return candidates
}

func textContent(result *sdk.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if text, ok := content.(*sdk.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func stringField(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := fields[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func firstField(fields map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := fields[key]; ok {
			return v
		}
	}
	return nil
}

func isQuotaMessage(message string) bool {
	lowered := strings.ToLower(message)
	return strings.Contains(lowered, "quota") || strings.Contains(lowered, "rate limit")
}
