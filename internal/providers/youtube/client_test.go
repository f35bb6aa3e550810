package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"clipforge/internal/config"
	"clipforge/internal/providers"
	"clipforge/internal/services"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(config.YouTube{
		APIKey:         "primary",
		APIKeyFallback: "secondary",
		BaseURL:        server.URL,
		MaxPerQuery:    10,
		RatePerSecond:  1000,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func searchPayload(ids ...string) string {
	items := ""
	for i, id := range ids {
		if i > 0 {
			items += ","
		}
		items += fmt.Sprintf(`{"id":{"videoId":%q},"snippet":{"title":"clip %s","channelTitle":"chan","thumbnails":{"medium":{"url":"https://i.ytimg.com/%s.jpg"}}}}`, id, id, id)
	}
	return `{"items":[` + items + `]}`
}

func videosPayload(durations map[string]string) string {
	items := ""
	first := true
	for id, dur := range durations {
		if !first {
			items += ","
		}
		first = false
		items += fmt.Sprintf(`{"id":%q,"contentDetails":{"duration":%q}}`, id, dur)
	}
	return `{"items":[` + items + `]}`
}

func TestSearchPoolsQueriesAndDeduplicates(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			if r.URL.Query().Get("q") == "mars rover" {
				fmt.Fprint(w, searchPayload("abc", "def"))
			} else {
				fmt.Fprint(w, searchPayload("def", "ghi"))
			}
		case "/videos":
			fmt.Fprint(w, videosPayload(map[string]string{"abc": "PT1M30S", "def": "PT2M", "ghi": "PT45S"}))
		default:
			http.NotFound(w, r)
		}
	}))

	results, err := client.Search(context.Background(), []string{"mars rover", "rover landing"}, providers.SearchParams{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 pooled candidates, got %d", len(results))
	}
	if results[0].VideoID != "abc" || results[1].VideoID != "def" || results[2].VideoID != "ghi" {
		t.Fatalf("unexpected candidate order: %+v", results)
	}
	if results[0].Duration != 90 {
		t.Fatalf("expected duration 90, got %v", results[0].Duration)
	}
	if results[0].Provider != ProviderID {
		t.Fatalf("expected provider tag %q, got %q", ProviderID, results[0].Provider)
	}
	if results[0].EmbedURL != watchURL+"abc" {
		t.Fatalf("unexpected embed url %q", results[0].EmbedURL)
	}
}

func TestSearchFallsBackToSecondaryKeyOnQuota(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") == "primary" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/search":
			fmt.Fprint(w, searchPayload("abc"))
		case "/videos":
			fmt.Fprint(w, videosPayload(map[string]string{"abc": "PT1M"}))
		}
	}))

	results, err := client.Search(context.Background(), []string{"launch"}, providers.SearchParams{})
	if err != nil {
		t.Fatalf("expected fallback key to succeed: %v", err)
	}
	if len(results) != 1 || results[0].VideoID != "abc" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestSearchReportsQuotaWhenAllKeysExhausted(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.Search(context.Background(), []string{"launch"}, providers.SearchParams{})
	if !errors.Is(err, services.ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestSearchClassifiesServerErrorsTransient(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.Search(context.Background(), []string{"launch"}, providers.SearchParams{})
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if errors.Is(err, services.ErrQuotaExceeded) {
		t.Fatal("server error must not classify as quota")
	}
}

func TestParseISODuration(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"PT4M13S", 253},
		{"PT1H2M3S", 3723},
		{"PT45S", 45},
		{"PT2H", 7200},
		{"P1DT2H", 0},
		{"garbage", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := parseISODuration(tc.raw); got != tc.want {
			t.Errorf("parseISODuration(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(config.YouTube{BaseURL: "https://example.com"}); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := New(config.YouTube{APIKey: "k"}); err == nil {
		t.Fatal("expected error for missing base url")
	}
}
