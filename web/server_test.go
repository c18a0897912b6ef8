package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopping-assistant/collector"
	"shopping-assistant/config"
	"shopping-assistant/scraper/offline"
	"shopping-assistant/services"
	"shopping-assistant/utils"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := utils.NewLoggerWithLevel(utils.LevelError)

	cfg := &config.Config{MaxConcurrency: 2, RateLimitMs: 0, MaxPerPlatform: 20}
	c := collector.New(cfg, logger, nil,
		[]collector.ListingSource{
			offline.NewProvider("amazon", logger),
			offline.NewProvider("flipkart", logger),
		},
		[]collector.ForumSource{offline.NewPostProvider(logger)},
	)

	rec := services.NewRecommender(services.DefaultScoringConfig(), 0, 3, logger)
	srv := NewServer(c, rec, 5, logger)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthz(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestSearchReturnsRankedRecommendations(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/api/search?q=gaming+laptop&budget=50000&preferences=gaming&limit=3")
	if err != nil {
		t.Fatalf("GET /api/search: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(body.Recommendations) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(body.Recommendations))
	}
	for i, r := range body.Recommendations {
		if r.Rank != i+1 {
			t.Errorf("recommendation %d has rank %d", i, r.Rank)
		}
		if r.Explanation == "" {
			t.Errorf("recommendation %d has no explanation", i)
		}
	}
	for i := 1; i < len(body.Recommendations); i++ {
		prev, cur := body.Recommendations[i-1], body.Recommendations[i]
		if !prev.Fallback && cur.Fallback {
			continue
		}
		if cur.Score > prev.Score {
			t.Errorf("recommendations out of score order at %d: %.3f > %.3f", i, cur.Score, prev.Score)
		}
	}
}

func TestSearchRejectsBadInput(t *testing.T) {
	ts := testServer(t)

	tests := []struct {
		name string
		path string
	}{
		{"missing budget", "/api/search?q=laptop"},
		{"zero budget", "/api/search?q=laptop&budget=0"},
		{"short query", "/api/search?q=a&budget=50000"},
		{"bad limit", "/api/search?q=laptop&budget=50000&limit=abc"},
		{"zero limit", "/api/search?q=laptop&budget=50000&limit=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			if err != nil {
				t.Fatalf("GET %s: %v", tt.path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}
