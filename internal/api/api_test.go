package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PUSHPAK-96/cartwise/internal/cache"
	"github.com/PUSHPAK-96/cartwise/internal/model"
	"github.com/PUSHPAK-96/cartwise/internal/pipeline"
	"github.com/PUSHPAK-96/cartwise/internal/testutil"
)

type envelope struct {
	Error    *APIError       `json:"error"`
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata Metadata        `json:"metadata"`
}

func newTestServer(t *testing.T, store DatasetStore) http.Handler {
	t.Helper()
	mem := cache.NewMemory(cache.DefaultTTL)
	t.Cleanup(func() { _ = mem.Close() })

	s, err := NewServer(Options{
		Analyzer: pipeline.NewAnalyzer(mem),
		Store:    store,
		Registry: prometheus.NewRegistry(),
		Version:  "test",
	})
	require.NoError(t, err)
	return s.Router()
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", env.Status)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, rec.Header().Get(RequestIDHeader), env.Metadata.RequestID)
}

func TestRequestIDPropagates(t *testing.T) {
	h := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestPresets(t *testing.T) {
	h := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodGet, "/api/v1/presets", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var presets []PresetResponse
	require.NoError(t, json.Unmarshal(env.Data, &presets))
	require.Len(t, presets, 3)
	assert.Equal(t, "balanced", presets[0].Name)
	assert.Equal(t, 0.05, presets[0].Params.MinSupport)
}

func TestRules(t *testing.T) {
	h := newTestServer(t, nil)
	body := testutil.CSV(testutil.FixtureGroceries)

	rec, env := do(t, h, http.MethodPost, "/api/v1/rules", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp RulesResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, model.BasketStats{Invoices: 5, Products: 6, Rows: 18}, resp.Stats)
	assert.False(t, resp.Cached)
	require.NotEmpty(t, resp.Rules)

	found := false
	for _, r := range resp.Rules {
		if r.AntecedentsStr == "beer" && r.ConsequentsStr == "diapers" {
			found = true
			assert.InDelta(t, 1.25, r.Lift, 1e-9)
			assert.InDelta(t, 1.0, r.Confidence, 1e-9)
		}
	}
	assert.True(t, found, "beer -> diapers should survive the balanced preset")

	_, env = do(t, h, http.MethodPost, "/api/v1/rules?min_confidence=0.9", body)
	var again RulesResponse
	require.NoError(t, json.Unmarshal(env.Data, &again))
	assert.True(t, again.Cached, "confidence-only change reuses mined rules")
	for _, r := range again.Rules {
		assert.GreaterOrEqual(t, r.Confidence, 0.9)
	}
}

func TestRulesErrors(t *testing.T) {
	h := newTestServer(t, nil)
	body := testutil.CSV(testutil.FixtureGroceries)

	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   string
	}{
		{"unknown preset", "/api/v1/rules?preset=wild", body, http.StatusBadRequest, "INVALID_REQUEST"},
		{"support out of range", "/api/v1/rules?min_support=1.5", body, http.StatusBadRequest, "INVALID_REQUEST"},
		{"non-numeric", "/api/v1/rules?min_lift=high", body, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown metric", "/api/v1/rules?sort_by=zest", body, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown format", "/api/v1/rules?format=pdf", body, http.StatusBadRequest, "INVALID_REQUEST"},
		{"missing columns", "/api/v1/rules", "date,amount\n2024-01-01,3\n", http.StatusUnprocessableEntity, "SCHEMA_ERROR"},
		{"unknown dataset", "/api/v1/rules?dataset=x", body, http.StatusBadRequest, "INVALID_REQUEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.NotEmpty(t, env.Error.Message)
		})
	}
}

func TestRulesEmptyUpload(t *testing.T) {
	h := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodPost, "/api/v1/rules", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RulesResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Empty(t, resp.Rules)
	assert.NotNil(t, resp.Rules)
	assert.Contains(t, string(env.Data), `"rules":[]`)
}

func TestRulesDownloads(t *testing.T) {
	h := newTestServer(t, nil)
	body := testutil.CSV(testutil.FixtureGroceries)

	rec, _ := do(t, h, http.MethodPost, "/api/v1/rules?format=csv", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "association_rules.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "antecedents_str,"))

	rec, _ = do(t, h, http.MethodPost, "/api/v1/rules?format=xlsx", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"), "xlsx is a zip archive")
}

func TestRulesFromStoredDataset(t *testing.T) {
	db := testutil.SetupTestDB(t, testutil.FixtureGroceries)
	h := newTestServer(t, db.Storage)

	rec, env := do(t, h, http.MethodPost, "/api/v1/rules?dataset=groceries", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp RulesResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, 5, resp.Stats.Invoices)

	rec, env = do(t, h, http.MethodPost, "/api/v1/rules?dataset=missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "DATASET_NOT_FOUND", env.Error.Code)

	rec, env = do(t, h, http.MethodGet, "/api/v1/datasets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var datasets []model.Dataset
	require.NoError(t, json.Unmarshal(env.Data, &datasets))
	require.Len(t, datasets, 1)
	assert.Equal(t, "groceries", datasets[0].Name)
}

func TestRecommendations(t *testing.T) {
	h := newTestServer(t, nil)
	body := testutil.CSV(testutil.FixtureGroceries)

	rec, env := do(t, h, http.MethodPost, "/api/v1/recommendations?basket=beer", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp RecommendationsResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, []string{"beer"}, resp.Basket)
	require.NotEmpty(t, resp.Recommendations)
	assert.Equal(t, "diapers", resp.Recommendations[0].Product)
	for _, r := range resp.Recommendations {
		assert.NotEqual(t, "beer", r.Product)
	}

	rec, env = do(t, h, http.MethodPost, "/api/v1/recommendations?basket=%20,", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", env.Error.Code)

	rec, env = do(t, h, http.MethodPost, "/api/v1/recommendations?basket=caviar", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"recommendations":[]`)
}

func TestNetwork(t *testing.T) {
	h := newTestServer(t, nil)
	body := testutil.CSV(testutil.FixtureGroceries)

	rec, env := do(t, h, http.MethodPost, "/api/v1/network?top_k=10", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp NetworkResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Contains(t, resp.Nodes, "beer")
	assert.Contains(t, resp.Nodes, "diapers")
	assert.NotEmpty(t, resp.Edges)

	rec, _ = do(t, h, http.MethodPost, "/api/v1/network?format=dot", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "digraph rules {"))

	rec, _ = do(t, h, http.MethodPost, "/api/v1/network?top_k=many", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNetworkIgnoresRuleTableCap(t *testing.T) {
	h := newTestServer(t, nil)
	body := testutil.CSV(testutil.FixtureGroceries)

	_, env := do(t, h, http.MethodPost, "/api/v1/rules?top_rules=1&min_confidence=0.9", body)
	var table RulesResponse
	require.NoError(t, json.Unmarshal(env.Data, &table))
	require.Len(t, table.Rules, 1)

	rec, env := do(t, h, http.MethodPost, "/api/v1/network?top_rules=1&min_confidence=0.9&top_k=1000", body)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp NetworkResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Greater(t, len(resp.Edges), 2, "top_k above top_rules draws more than the capped table")

	// diapers -> beer has confidence 0.75, below the table's min_confidence.
	found := false
	for _, e := range resp.Edges {
		if e.From == "diapers" && e.To == "beer" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSurvey(t *testing.T) {
	h := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodPost, "/api/v1/survey", testutil.SurveyCSV)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp SurveyResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, 4, resp.Filtered)
	assert.Len(t, resp.Rows, 4)
	assert.Equal(t, 50, resp.PageSize)
	require.NotEmpty(t, resp.Share)
	assert.Equal(t, model.SentimentPositive, resp.Share[0].Sentiment)
	assert.Equal(t, 2, resp.Share[0].Count)
	assert.Contains(t, resp.Keywords, "support")
	assert.Equal(t, 4, resp.Summary.Count)
	assert.Len(t, resp.Segments, 2)
}

func TestSurveyFiltersAndPages(t *testing.T) {
	h := newTestServer(t, nil)

	tests := []struct {
		name     string
		query    string
		filtered int
		rows     int
	}{
		{"segment", "?segments=retail", 2, 2},
		{"min rating drops unrated", "?min_rating=4", 2, 2},
		{"search", "?search=package", 1, 1},
		{"negatives", "?negatives=true", 1, 1},
		{"second page", "?page_size=3&page=1", 4, 1},
		{"past the end", "?page_size=3&page=5", 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, http.MethodPost, "/api/v1/survey"+tt.query, testutil.SurveyCSV)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var resp SurveyResponse
			require.NoError(t, json.Unmarshal(env.Data, &resp))
			assert.Equal(t, tt.filtered, resp.Filtered)
			assert.Len(t, resp.Rows, tt.rows)
		})
	}
}

func TestSurveyErrors(t *testing.T) {
	h := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodPost, "/api/v1/survey", "rating,segment\n5,retail\n")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "SCHEMA_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Message, "free_text")

	rec, _ = do(t, h, http.MethodPost, "/api/v1/survey?page_size=0", testutil.SurveyCSV)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/api/v1/survey?score_min=low", testutil.SurveyCSV)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSurveyEmptyUpload(t *testing.T) {
	h := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodPost, "/api/v1/survey", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp SurveyResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Zero(t, resp.Total)
	assert.Empty(t, resp.Rows)
	assert.Empty(t, resp.Keywords)
}

func TestSurveyCSVDownload(t *testing.T) {
	h := newTestServer(t, nil)

	rec, _ := do(t, h, http.MethodPost, "/api/v1/survey?format=csv&negatives=true", testutil.SurveyCSV)
	require.Equal(t, http.StatusOK, rec.Code)
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "free_text,rating,segment"))
	assert.Contains(t, lines[1], "negative")
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, nil)
	do(t, h, http.MethodGet, "/api/v1/health", "")
	do(t, h, http.MethodPost, "/api/v1/rules", testutil.CSV(testutil.FixtureGroceries))

	rec, _ := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `cartwise_api_requests_total{endpoint="/api/v1/health",method="GET",status_code="200"} 1`)
	assert.Contains(t, body, `cartwise_analyses_total{cached="false"} 1`)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s, err := NewServer(Options{Registry: prometheus.NewRegistry()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.ListenAndServe(ctx, "127.0.0.1:0", Timeouts{
			Read: time.Second, Write: time.Second, Idle: time.Second, Shutdown: time.Second,
		}, nil)
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestCORS(t *testing.T) {
	s, err := NewServer(Options{
		Registry:    prometheus.NewRegistry(),
		CORSOrigins: []string{"https://shop.example"},
	})
	require.NoError(t, err)
	h := s.Router()

	tests := []struct {
		origin string
		want   string
	}{
		{"https://shop.example", "https://shop.example"},
		{"https://other.example", ""},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRateLimit(t *testing.T) {
	s, err := NewServer(Options{Registry: prometheus.NewRegistry(), RateLimit: 2})
	require.NoError(t, err)
	h := s.Router()

	for range 2 {
		rec, _ := do(t, h, http.MethodGet, "/api/v1/health", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, env := do(t, h, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "RATE_LIMITED", env.Error.Code)

	rec, _ = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
