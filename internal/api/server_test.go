package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/moneyball/internal/config"
	"github.com/yourusername/moneyball/internal/health"
	"github.com/yourusername/moneyball/internal/logger"
	"github.com/yourusername/moneyball/internal/metrics"
	"github.com/yourusername/moneyball/internal/repository"
	"github.com/yourusername/moneyball/internal/service"
	"github.com/yourusername/moneyball/internal/session"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "moneyball", Environment: "development"},
		Server: config.ServerConfig{
			Port:                8080,
			ReadTimeoutSeconds:  5,
			WriteTimeoutSeconds: 5,
			AllowedOrigins:      []string{"*"},
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	metrics.InitRegistry()
	log := logger.Discard()
	store := session.NewStore(time.Hour, 0)
	calc := service.NewCalculator(nil, store, repository.NewMemoryTrackerRepository(), log)
	checker := health.NewChecker(health.Config{ServiceName: "moneyball", Logger: log, Sessions: store})
	checker.SetReady(true)
	return NewServer(cfg, calc, checker, log).Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var body struct {
		ID string `json:"id"`
	}
	decode(t, rec, &body)
	require.NotEmpty(t, body.ID)
	return body.ID
}

func soccerBody() map[string]interface{} {
	return map[string]interface{}{
		"home":         "Arsenal",
		"away":         "Spurs",
		"home_xg":      45,
		"home_xga":     22,
		"home_matches": 20,
		"away_xg":      30,
		"away_xga":     32,
		"away_matches": 20,
		"over15_odds":  "1.20",
		"over25_odds":  "+110",
		"btts_odds":    -150,
	}
}

func TestHealthRoutes(t *testing.T) {
	h := newTestServer(t, testConfig())

	for _, path := range []string{"/health", "/ready", "/live"} {
		rec := do(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestMetricsRoute(t *testing.T) {
	h := newTestServer(t, testConfig())
	do(t, h, http.MethodGet, "/health", nil)

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "moneyball_http_request_duration_seconds")
}

func TestConvertOdds(t *testing.T) {
	h := newTestServer(t, testConfig())

	tests := []struct {
		name     string
		odds     interface{}
		american float64
		decimal  float64
		implied  float64
	}{
		{name: "plus american", odds: "+150", american: 150, decimal: 2.5, implied: 0.4},
		{name: "minus american number", odds: -200, american: -200, decimal: 1.5, implied: 2.0 / 3.0},
		{name: "decimal", odds: "3.0", american: 200, decimal: 3.0, implied: 1.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/odds/convert", map[string]interface{}{"odds": tt.odds})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var body oddsResponse
			decode(t, rec, &body)
			assert.Equal(t, tt.american, body.American)
			assert.InDelta(t, tt.decimal, body.Decimal, 1e-12)
			assert.InDelta(t, tt.implied, body.Implied, 1e-12)
		})
	}
}

func TestConvertOddsRejectsZero(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := do(t, h, http.MethodPost, "/api/v1/odds/convert", map[string]interface{}{"odds": "0"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body errorResponse
	decode(t, rec, &body)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "odds", body.Fields[0].Field)
}

func TestMalformedBody(t *testing.T) {
	h := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ev", bytes.NewBufferString("[1,2"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/ev", map[string]interface{}{"prob": []int{1}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestQuoteRoute(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := do(t, h, http.MethodPost, "/api/v1/ev", map[string]interface{}{"prob": 55, "odds": "-110"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body service.Quote
	decode(t, rec, &body)
	assert.InDelta(t, 5.0, body.EVPercent, 1e-9)
}

func TestSessionlessSimulate(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := do(t, h, http.MethodPost, "/api/v1/simulate/soccer", soccerBody())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/v1/simulate/cricket", soccerBody())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSimulateValidationErrors(t *testing.T) {
	h := newTestServer(t, testConfig())
	id := createSession(t, h)

	body := soccerBody()
	body["home_matches"] = 0
	rec := do(t, h, http.MethodPost, "/api/v1/sessions/"+id+"/simulate/soccer", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	decode(t, rec, &resp)
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, "home_matches", resp.Fields[0].Field)
	assert.Equal(t, "domain", string(resp.Fields[0].Kind))
}

func TestUnknownSession(t *testing.T) {
	h := newTestServer(t, testConfig())

	paths := []string{
		"/api/v1/sessions/not-a-uuid/parlay",
		"/api/v1/sessions/7c9e6679-7425-40de-944b-e07fc1f90ae7/parlay",
		"/api/v1/sessions/7c9e6679-7425-40de-944b-e07fc1f90ae7/board",
	}
	for _, path := range paths {
		rec := do(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestSessionParlayFlow(t *testing.T) {
	h := newTestServer(t, testConfig())
	id := createSession(t, h)
	base := "/api/v1/sessions/" + id

	rec := do(t, h, http.MethodPost, base+"/simulate/soccer", soccerBody())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report struct {
		Propositions []struct {
			ID          string `json:"id"`
			Description string `json:"description"`
		} `json:"propositions"`
	}
	decode(t, rec, &report)
	require.Len(t, report.Propositions, 3)

	// save the first proposition to the board
	rec = do(t, h, http.MethodPost, base+"/board", map[string]string{"proposition_id": report.Propositions[0].ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, h, http.MethodGet, base+"/board", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var plays []map[string]interface{}
	decode(t, rec, &plays)
	assert.Len(t, plays, 1)

	// two legs from propositions and one manual leg
	for _, p := range report.Propositions[:2] {
		rec = do(t, h, http.MethodPost, base+"/parlay/legs", map[string]string{"proposition_id": p.ID})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	rec = do(t, h, http.MethodPost, base+"/parlay/legs", map[string]interface{}{
		"sport": "NFL", "description": "J. Allen - Over 250.5 Pass Yds", "odds": -115, "prob": 58,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var manual struct {
		ID string `json:"id"`
	}
	decode(t, rec, &manual)

	rec = do(t, h, http.MethodGet, base+"/parlay/legs", nil)
	var legs []map[string]interface{}
	decode(t, rec, &legs)
	assert.Len(t, legs, 3)

	rec = do(t, h, http.MethodDelete, base+"/parlay/legs/"+manual.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodDelete, base+"/parlay/legs/"+manual.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, base+"/parlay?book_odds=%2B160", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var agg struct {
		Legs         []interface{} `json:"legs"`
		AutoAmerican int           `json:"auto_american"`
		UsedAmerican float64       `json:"used_american"`
		TrackerRow   string        `json:"tracker_row"`
	}
	decode(t, rec, &agg)
	assert.Len(t, agg.Legs, 2)
	assert.Equal(t, 152, agg.AutoAmerican)
	assert.Equal(t, 160.0, agg.UsedAmerican)
	assert.Contains(t, agg.TrackerRow, "| 160 |")

	rec = do(t, h, http.MethodPost, base+"/tracker", map[string]string{"book_odds": "+160"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var entry struct {
		ID           string `json:"id"`
		AmericanOdds int    `json:"american_odds"`
		LegCount     int    `json:"leg_count"`
	}
	decode(t, rec, &entry)
	assert.Equal(t, 160, entry.AmericanOdds)
	assert.Equal(t, 2, entry.LegCount)

	rec = do(t, h, http.MethodGet, "/api/v1/tracker/"+entry.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/v1/tracker?session_id="+id, nil)
	var entries []map[string]interface{}
	decode(t, rec, &entries)
	assert.Len(t, entries, 1)

	rec = do(t, h, http.MethodDelete, base+"/parlay/legs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodPost, base+"/tracker", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTrackerRouteErrors(t *testing.T) {
	h := newTestServer(t, testConfig())

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/tracker/nope", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, h, http.MethodGet, "/api/v1/tracker?limit=x", nil).Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimitPerSecond = 0.001
	cfg.Server.RateLimitBurst = 2
	h := newTestServer(t, cfg)

	body := map[string]string{"odds": "+100"}
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/v1/odds/convert", body).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/v1/odds/convert", body).Code)

	rec := do(t, h, http.MethodPost, "/api/v1/odds/convert", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// health checks are not rate limited
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", nil).Code)
}

func TestSoccerParlayRoute(t *testing.T) {
	h := newTestServer(t, testConfig())
	id := createSession(t, h)
	base := "/api/v1/sessions/" + id

	rec := do(t, h, http.MethodPost, base+"/simulate/soccer", soccerBody())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report struct {
		Propositions []struct {
			ID string `json:"id"`
		} `json:"propositions"`
	}
	decode(t, rec, &report)

	rec = do(t, h, http.MethodPost, base+"/parlay/soccer", map[string]string{
		"proposition_ids": report.Propositions[0].ID + ", " + report.Propositions[1].ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var combo struct {
		DecimalOdds float64 `json:"decimal_odds"`
		Tier        string  `json:"tier"`
	}
	decode(t, rec, &combo)
	assert.InDelta(t, 2.52, combo.DecimalOdds, 1e-9)
	assert.NotEmpty(t, combo.Tier)

	// nothing saved to the board yet
	rec = do(t, h, http.MethodPost, base+"/parlay/soccer", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAddBoardLegsRoute(t *testing.T) {
	h := newTestServer(t, testConfig())
	id := createSession(t, h)
	base := "/api/v1/sessions/" + id

	rec := do(t, h, http.MethodPost, base+"/simulate/soccer", soccerBody())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report struct {
		Propositions []struct {
			ID string `json:"id"`
		} `json:"propositions"`
	}
	decode(t, rec, &report)
	for _, p := range report.Propositions {
		rec = do(t, h, http.MethodPost, base+"/board", map[string]string{"proposition_id": p.ID})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, base+"/parlay/legs/from-board", map[string]string{"sport": "Soccer"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var legs []map[string]interface{}
	decode(t, rec, &legs)
	assert.Len(t, legs, 3)

	rec = do(t, h, http.MethodGet, base+"/parlay/legs", nil)
	decode(t, rec, &legs)
	assert.Len(t, legs, 3)
}
