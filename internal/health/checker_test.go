package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDatabase struct{ err error }

func (f fakeDatabase) HealthCheck(ctx context.Context) error { return f.err }

type fakeSessions int

func (f fakeSessions) Count() int { return int(f) }

func serve(t *testing.T, c *Checker, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	c.Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndLive(t *testing.T) {
	c := NewChecker(Config{ServiceName: "moneyball", Version: "1.2.0"})

	for _, path := range []string{"/health", "/live"} {
		rec := serve(t, c, path)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var body HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "moneyball", body.Service)
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		db         DatabaseChecker
		wantStatus int
		wantChecks map[string]string
	}{
		{
			name:       "not marked ready",
			ready:      false,
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"service": "not_ready", "database": "disabled", "sessions": "2 active"},
		},
		{
			name:       "ready without database",
			ready:      true,
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"service": "ok", "database": "disabled", "sessions": "2 active"},
		},
		{
			name:       "database down",
			ready:      true,
			db:         fakeDatabase{err: errors.New("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"service": "ok", "database": "error: connection refused", "sessions": "2 active"},
		},
		{
			name:       "database up",
			ready:      true,
			db:         fakeDatabase{},
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"service": "ok", "database": "ok", "sessions": "2 active"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker(Config{ServiceName: "moneyball", DB: tt.db, Sessions: fakeSessions(2)})
			c.SetReady(tt.ready)

			rec := serve(t, c, "/ready")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ReadyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantChecks, body.Checks)
		})
	}
}
