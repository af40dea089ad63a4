// Package health serves the liveness and readiness endpoints.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// DatabaseChecker reports whether the database is reachable and usable.
type DatabaseChecker interface {
	HealthCheck(ctx context.Context) error
}

// SessionCounter reports how many sessions are live
type SessionCounter interface {
	Count() int
}

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Checker answers health probes for the API server.
type Checker struct {
	serviceName string
	version     string
	commit      string
	logger      *logrus.Logger
	db          DatabaseChecker
	sessions    SessionCounter
	mu          sync.RWMutex
	ready       bool
}

// Config holds the configuration for the health checker.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Logger      *logrus.Logger
	DB          DatabaseChecker
	Sessions    SessionCounter
}

// NewChecker creates a health checker. It starts not ready.
func NewChecker(cfg Config) *Checker {
	return &Checker{
		serviceName: cfg.ServiceName,
		version:     cfg.Version,
		commit:      cfg.Commit,
		logger:      cfg.Logger,
		db:          cfg.DB,
		sessions:    cfg.Sessions,
	}
}

// SetReady marks the service as ready to accept traffic.
func (c *Checker) SetReady(ready bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ready = ready
}

// IsReady returns whether the service is ready.
func (c *Checker) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Register mounts /health, /ready and /live on r
func (c *Checker) Register(r chi.Router) {
	r.Get("/health", c.handleHealth)
	r.Get("/ready", c.handleReady)
	r.Get("/live", c.handleLive)
}

// handleHealth handles the /health endpoint - basic liveness check.
func (c *Checker) handleHealth(w http.ResponseWriter, r *http.Request) {
	c.write(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   c.serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   c.version,
		Commit:    c.commit,
	})
}

// handleLive handles the /live endpoint - kubernetes liveness probe.
func (c *Checker) handleLive(w http.ResponseWriter, r *http.Request) {
	c.write(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: c.serviceName,
	})
}

// handleReady handles the /ready endpoint - checks database connectivity.
func (c *Checker) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := make(map[string]string)
	allHealthy := true

	if !c.IsReady() {
		allHealthy = false
		checks["service"] = "not_ready"
	} else {
		checks["service"] = "ok"
	}

	if c.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := c.db.HealthCheck(ctx); err != nil {
			allHealthy = false
			checks["database"] = fmt.Sprintf("error: %v", err)
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "disabled"
	}

	if c.sessions != nil {
		checks["sessions"] = fmt.Sprintf("%d active", c.sessions.Count())
	}

	response := ReadyResponse{
		Service:  c.serviceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}

	status := http.StatusOK
	if allHealthy {
		response.Status = "ok"
	} else {
		response.Status = "not_ready"
		status = http.StatusServiceUnavailable
	}
	c.write(w, status, response)
}

func (c *Checker) write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil && c.logger != nil {
		c.logger.WithError(err).Warn("Failed to write health response")
	}
}
