// Package api exposes the calculator over a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/moneyball/internal/config"
	"github.com/yourusername/moneyball/internal/health"
	"github.com/yourusername/moneyball/internal/metrics"
	"github.com/yourusername/moneyball/internal/service"
)

// Server is the HTTP front end for the calculator
type Server struct {
	calc       *service.Calculator
	health     *health.Checker
	logger     *logrus.Logger
	cfg        *config.Config
	router     chi.Router
	httpServer *http.Server
}

// NewServer builds the router and HTTP server from configuration
func NewServer(cfg *config.Config, calc *service.Calculator, checker *health.Checker, logger *logrus.Logger) *Server {
	s := &Server{
		calc:   calc,
		health: checker,
		logger: logger,
		cfg:    cfg,
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddress(),
		Handler:      s.router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	h := &handler{calc: s.calc, logger: s.logger}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(corsOptions(s.cfg.Server.AllowedOrigins)))

	s.health.Register(r)
	if s.cfg.Metrics.Enabled {
		r.Handle(s.cfg.Metrics.Path, metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(time.Duration(s.cfg.Server.WriteTimeoutSeconds) * time.Second))
		if s.cfg.Server.RateLimitPerSecond > 0 {
			r.Use(newClientLimiter(s.cfg.Server.RateLimitPerSecond, s.cfg.Server.RateLimitBurst).Middleware)
		}

		r.Post("/odds/convert", h.convertOdds)
		r.Post("/ev", h.quote)
		r.Post("/simulate/{sport}", h.simulate)

		r.Post("/sessions", h.createSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Delete("/", h.deleteSession)
			r.Post("/simulate/{sport}", h.simulate)

			r.Get("/board", h.listPlays)
			r.Post("/board", h.savePlay)
			r.Delete("/board/{playID}", h.removePlay)

			r.Get("/parlay", h.parlay)
			r.Post("/parlay/soccer", h.soccerParlay)
			r.Get("/parlay/legs", h.listLegs)
			r.Post("/parlay/legs", h.addLeg)
			r.Post("/parlay/legs/from-board", h.addBoardLegs)
			r.Delete("/parlay/legs", h.clearLegs)
			r.Delete("/parlay/legs/{legID}", h.removeLeg)

			r.Post("/tracker", h.recordTracker)
		})

		r.Get("/tracker", h.listTracker)
		r.Get("/tracker/{entryID}", h.getTracker)
	})

	return r
}

func corsOptions(origins []string) cors.Options {
	allowCredentials := true
	for _, o := range origins {
		if o == "*" {
			allowCredentials = false
		}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	}
}

// ListenAndServe serves until Shutdown is called
func (s *Server) ListenAndServe() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("API server starting")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("API server shutting down")
	return s.httpServer.Shutdown(ctx)
}
