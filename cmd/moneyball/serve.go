package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/moneyball/internal/api"
	"github.com/yourusername/moneyball/internal/config"
	"github.com/yourusername/moneyball/internal/database"
	"github.com/yourusername/moneyball/internal/health"
	"github.com/yourusername/moneyball/internal/logger"
	"github.com/yourusername/moneyball/internal/metrics"
	"github.com/yourusername/moneyball/internal/repository"
	"github.com/yourusername/moneyball/internal/scheduler"
	"github.com/yourusername/moneyball/internal/service"
	"github.com/yourusername/moneyball/internal/session"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Load AWS secrets if enabled
	secretsCtx, cancelSecrets := context.WithTimeout(parent, 10*time.Second)
	err = config.ApplySecrets(secretsCtx, cfg)
	cancelSecrets()
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := config.ValidateEnvironment(cfg); err != nil {
		return err
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Moneyball starting")

	metrics.InitRegistry()

	var (
		repos *repository.Repositories
		db    *database.DB
	)
	if cfg.Database.Enabled {
		dbCtx, cancel := context.WithTimeout(parent, 15*time.Second)
		db, err = database.Initialize(dbCtx, cfg)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if repos, err = repository.NewRepositories(db); err != nil {
			return err
		}
		appLog.Info("Tracker ledger using PostgreSQL")
	} else {
		repos = repository.NewMemoryRepositories()
		appLog.Info("Database disabled; tracker ledger kept in memory")
	}

	store := session.NewStore(cfg.SessionTTL(), cfg.Session.MaxSessions)
	calc := service.NewCalculator(cfg.TierSet(), store, repos.Tracker, appLog)

	hc := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
		Sessions:    store,
	}
	if db != nil {
		hc.DB = db
	}
	checker := health.NewChecker(hc)

	sched := scheduler.NewScheduler(calc, appLog)
	if err := sched.ScheduleSessionSweep(cfg.Housekeeping.SessionSweepSchedule); err != nil {
		return err
	}
	if err := sched.ScheduleGaugeRefresh(cfg.Housekeeping.GaugeRefreshSchedule); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Warn("Scheduler did not stop cleanly")
		}
	}()

	server := api.NewServer(cfg, calc, checker, appLog)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	checker.SetReady(true)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	appLog.Info("Shutdown signal received")
	checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	appLog.Info("Moneyball stopped")
	return nil
}
