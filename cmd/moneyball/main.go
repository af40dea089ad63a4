// Package main provides the moneyball command line: the HTTP service and
// one-shot odds, simulator and parlay calculations.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/moneyball/internal/config"
	"github.com/yourusername/moneyball/internal/logger"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile   string
	outputFormat string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "moneyball",
		Short:         "Betting probability calculator",
		Long:          `Converts odds, runs per-sport probability models, prices propositions against sportsbook odds and combines legs into parlays.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	root.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json or yaml")

	root.AddCommand(newServeCmd())
	root.AddCommand(newOddsCmd())
	root.AddCommand(newSimulateCmd())
	root.AddCommand(newParlayCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when it is absent.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// cliLogger is quiet unless the config asks for debug output
func cliLogger(cfg *config.Config) *logrus.Logger {
	level := "warn"
	if cfg.App.LogLevel == "debug" {
		level = "debug"
	}
	return logger.New(os.Stderr, level, cfg.App.LogFormat)
}
