// Package logger provides simulation-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// SimulationLogger provides dedicated logging for simulator runs and parlay pricing.
type SimulationLogger struct {
	*logrus.Entry
}

// NewSimulationLogger creates a new simulation logger.
func NewSimulationLogger(baseLogger *logrus.Logger) *SimulationLogger {
	return &SimulationLogger{
		Entry: baseLogger.WithField("component", "simulation"),
	}
}

// LogSimulation logs a completed simulator run.
func (sl *SimulationLogger) LogSimulation(sessionID, kind string, propositions, priced int, bestTier string, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"session_id":             sessionID,
		"simulator":              kind,
		"propositions":           propositions,
		"priced":                 priced,
		"best_tier":              bestTier,
		"simulation_duration_ms": durationMs,
	}).Info("Simulation completed")
}

// LogInputRejected logs a form that failed validation.
func (sl *SimulationLogger) LogInputRejected(sessionID, kind string, fields []string) {
	sl.WithFields(logrus.Fields{
		"session_id": sessionID,
		"simulator":  kind,
		"fields":     fields,
	}).Warn("Simulation input rejected")
}

// LogParlayEvaluation logs a priced parlay.
func (sl *SimulationLogger) LogParlayEvaluation(sessionID string, legs int, trueProbability, evPercent float64, tier string, bookPrice bool) {
	sl.WithFields(logrus.Fields{
		"session_id":       sessionID,
		"legs":             legs,
		"true_probability": trueProbability,
		"ev_percent":       evPercent,
		"tier":             tier,
		"book_price":       bookPrice,
	}).Debug("Parlay evaluated")
}
