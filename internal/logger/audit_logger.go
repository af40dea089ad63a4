// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for cart and ledger changes.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogSessionCreated logs a new session.
func (al *AuditLogger) LogSessionCreated(sessionID string, createdAt time.Time) {
	al.WithFields(logrus.Fields{
		"session_id": sessionID,
		"timestamp":  createdAt.Unix(),
	}).Info("Session created")
}

// LogSessionEnded logs a session that was deleted or expired.
func (al *AuditLogger) LogSessionEnded(sessionID, reason string) {
	al.WithFields(logrus.Fields{
		"session_id": sessionID,
		"reason":     reason,
	}).Info("Session ended")
}

// LogLegAdded logs a leg added to a session cart.
func (al *AuditLogger) LogLegAdded(sessionID, legID, sport, description string, americanOdds, trueProbability float64) {
	al.WithFields(logrus.Fields{
		"session_id":       sessionID,
		"leg_id":           legID,
		"sport":            sport,
		"description":      description,
		"american_odds":    americanOdds,
		"true_probability": trueProbability,
	}).Info("Parlay leg added")
}

// LogLegRemoved logs a leg removed from a session cart.
func (al *AuditLogger) LogLegRemoved(sessionID, legID string) {
	al.WithFields(logrus.Fields{
		"session_id": sessionID,
		"leg_id":     legID,
	}).Info("Parlay leg removed")
}

// LogCartCleared logs a cleared cart.
func (al *AuditLogger) LogCartCleared(sessionID string, legs int) {
	al.WithFields(logrus.Fields{
		"session_id": sessionID,
		"legs":       legs,
	}).Info("Parlay cart cleared")
}

// LogTrackerRecorded logs a tracker ledger entry.
func (al *AuditLogger) LogTrackerRecorded(entryID, sessionID string, legCount, americanOdds int, evPercent float64, tier string) {
	al.WithFields(logrus.Fields{
		"entry_id":      entryID,
		"session_id":    sessionID,
		"leg_count":     legCount,
		"american_odds": americanOdds,
		"ev_percent":    evPercent,
		"tier":          tier,
	}).Info("Tracker entry recorded")
}
