package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLevelAndFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(buf, "debug", "json")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	log = New(buf, "warn", "text")
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestNewInvalidLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(buf, "loud", "json")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	assert.Contains(t, buf.String(), "Invalid log level")
}

func TestSimulationLoggerRun(t *testing.T) {
	log, buf := setupTestLogger()
	simLogger := NewSimulationLogger(log)

	simLogger.LogSimulation("sess-1", "nfl", 3, 2, "Strong", 1.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "simulation", logEntry["component"])
	assert.Equal(t, "nfl", logEntry["simulator"])
	assert.Equal(t, float64(3), logEntry["propositions"])
}

func TestSimulationLoggerInputRejected(t *testing.T) {
	log, buf := setupTestLogger()
	simLogger := NewSimulationLogger(log)

	simLogger.LogInputRejected("sess-1", "soccer", []string{"home_matches"})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, []interface{}{"home_matches"}, logEntry["fields"])
}

func TestSimulationLoggerParlay(t *testing.T) {
	log, buf := setupTestLogger()
	simLogger := NewSimulationLogger(log)

	simLogger.LogParlayEvaluation("sess-1", 3, 0.21, 12.5, "Elite", true)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, true, logEntry["book_price"])
	assert.Equal(t, "Elite", logEntry["tier"])
}

func TestAuditLoggerLegAdded(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogLegAdded("sess-1", "ab12cd34", "NFL", "J. Allen - Over 250.5 Pass Yds", -115, 0.58)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, "ab12cd34", logEntry["leg_id"])
	assert.Equal(t, float64(-115), logEntry["american_odds"])
}

func TestAuditLoggerTrackerRecorded(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogTrackerRecorded("entry-1", "sess-1", 3, 650, 14.2, "Elite")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(650), logEntry["american_odds"])
	assert.Equal(t, "Tracker entry recorded", logEntry["msg"])
}

func TestAuditLoggerSession(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogSessionCreated("sess-1", time.Date(2024, 2, 3, 12, 0, 0, 0, time.UTC))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(1706961600), logEntry["timestamp"])
}

func BenchmarkAuditLoggerLegAdded(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	auditLogger := NewAuditLogger(log)

	for i := 0; i < b.N; i++ {
		auditLogger.LogLegAdded("sess-1", "ab12cd34", "NBA", "Over 38.5 (PRA)", -110, 0.56)
	}
}
