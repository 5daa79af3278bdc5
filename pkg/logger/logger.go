// Package logger wraps zap for the rest of the module. One Logger is
// built per invocation by the CLI commands package and threaded down
// through constructors; nothing here
// keeps a package-level global.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.SugaredLogger with a couple of tick-specific helpers.
type Logger struct {
	*zap.SugaredLogger
}

// New creates a new logger instance for the given level
// (debug|info|warn|error, case-insensitive) and environment
// (development|production).
func New(level, environment string) *Logger {
	var config zap.Config

	if environment == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	switch strings.ToLower(level) {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	built, err := config.Build()
	if err != nil {
		panic(err)
	}

	return &Logger{SugaredLogger: built.Sugar()}
}

// Fatal logs a message and then calls os.Exit(1).
func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Fatalw(msg, keysAndValues...)
	os.Exit(1)
}

// WithFields adds fields to the logger context.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...)}
}

// WithError adds an error field to the logger context.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With("error", err)}
}

// ForRun returns a logger tagged with the tick/weekly-report run ID, the
// way the teacher tags loggers per HTTP request.
func (l *Logger) ForRun(runID, verb string) *Logger {
	return l.WithFields(map[string]interface{}{
		"run_id": runID,
		"verb":   verb,
	})
}

// ForJob further tags a run-scoped logger with a job ID.
func (l *Logger) ForJob(jobID string) *Logger {
	return l.WithFields(map[string]interface{}{"job_id": jobID})
}

// Zap returns the underlying zap.Logger.
func (l *Logger) Zap() *zap.Logger {
	return l.SugaredLogger.Desugar()
}

// NewLogger creates a Logger from an existing zap.Logger.
func NewLogger(zapLog *zap.Logger) *Logger {
	return &Logger{SugaredLogger: zapLog.Sugar()}
}
