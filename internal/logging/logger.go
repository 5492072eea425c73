// Package logging builds the diagnostic logger shared by zreport packages.
//
// Diagnostics go to stderr through a zap console encoder and are handed to
// library code as a logr.Logger, so stdout stays reserved for the report.
package logging

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLevel names the environment variable that sets the default level.
const EnvLevel = "ZREPORT_LOG_LEVEL"

// Level names accepted by NewLogger.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelError = "error"
)

// NewLogger creates a logr.Logger backed by Zap at the given level
// ("debug", "info", "warn", "error"; empty means info). "trace" is accepted
// as an alias for debug.
// Returns the logger and a sync function the caller should defer.
func NewLogger(level string) (logr.Logger, func(), error) {
	zapLog, err := newZapLogger(level)
	if err != nil {
		return logr.Logger{}, nil, err
	}
	sync := func() { _ = zapLog.Sync() }
	return zapr.NewLogger(zapLog), sync, nil
}

// ResolveLevel picks the effective level: the environment wins over the
// configured value, and info is used when neither is set.
func ResolveLevel(configured string) string {
	if level := os.Getenv(EnvLevel); level != "" {
		return level
	}
	if configured != "" {
		return configured
	}
	return LevelInfo
}

func newZapLogger(level string) (*zap.Logger, error) {
	if level == "trace" {
		level = LevelDebug
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Development = false
	cfg.DisableStacktrace = true
	cfg.DisableCaller = lvl > zapcore.DebugLevel
	cfg.EncoderConfig.TimeKey = ""
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
