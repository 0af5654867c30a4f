// Package logger builds the zap loggers used by sessions, tests and the tour.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewConsole returns a development-style console logger on stdout.
func NewConsole(level zapcore.Level) *zap.Logger {
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stdout),
		level,
	)
	return zap.New(consoleCore)
}

// NewTest returns a debug-level console logger for tests.
func NewTest() *zap.Logger {
	return NewConsole(zap.DebugLevel)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// Sync flushes l, reporting a failed flush through l itself.
func Sync(l *zap.Logger) {
	if err := l.Sync(); err != nil {
		l.Warn("failed to sync logger", zap.Error(err))
	}
}
