package excreg

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	nopLogger = zap.NewNop()
	logger    atomic.Pointer[zap.Logger]
)

// Logger returns the excreg package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nopLogger
}

// SetLogger configures the excreg package's logger. Registries built
// without WithLogger, Default included, pick it up on their next log line.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}
