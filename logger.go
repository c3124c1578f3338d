package libwebp

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the package logger. It is a no-op logger unless SetLogger
// was called.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// SetLogger configures the package logger. Resolution is logged only if
// this is called before the first call into the package.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}
