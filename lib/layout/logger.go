package layout

import (
	"sync"

	"go.uber.org/zap"
)

var (
	loggerMu sync.Mutex
	logger   = zap.NewNop()
)

// Logger returns the package logger. It is a no-op logger unless SetLogger
// has been called, so library users pay nothing for diagnostics they did not
// ask for.
func Logger() *zap.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	return logger
}

// SetLogger routes the package's diagnostics, including the geometry summary
// printed by Create, to l. Redirecting or dropping this output has no effect
// on correctness.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
