package pipeline

import (
	"sync"

	"go.uber.org/zap"

	"github.com/LasCondes/ilstringpatcher/decoder"
	"github.com/LasCondes/ilstringpatcher/rewrite"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the pipeline package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the pipeline package's logger and propagates it to
// the component packages, giving a multi-package run a single point of
// logger configuration.
func SetLogger(l *zap.Logger) {
	logger = l
	decoder.SetLogger(l)
	rewrite.SetLogger(l)
}
