package octree

import "go.uber.org/zap"

// Logger is the injectable log collaborator. Construction warnings and
// add-overflow errors are sent through it; a nil Logger is replaced by a
// no-op so messages are simply discarded.
type Logger interface {
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// ZapLogger adapts a *zap.SugaredLogger to the Logger interface.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps an existing zap logger for use as the tree's
// log collaborator.
func NewZapLogger(l *zap.SugaredLogger) *ZapLogger {
	return &ZapLogger{sugar: l}
}

func (z *ZapLogger) Warnf(format string, args ...interface{}) {
	z.sugar.Warnf(format, args...)
}

func (z *ZapLogger) Errorf(format string, args ...interface{}) {
	z.sugar.Errorf(format, args...)
}
