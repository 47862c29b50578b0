package diagnostics

import (
	"go.uber.org/zap"
)

// Logger wraps a *zap.SugaredLogger with a fixed "component" field, the
// same role the teacher's hand-rolled prefixed Logger played, but backed
// by structured logging instead of fmt.Fprintf.
type Logger struct {
	sugar *zap.SugaredLogger
}

// NewLogger builds a development-mode zap logger tagged with component.
// Production callers should use NewLoggerFrom with a *zap.Logger built
// from their own config instead.
func NewLogger(component string) *Logger {
	base, err := zap.NewDevelopment()
	if err != nil {
		base = zap.NewNop()
	}
	return NewLoggerFrom(base, component)
}

func NewLoggerFrom(base *zap.Logger, component string) *Logger {
	return &Logger{sugar: base.Sugar().With("component", component)}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// WithSession returns a child Logger that tags every line with a
// compile-session id, so that logs from concurrent or sequential
// compiles in one process can be told apart.
func (l *Logger) WithSession(sessionID string) *Logger {
	return &Logger{sugar: l.sugar.With("session", sessionID)}
}

func (l *Logger) Sync() error {
	return l.sugar.Desugar().Sync()
}
