// Package zaplogger adapts go.uber.org/zap to the threadkit.Logger
// interface, giving pools, loops, and the crash executor a production
// structured-logging backend out of the box.
package zaplogger

import "go.uber.org/zap"

// Logger wraps a *zap.SugaredLogger to satisfy threadkit.Logger.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New adapts an existing *zap.Logger.
func New(l *zap.Logger) *Logger {
	return &Logger{sugar: l.Sugar()}
}

// NewProduction builds a production zap.Logger and adapts it.
func NewProduction() (*Logger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return New(l), nil
}

func (l *Logger) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

// Sync flushes any buffered log entries. Callers should defer it after
// construction.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
