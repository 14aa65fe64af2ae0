package zaplogger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestLoggerImplementsInterface(t *testing.T) {
	l := New(zaptest.NewLogger(t))
	require.NotPanics(t, func() {
		l.Info("starting", "workers", 4)
		l.Warn("unknown timer", "id", "abc")
		l.Error("crash captured", "error", "boom")
		l.Debug("tick")
	})
}
