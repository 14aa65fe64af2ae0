package threadkit

import "testing"

type testLogger struct {
	t *testing.T
}

func (l *testLogger) Info(msg string, args ...any) {
	l.t.Log(msg, args)
}

func (l *testLogger) Error(msg string, args ...any) {
	l.t.Log("ERROR: "+msg, args)
}

func (l *testLogger) Warn(msg string, args ...any) {
	l.t.Log("WARN: "+msg, args)
}

func (l *testLogger) Debug(msg string, args ...any) {
	l.t.Log(msg, args)
}
