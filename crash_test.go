package threadkit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCrashExecutorInvokeReturnsNormallyWithoutPanic(t *testing.T) {
	exec := NewCrashExecutor(nil)
	ran := false

	require.NotPanics(t, func() {
		exec.Invoke(func() { ran = true })
	})
	require.True(t, ran)
}

func TestCrashExecutorInvokeCapturesOnePanic(t *testing.T) {
	exec := NewCrashExecutor(nil)
	var captured []CrashInfo
	exec.CrashEvent().Subscribe(func(info CrashInfo) {
		captured = append(captured, info)
	})

	require.NotPanics(t, func() {
		exec.Invoke(func() { panic("boom") })
	})

	require.Len(t, captured, 1)
	require.Error(t, captured[0].Err)
	require.NotEmpty(t, captured[0].Stack)
}
