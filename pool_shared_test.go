package threadkit

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSharedQueuePoolSumUnderContention(t *testing.T) {
	pool := NewSharedQueuePool(4, nil)
	pool.Run()

	var v int64
	for i := 0; i < 1000; i++ {
		pool.Submit(func() { atomic.AddInt64(&v, 100000) })
		pool.Submit(func() { atomic.AddInt64(&v, -100000) })
	}

	pool.Interrupt()
	pool.Join()

	require.Zero(t, atomic.LoadInt64(&v))
	require.Zero(t, pool.Workload())
}

func TestSharedQueuePoolEveryActionRunsExactlyOnce(t *testing.T) {
	pool := NewSharedQueuePool(3, nil)
	pool.Run()

	const k = 500
	var count int64
	for i := 0; i < k; i++ {
		pool.Submit(func() { atomic.AddInt64(&count, 1) })
	}
	pool.Interrupt()
	pool.Join()

	require.EqualValues(t, k, atomic.LoadInt64(&count))
}

func TestSharedQueuePoolIgnoresSubmitAfterInterrupt(t *testing.T) {
	pool := NewSharedQueuePool(2, nil)
	pool.Run()
	pool.Interrupt()
	pool.Join()

	var ran int32
	pool.Submit(func() { atomic.AddInt32(&ran, 1) })

	require.False(t, pool.Running())
	require.Zero(t, atomic.LoadInt32(&ran))
}

func TestSharedQueuePoolRunningReflectsLifecycle(t *testing.T) {
	pool := NewSharedQueuePool(1, nil)
	require.False(t, pool.Running())
	pool.Run()
	require.True(t, pool.Running())
	pool.Interrupt()
	require.False(t, pool.Running())
}
