package threadkit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShardedQueuePoolRoundRobinAssignsShards(t *testing.T) {
	pool := NewShardedQueuePool(3, nil)

	// Mark every shard running without starting its worker, so nothing
	// drains and each submission stays on the shard Submit placed it on:
	// submission i must land on shard i mod 3.
	for _, s := range pool.shards {
		s.running = true
	}

	var mu sync.Mutex
	order := make([]int, 0, 9)
	for i := 0; i < 9; i++ {
		i := i
		pool.Submit(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
		require.Len(t, pool.shards[i%3].queue, i/3+1)
	}

	pool.Run()
	pool.Interrupt()
	pool.Join()

	require.Len(t, order, 9)
}

func TestShardedQueuePoolRedistributesDeadShardQueue(t *testing.T) {
	pool := NewShardedQueuePool(2, nil)
	pool.Run()

	var completed int64
	var crashed int32

	release := make(chan struct{})
	pool.shards[0].crashEvent.Subscribe(func(CrashInfo) {
		atomic.AddInt32(&crashed, 1)
	})

	// Target shard 0 first (cursor starts at 0), make it panic, and hold
	// the crash until a few more actions queue up behind the lock so
	// there is something to redistribute.
	pool.Submit(func() {
		<-release
		panic("boom")
	})
	pool.Submit(func() { atomic.AddInt64(&completed, 1) }) // shard 1
	pool.shards[0].mu.Lock()
	pool.shards[0].queue = append(pool.shards[0].queue, func() { atomic.AddInt64(&completed, 1) })
	pool.shards[0].mu.Unlock()

	close(release)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&crashed) == 1
	}, time.Second, time.Millisecond)

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&completed) == 2
	}, time.Second, time.Millisecond)

	pool.Interrupt()
	pool.Join()
}

func TestShardedQueuePoolWorkloadSumsShards(t *testing.T) {
	pool := NewShardedQueuePool(2, nil)
	require.Zero(t, pool.Workload())

	// Shards marked running without workers keep what is submitted:
	// three submissions split 2 + 1 across the two shards.
	for _, s := range pool.shards {
		s.running = true
	}
	for i := 0; i < 3; i++ {
		pool.Submit(func() {})
	}
	require.Equal(t, 3, pool.Workload())
}

func TestShardedQueuePoolInterruptNowDropsQueue(t *testing.T) {
	pool := NewShardedQueuePool(1, nil)
	pool.Run()

	block := make(chan struct{})
	var dropped int32
	pool.Submit(func() { <-block })
	pool.Submit(func() { atomic.AddInt32(&dropped, 1) })

	// InterruptNow joins the shard's worker, which may be blocked in the
	// first action, so it runs on its own goroutine; the first action is
	// released only once the interrupt-now flag is set.
	interrupted := make(chan struct{})
	go func() {
		pool.InterruptNow()
		close(interrupted)
	}()
	require.Eventually(t, func() bool {
		s := pool.shards[0]
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.interruptNow
	}, time.Second, time.Millisecond)
	close(block)
	<-interrupted
	pool.Join()

	require.Zero(t, atomic.LoadInt32(&dropped))
}
