package threadkit

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventNotifyCallsAllListeners(t *testing.T) {
	ev := NewEvent[int]()
	var a, b int32

	ev.Subscribe(func(v int) { atomic.AddInt32(&a, int32(v)) })
	ev.Subscribe(func(v int) { atomic.AddInt32(&b, int32(v)) })

	ev.Notify(5)

	require.EqualValues(t, 5, atomic.LoadInt32(&a))
	require.EqualValues(t, 5, atomic.LoadInt32(&b))
}

func TestEventUnsubscribeRemovesListener(t *testing.T) {
	ev := NewEvent[int]()
	var calls int32
	sub := ev.Subscribe(func(int) { atomic.AddInt32(&calls, 1) })

	sub.Unsubscribe()
	ev.Notify(1)

	require.EqualValues(t, 0, atomic.LoadInt32(&calls))
	require.Equal(t, 0, ev.Len())
}

func TestEventUnsubscribeIsIdempotent(t *testing.T) {
	ev := NewEvent[int]()
	sub := ev.Subscribe(func(int) {})
	sub.Unsubscribe()
	require.NotPanics(t, func() { sub.Unsubscribe() })
}

func TestEventReassignUpdatesCallback(t *testing.T) {
	ev := NewEvent[int]()
	var first, second int32
	sub := ev.Subscribe(func(v int) { atomic.AddInt32(&first, int32(v)) })

	ev.Reassign(sub, func(v int) { atomic.AddInt32(&second, int32(v)) })
	ev.Notify(3)

	require.EqualValues(t, 0, atomic.LoadInt32(&first))
	require.EqualValues(t, 3, atomic.LoadInt32(&second))
}

func TestEventNotifyVisitsSnapshotDuringMutation(t *testing.T) {
	ev := NewEvent[int]()
	var calls int32
	var sub *Subscription
	sub = ev.Subscribe(func(int) {
		atomic.AddInt32(&calls, 1)
		sub.Unsubscribe()
	})

	ev.Notify(1)
	ev.Notify(1)

	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
}
