package threadkit

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Listener is the callback shape an Event invokes on notification.
type Listener[T any] func(T)

// Subscription is the handle returned by Event.Subscribe. Its lifetime is
// the lifetime of the subscription: calling Unsubscribe removes the
// listener from its Event immediately. If a Subscription is dropped without
// an explicit Unsubscribe, a best-effort finalizer still removes the
// listener once the Subscription is garbage collected, but code that cares
// about timely removal (ShardedQueuePool's crash redirection, for one)
// always calls Unsubscribe explicitly rather than relying on that backstop.
type Subscription struct {
	id     uint64
	event  unsubscriber
	once   sync.Once
	cancel func()
}

// unsubscriber is the narrow interface an Event exposes to its own
// Subscriptions so Subscription doesn't need to be generic over T.
type unsubscriber interface {
	unsubscribe(id uint64)
}

// Unsubscribe removes the listener from its Event. Safe to call more than
// once and safe to call concurrently with Event.Notify.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		if s.event != nil {
			s.event.unsubscribe(s.id)
		}
	})
}

// Event is a collection of listeners keyed by id; it keeps no
// subscription order, so Notify visits listeners in no defined order. Notify
// visits a snapshot of the listener set taken under the event's own lock,
// so a listener removed mid-notification (including by its own callback)
// never invalidates the visit and is simply skipped on subsequent calls.
//
// Event is safe for concurrent Subscribe/Unsubscribe/Notify from multiple
// goroutines, but per spec, pools only ever touch their own events from a
// single owning goroutine or while already holding their own lock — the
// internal locking here exists for the general case (Attribute values read
// from arbitrary caller goroutines), not because pools require it.
type Event[T any] struct {
	mu        sync.Mutex
	listeners map[uint64]Listener[T]
	nextID    uint64
}

// NewEvent constructs an empty Event.
func NewEvent[T any]() *Event[T] {
	return &Event[T]{listeners: make(map[uint64]Listener[T])}
}

// Subscribe registers fn and returns a Subscription owning its slot.
// Calling Unsubscribe reclaims the slot at once, and a subsequent Notify
// will not invoke fn; a Subscription dropped without Unsubscribe has its
// slot reclaimed only once it is garbage collected.
func (e *Event[T]) Subscribe(fn Listener[T]) *Subscription {
	id := atomic.AddUint64(&e.nextID, 1)

	e.mu.Lock()
	e.listeners[id] = fn
	e.mu.Unlock()

	sub := &Subscription{id: id, event: (*eventUnsubscriber[T])(e)}
	runtime.AddCleanup(sub, func(ev unsubscriber) {
		ev.unsubscribe(id)
	}, sub.event)
	return sub
}

// eventUnsubscriber lets *Event[T] satisfy unsubscriber without exposing T
// on Subscription itself.
type eventUnsubscriber[T any] Event[T]

func (e *eventUnsubscriber[T]) unsubscribe(id uint64) {
	(*Event[T])(e).unsubscribe(id)
}

func (e *Event[T]) unsubscribe(id uint64) {
	e.mu.Lock()
	delete(e.listeners, id)
	e.mu.Unlock()
}

// Reassign replaces the function a Subscription invokes without
// re-subscribing, preserving the listener's id. It has no effect if the
// Subscription has already been removed.
func (e *Event[T]) Reassign(sub *Subscription, fn Listener[T]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.listeners[sub.id]; ok {
		e.listeners[sub.id] = fn
	}
}

// Notify calls every currently subscribed listener with args, in an
// unspecified order. The snapshot is taken under the
// event's lock; the listeners themselves are invoked without it, so a
// listener is free to Unsubscribe or Subscribe further listeners from
// within its own callback.
func (e *Event[T]) Notify(args T) {
	e.mu.Lock()
	snapshot := make([]Listener[T], 0, len(e.listeners))
	for _, fn := range e.listeners {
		snapshot = append(snapshot, fn)
	}
	e.mu.Unlock()

	for _, fn := range snapshot {
		fn(args)
	}
}

// Len reports the number of currently subscribed listeners. Intended for
// tests and diagnostics.
func (e *Event[T]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}
