package threadkit

import "sync"

// Change carries the old and new value of an Attribute at the moment of a
// successful Set.
type Change[T any] struct {
	Old T
	New T
}

// Attribute holds a current value and an Event of its changes. Every
// externally visible value change (old != new) is followed by exactly one
// notification carrying (old, new); Set with an unchanged value emits
// nothing. T must be comparable so Set can detect a no-op write.
type Attribute[T comparable] struct {
	mu      sync.Mutex
	current T
	changed *Event[Change[T]]
}

// NewAttribute constructs an Attribute holding initial.
func NewAttribute[T comparable](initial T) *Attribute[T] {
	return &Attribute[T]{current: initial, changed: NewEvent[Change[T]]()}
}

// Value returns the current value.
func (a *Attribute[T]) Value() T {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Set stores v if it differs from the current value, then notifies
// subscribers with (old, new). The store happens before the notification.
func (a *Attribute[T]) Set(v T) {
	a.mu.Lock()
	old := a.current
	if old == v {
		a.mu.Unlock()
		return
	}
	a.current = v
	a.mu.Unlock()

	a.changed.Notify(Change[T]{Old: old, New: v})
}

// Subscribe registers fn to be called on every future change.
func (a *Attribute[T]) Subscribe(fn Listener[Change[T]]) *Subscription {
	return a.changed.Subscribe(fn)
}

// SubscribeAndGet invokes fn synchronously with (current, current) before
// wiring the subscription, so a new subscriber always observes the value
// that was current at subscribe time without a separate initial read.
func (a *Attribute[T]) SubscribeAndGet(fn Listener[Change[T]]) *Subscription {
	fn(Change[T]{Old: a.Value(), New: a.Value()})
	return a.changed.Subscribe(fn)
}
