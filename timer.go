package threadkit

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Timer is a named, restartable, optionally periodic callback scheduled
// against a TimerLoop. Its lifecycle is a small state machine:
//
//	Idle --start--> Scheduled --fire (one-shot)--> Idle
//	Scheduled --stop--> Idle
//	Scheduled --restart--> Scheduled (new deadline)
//	Scheduled (periodic) --fire--> Scheduled
//
// The invariant is: active implies an entry for id exists in the owning
// loop's index and bucket map; inactive implies no such entries exist.
type Timer struct {
	id   uuid.UUID
	loop *TimerLoop

	mu       sync.Mutex
	fn       func()
	duration time.Duration
	active   bool
	periodic bool
}

// NewTimer constructs an idle Timer bound to loop.
func NewTimer(loop *TimerLoop) *Timer {
	return &Timer{id: uuid.New(), loop: loop}
}

// ID returns the Timer's identity, stable for its lifetime.
func (t *Timer) ID() uuid.UUID {
	return t.id
}

// Running reports whether the timer currently has a live scheduled entry.
func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Start schedules fn to run once after d. If d is negative, fn runs
// synchronously on the calling goroutine and Start returns immediately
// without touching the loop. If the timer is already active, Start is
// equivalent to updating its stored (fn, d) and restarting it.
func (t *Timer) Start(d time.Duration, fn func()) {
	if d < 0 {
		fn()
		return
	}
	t.startLocked(d, fn, false)
}

// StartPeriodic is like Start, but fn is re-armed for another d after
// each firing until Stop is called.
func (t *Timer) StartPeriodic(d time.Duration, fn func()) {
	if d < 0 {
		fn()
		return
	}
	t.startLocked(d, fn, true)
}

func (t *Timer) startLocked(d time.Duration, fn func(), periodic bool) {
	t.mu.Lock()
	wasActive := t.active
	t.fn = fn
	t.duration = d
	t.periodic = periodic
	t.active = true
	t.mu.Unlock()

	if wasActive {
		// Already scheduled: treat as a restart rather than a second
		// concurrent registration under a new deadline.
		if err := t.loop.restart(t.id, d); err == nil {
			return
		}
	}
	t.loop.add(t, d)
}

// Restart re-arms the timer using its previously stored (fn, duration).
// A Timer with no stored fn (never started, or stopped) is a no-op.
func (t *Timer) Restart() {
	t.mu.Lock()
	fn := t.fn
	d := t.duration
	periodic := t.periodic
	active := t.active
	t.mu.Unlock()

	if fn == nil {
		return
	}
	if !active {
		t.mu.Lock()
		t.active = true
		t.periodic = periodic
		t.mu.Unlock()
		t.loop.add(t, d)
		return
	}
	_ = t.loop.restart(t.id, d)
}

// Stop cancels the timer. Because of the inherent race between a worker
// already dequeuing this timer for invocation and Stop taking the loop's
// lock, a timer may still fire once after Stop returns — this is the
// documented race, not eliminated.
func (t *Timer) Stop() {
	t.mu.Lock()
	t.active = false
	t.fn = nil
	t.duration = 0
	t.mu.Unlock()

	_ = t.loop.remove(t.id)
}

// invoke is called by the owning TimerLoop's worker when the timer's
// deadline has been reached. A periodic timer is re-registered with the
// loop before fn runs, so fn calling Stop on its own timer cancels the
// freshly re-registered instance rather than the one currently firing.
func (t *Timer) invoke() {
	t.mu.Lock()
	if !t.active || t.fn == nil {
		t.mu.Unlock()
		return
	}
	fn := t.fn
	periodic := t.periodic
	d := t.duration
	t.mu.Unlock()

	if periodic {
		t.loop.add(t, d)
	} else {
		t.mu.Lock()
		t.active = false
		t.mu.Unlock()
	}

	fn()
}
