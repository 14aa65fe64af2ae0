package threadkit

import (
	"container/heap"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TimerLoop drives a collection of named, restartable, possibly periodic
// Timers from a single worker goroutine, using the same wait/wake
// algorithm as DeadlineLoop. It additionally maintains a side-index from
// timer id to its current bucket key, so Restart and Remove can locate a
// scheduled timer without scanning every bucket.
//
// The reference design stages re-planning through a pair of fields
// (temp_next/next) so a mutator doesn't need to know whether the worker
// is currently parked. This implementation takes the simplification the
// design notes explicitly invite instead: every mutation pushes its new
// deadline onto the heap and broadcasts, and the worker always re-reads
// the current earliest live key after waking, rather than trusting a
// staged value.
type TimerLoop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	buckets map[time.Time][]*Timer
	index   map[uuid.UUID]time.Time
	keys    timeHeap
	running bool
	logger  Logger

	wg sync.WaitGroup
}

// NewTimerLoop constructs a stopped TimerLoop.
func NewTimerLoop(logger Logger) *TimerLoop {
	l := &TimerLoop{
		buckets: make(map[time.Time][]*Timer),
		index:   make(map[uuid.UUID]time.Time),
		logger:  logger,
	}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Run starts the loop's single worker goroutine.
func (l *TimerLoop) Run() {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.mu.Unlock()

	l.wg.Add(1)
	go l.loop()
}

// Running reports whether the loop's worker is active.
func (l *TimerLoop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Workload returns the number of timers currently scheduled.
func (l *TimerLoop) Workload() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.index)
}

// Interrupt stops the loop, waking and joining its worker.
func (l *TimerLoop) Interrupt() {
	l.mu.Lock()
	l.running = false
	l.mu.Unlock()
	l.cond.Broadcast()
	l.wg.Wait()
}

// add schedules timer to fire after d from now. Called by Timer.Start,
// Timer.StartPeriodic and Timer.Restart, and by Timer.invoke on the loop's
// worker to re-arm a periodic timer.
func (l *TimerLoop) add(timer *Timer, d time.Duration) {
	tp := time.Now().Add(d)

	l.mu.Lock()
	if _, exists := l.buckets[tp]; !exists {
		heap.Push(&l.keys, tp)
	}
	l.buckets[tp] = append(l.buckets[tp], timer)
	l.index[timer.id] = tp
	l.mu.Unlock()
	l.cond.Broadcast()
}

// restart moves the timer identified by id to a new deadline of now + d.
// Returns ErrTimerNotFound if id has no scheduled entry.
func (l *TimerLoop) restart(id uuid.UUID, d time.Duration) error {
	l.mu.Lock()
	tp, ok := l.index[id]
	if !ok {
		l.mu.Unlock()
		return ErrTimerNotFound
	}
	timer := l.removeFromBucketLocked(id, tp)
	if timer == nil {
		l.mu.Unlock()
		return ErrTimerNotFound
	}

	tp2 := time.Now().Add(d)
	if _, exists := l.buckets[tp2]; !exists {
		heap.Push(&l.keys, tp2)
	}
	l.buckets[tp2] = append(l.buckets[tp2], timer)
	l.index[id] = tp2
	l.mu.Unlock()
	l.cond.Broadcast()
	return nil
}

// remove cancels the scheduled entry for id. Returns ErrTimerNotFound if
// id has no scheduled entry.
func (l *TimerLoop) remove(id uuid.UUID) error {
	l.mu.Lock()
	tp, ok := l.index[id]
	if !ok {
		l.mu.Unlock()
		return ErrTimerNotFound
	}
	if l.removeFromBucketLocked(id, tp) == nil {
		l.mu.Unlock()
		return ErrTimerNotFound
	}
	l.mu.Unlock()
	l.cond.Broadcast()
	return nil
}

// removeFromBucketLocked deletes timer id from buckets[tp] and from
// index, pruning the bucket if it becomes empty. Caller holds l.mu. The
// heap itself is not pruned eagerly — stale keys are skipped lazily by
// currentMinLocked, since container/heap has no cheap arbitrary-element
// removal.
func (l *TimerLoop) removeFromBucketLocked(id uuid.UUID, tp time.Time) *Timer {
	list := l.buckets[tp]
	var found *Timer
	for i, t := range list {
		if t.id == id {
			found = t
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if found == nil {
		return nil
	}
	if len(list) == 0 {
		delete(l.buckets, tp)
	} else {
		l.buckets[tp] = list
	}
	delete(l.index, id)
	return found
}

// currentMinLocked returns the earliest key with a live bucket, discarding
// stale heap entries left behind by restart/remove along the way. Caller
// holds l.mu.
func (l *TimerLoop) currentMinLocked() (time.Time, bool) {
	for len(l.keys) > 0 {
		head := l.keys[0]
		if _, ok := l.buckets[head]; ok {
			return head, true
		}
		heap.Pop(&l.keys)
	}
	return time.Time{}, false
}

func (l *TimerLoop) loop() {
	defer l.wg.Done()
	for {
		l.mu.Lock()
		if !l.running && len(l.buckets) == 0 {
			l.mu.Unlock()
			return
		}
		timers, ok := l.trigger()
		if !ok {
			if !l.running {
				l.mu.Unlock()
				return
			}
			l.mu.Unlock()
			continue
		}
		l.mu.Unlock()

		for _, t := range timers {
			t.invoke()
		}
	}
}

// trigger runs one step of the dispatcher algorithm. Caller holds l.mu on
// entry and on return.
func (l *TimerLoop) trigger() (timers []*Timer, ok bool) {
	next, has := l.currentMinLocked()
	if !has {
		for !has && l.running {
			l.cond.Wait()
			next, has = l.currentMinLocked()
		}
	} else {
		for l.running && time.Now().Before(next) {
			waitUntil(l.cond, next)
			next, has = l.currentMinLocked()
			if !has {
				break
			}
		}
	}

	next, has = l.currentMinLocked()
	if !has {
		return nil, false
	}
	if time.Now().Before(next) {
		return nil, false
	}

	timers = l.buckets[next]
	delete(l.buckets, next)
	for _, t := range timers {
		delete(l.index, t.id)
	}
	return timers, true
}
