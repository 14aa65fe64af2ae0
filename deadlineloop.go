package threadkit

import (
	"container/heap"
	"sync"
	"time"
)

// timeHeap is a min-heap of distinct deadlines, used to find the earliest
// key in a DeadlineLoop's or TimerLoop's bucket map without scanning it.
type timeHeap []time.Time

func (h timeHeap) Len() int            { return len(h) }
func (h timeHeap) Less(i, j int) bool  { return h[i].Before(h[j]) }
func (h timeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *timeHeap) Push(x interface{}) { *h = append(*h, x.(time.Time)) }
func (h *timeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// waitUntil blocks on cond, which must already be locked, until either
// Broadcast/Signal is called or deadline passes, whichever comes first.
// Go's sync.Cond has no native timed wait, so this arms a one-shot timer
// that broadcasts on expiry and stops it once Wait returns.
func waitUntil(cond *sync.Cond, deadline time.Time) {
	d := time.Until(deadline)
	if d <= 0 {
		return
	}
	timer := time.AfterFunc(d, func() {
		cond.L.Lock()
		cond.Broadcast()
		cond.L.Unlock()
	})
	cond.Wait()
	timer.Stop()
}

// DeadlineLoop is a single dispatcher that invokes arbitrary Actions at
// chosen absolute time points. TimerLoop is built on the same algorithm
// with an additional side-index from timer id to deadline enabling
// restart/remove by id; see timerloop.go.
type DeadlineLoop struct {
	mu            sync.Mutex
	cond          *sync.Cond
	buckets       map[time.Time][]Action
	keys          timeHeap
	nextExecution time.Time
	running       bool
	logger        Logger

	wg sync.WaitGroup
}

// NewDeadlineLoop constructs a stopped DeadlineLoop.
func NewDeadlineLoop(logger Logger) *DeadlineLoop {
	d := &DeadlineLoop{
		buckets: make(map[time.Time][]Action),
		logger:  logger,
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// Run starts the loop's single worker goroutine.
func (d *DeadlineLoop) Run() {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	d.wg.Add(1)
	go d.loop()
}

// Invoke schedules action to run at deadline. Actions queued at the same
// deadline fire in submission order; actions at distinct deadlines fire
// in deadline order.
func (d *DeadlineLoop) Invoke(action Action, deadline time.Time) {
	d.mu.Lock()
	_, exists := d.buckets[deadline]
	if !exists {
		heap.Push(&d.keys, deadline)
	}
	if len(d.buckets) == 0 || deadline.Before(d.nextExecution) {
		d.nextExecution = deadline
	}
	d.buckets[deadline] = append(d.buckets[deadline], action)
	d.mu.Unlock()
	d.cond.Broadcast()
}

// Workload returns the number of actions currently queued across every
// deadline bucket. Not part of the original design's surface, but a
// natural extension shared with the pools for the status API.
func (d *DeadlineLoop) Workload() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := 0
	for _, bucket := range d.buckets {
		total += len(bucket)
	}
	return total
}

// Running reports whether the loop's worker is active.
func (d *DeadlineLoop) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Interrupt stops the loop: sets running false, wakes the worker, and
// joins it. Already-popped actions finish running, and actions whose
// deadline has already passed are still dispatched before the worker
// exits; actions with a deadline still in the future are never dispatched.
func (d *DeadlineLoop) Interrupt() {
	d.mu.Lock()
	d.running = false
	d.mu.Unlock()
	d.cond.Broadcast()
	d.wg.Wait()
}

func (d *DeadlineLoop) loop() {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		if !d.running && len(d.buckets) == 0 {
			d.mu.Unlock()
			return
		}
		calls, ok := d.trigger()
		if !ok {
			if !d.running {
				d.mu.Unlock()
				return
			}
			d.mu.Unlock()
			continue
		}
		d.mu.Unlock()

		for _, action := range calls {
			action()
		}
	}
}

// trigger runs one step of the dispatcher algorithm. Caller must hold
// d.mu locked on entry; it is still locked on return. ok is false when
// the step produced nothing to run (empty map, spurious wake, or the
// loop was asked to stop).
func (d *DeadlineLoop) trigger() (calls []Action, ok bool) {
	if len(d.buckets) == 0 {
		for len(d.buckets) == 0 && d.running {
			d.cond.Wait()
		}
	} else {
		for d.running && time.Now().Before(d.nextExecution) {
			waitUntil(d.cond, d.nextExecution)
		}
	}

	if len(d.buckets) == 0 {
		return nil, false
	}
	if time.Now().Before(d.nextExecution) {
		return nil, false
	}

	earliest := d.keys[0]
	calls = d.buckets[earliest]
	delete(d.buckets, earliest)
	heap.Pop(&d.keys)
	if len(d.keys) > 0 {
		d.nextExecution = d.keys[0]
	}
	return calls, true
}
