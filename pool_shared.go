package threadkit

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// SharedQueuePool is a fixed-size worker pool in which all workers pull
// from one shared FIFO queue. There is no ordering guarantee between
// workers: any idle worker may service the next queued Action.
type SharedQueuePool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Action
	running bool
	size    int
	live    int
	logger  Logger

	wg sync.WaitGroup

	crashSubs map[uuid.UUID]*Subscription
	crashMu   sync.Mutex
}

// NewSharedQueuePool constructs a pool with a fixed number of workers.
// size must be at least 1.
func NewSharedQueuePool(size int, logger Logger) *SharedQueuePool {
	p := &SharedQueuePool{
		size:      size,
		logger:    logger,
		crashSubs: make(map[uuid.UUID]*Subscription),
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Run transitions the pool from stopped to running and spawns size
// workers, returning once all of them have started.
func (p *SharedQueuePool) Run() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	started := make(chan struct{})
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.workerBody(started)
	}
	for i := 0; i < p.size; i++ {
		<-started
	}
}

// Submit enqueues action and wakes one waiting worker. Submissions after
// Interrupt has begun are silently ignored, matching the reference
// behavior — Submit never returns an error.
func (p *SharedQueuePool) Submit(action Action) {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.queue = append(p.queue, action)
	p.mu.Unlock()
	p.cond.Signal()
}

// Workload returns the number of actions currently queued.
func (p *SharedQueuePool) Workload() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Running reports whether the pool currently accepts submissions.
func (p *SharedQueuePool) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Interrupt performs a soft stop: it stops accepting new submissions,
// wakes every worker waiting on the queue, and waits for them to drain
// remaining work and exit before returning.
func (p *SharedQueuePool) Interrupt() {
	p.mu.Lock()
	p.running = false
	p.mu.Unlock()
	p.cond.Broadcast()
	p.wg.Wait()
}

// Join waits for all workers to exit. It is idempotent and safe to call
// again after Interrupt, or on its own from another goroutine racing
// Interrupt.
func (p *SharedQueuePool) Join() {
	p.wg.Wait()
}

func (p *SharedQueuePool) workerBody(started chan struct{}) {
	defer p.wg.Done()

	workerID := uuid.New()
	executor := NewCrashExecutor(p.logger)
	var crashed int32
	sub := executor.CrashEvent().Subscribe(func(info CrashInfo) {
		atomic.StoreInt32(&crashed, 1)
		p.onWorkerCrash(workerID, info)
	})
	p.crashMu.Lock()
	p.crashSubs[workerID] = sub
	p.crashMu.Unlock()
	defer func() {
		sub.Unsubscribe()
		p.crashMu.Lock()
		delete(p.crashSubs, workerID)
		p.crashMu.Unlock()
	}()

	p.mu.Lock()
	p.live++
	p.mu.Unlock()
	started <- struct{}{}

	// pullAndRun's own wait predicate ("queue non-empty OR not running")
	// already drains remaining work once running goes false, returning
	// false only once the queue is also empty. A crash additionally ends
	// this worker's body immediately, per the captured-crash contract —
	// the pool is not self-healing, so a dead worker simply stops pulling
	// and the remaining live workers carry on.
	for atomic.LoadInt32(&crashed) == 0 && p.pullAndRun(executor) {
	}

	p.mu.Lock()
	p.live--
	p.mu.Unlock()
}

// pullAndRun waits for a queued action or for the pool to stop, pops and
// runs it unlocked. Returns false if it returned without running anything.
func (p *SharedQueuePool) pullAndRun(executor *CrashExecutor) bool {
	p.mu.Lock()
	for len(p.queue) == 0 && p.running {
		p.cond.Wait()
	}
	if len(p.queue) == 0 {
		p.mu.Unlock()
		return false
	}
	action := p.queue[0]
	p.queue = p.queue[1:]
	p.mu.Unlock()

	executor.Invoke(action)
	return true
}

func (p *SharedQueuePool) onWorkerCrash(workerID uuid.UUID, info CrashInfo) {
	if p.logger != nil {
		p.logger.Error("worker crashed", "worker", workerID, "error", info.Err)
	}
	// No redistribution happens here, unlike ShardedQueuePool: a single
	// shared FIFO has no per-worker backlog to redistribute, so logging
	// is all this subscriber needs to do before the worker body (still
	// unwinding above this call) exits and decrements live on its own.
}
