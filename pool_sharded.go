package threadkit

import (
	"sync"
	"sync/atomic"
)

// shard is a single worker plus its private FIFO in a ShardedQueuePool.
type shard struct {
	mu           sync.Mutex
	cond         *sync.Cond
	queue        []Action
	running      bool
	interruptNow bool
	done         chan struct{}

	// crashEvent is long-lived for the shard's entire life, surviving
	// across whatever worker goroutine currently backs it. Each worker's
	// own CrashExecutor forwards its (ephemeral, per-invocation) crash
	// notification onto this event; each worker also subscribes the pool's
	// redirection handler here and unsubscribes it when the worker exits.
	crashEvent *Event[CrashInfo]
}

func newShard() *shard {
	s := &shard{crashEvent: NewEvent[CrashInfo](), done: make(chan struct{})}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// ShardedQueuePool is a fixed-size worker pool in which each worker owns
// its own FIFO queue. Submissions are distributed round-robin. When a
// worker crashes, its shard's undrained queue is redistributed to the
// remaining live shards rather than lost — the pool's one interesting
// piece of fault tolerance.
type ShardedQueuePool struct {
	shards []*shard
	cursor uint64
	live   int64
	logger Logger

	wg sync.WaitGroup
}

// NewShardedQueuePool constructs a pool of n shards. n must be at least 1.
func NewShardedQueuePool(n int, logger Logger) *ShardedQueuePool {
	p := &ShardedQueuePool{logger: logger}
	for i := 0; i < n; i++ {
		p.shards = append(p.shards, newShard())
	}
	return p
}

// Run starts every shard's worker, returning once all have started.
func (p *ShardedQueuePool) Run() {
	started := make(chan struct{})
	for _, s := range p.shards {
		s.mu.Lock()
		s.running = true
		s.interruptNow = false
		s.done = make(chan struct{})
		s.mu.Unlock()

		p.wg.Add(1)
		atomic.AddInt64(&p.live, 1)
		go p.shardWorker(s, started)
	}
	for range p.shards {
		<-started
	}
}

// Submit computes i = cursor.fetch_add(1) mod N and enqueues on shard i if
// it is running. If shard i is not running, Submit re-dispatches
// (tail-recursively) to the next shard in round-robin order until it
// finds a running shard, or drops the submission once every shard has
// been tried and none is running.
//
// A submission racing Interrupt may be enqueued on a shard just before
// that shard stops running; a soft Interrupt still drains it, while
// InterruptNow leaves it unrun. This race is accepted, not eliminated.
func (p *ShardedQueuePool) Submit(action Action) {
	p.submit(action, 0)
}

func (p *ShardedQueuePool) submit(action Action, attempts int) {
	n := len(p.shards)
	if attempts >= n {
		return
	}
	i := int(atomic.AddUint64(&p.cursor, 1)-1) % n
	s := p.shards[i]

	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		p.submit(action, attempts+1)
		return
	}
	s.queue = append(s.queue, action)
	s.mu.Unlock()
	s.cond.Signal()
}

// Workload returns the sum, over every shard, of its queue length.
func (p *ShardedQueuePool) Workload() int {
	total := 0
	for _, s := range p.shards {
		s.mu.Lock()
		total += len(s.queue)
		s.mu.Unlock()
	}
	return total
}

// Running reports true iff any shard is currently running.
func (p *ShardedQueuePool) Running() bool {
	for _, s := range p.shards {
		s.mu.Lock()
		running := s.running
		s.mu.Unlock()
		if running {
			return true
		}
	}
	return false
}

// Interrupt soft-stops each shard sequentially: sets running:false,
// broadcasts, and joins that shard's worker before moving to the next.
// Already-queued work on each shard is drained before that shard's
// worker exits.
func (p *ShardedQueuePool) Interrupt() {
	for _, s := range p.shards {
		p.interruptShard(s, false)
	}
}

// InterruptNow is like Interrupt, but each shard's worker discards its
// undrained queue instead of finishing it.
func (p *ShardedQueuePool) InterruptNow() {
	for _, s := range p.shards {
		p.interruptShard(s, true)
	}
}

func (p *ShardedQueuePool) interruptShard(s *shard, now bool) {
	s.mu.Lock()
	s.running = false
	if now {
		s.interruptNow = true
	}
	s.mu.Unlock()
	s.cond.Broadcast()
	<-s.done
}

// Join waits for every shard's worker to exit.
func (p *ShardedQueuePool) Join() {
	p.wg.Wait()
}

func (p *ShardedQueuePool) shardWorker(s *shard, started chan struct{}) {
	defer p.wg.Done()
	defer close(s.done)

	executor := NewCrashExecutor(p.logger)
	forward := executor.CrashEvent().Subscribe(func(info CrashInfo) {
		s.crashEvent.Notify(info)
	})
	defer forward.Unsubscribe()

	redirect := s.crashEvent.Subscribe(func(info CrashInfo) {
		p.onShardCrash(s, info)
	})
	defer redirect.Unsubscribe()

	started <- struct{}{}

	for {
		s.mu.Lock()
		for len(s.queue) == 0 && s.running {
			s.cond.Wait()
		}
		interruptNow := s.interruptNow
		if len(s.queue) == 0 || interruptNow {
			s.mu.Unlock()
			return
		}
		action := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		executor.Invoke(action)
	}
}

// onShardCrash runs under no external lock (Event.Notify calls listeners
// unlocked); it decrements the atomic live counter, then acquires the
// shard's own lock to stop the shard and drain its remaining queue for
// redistribution. When no live worker remains, the shard is stopped with
// its queue left in place and nothing is redistributed.
func (p *ShardedQueuePool) onShardCrash(s *shard, info CrashInfo) {
	remaining := atomic.AddInt64(&p.live, -1)
	if p.logger != nil {
		p.logger.Error("shard worker crashed", "error", info.Err, "live", remaining)
	}
	if remaining <= 0 {
		s.mu.Lock()
		s.running = false
		s.interruptNow = true
		s.mu.Unlock()
		s.cond.Broadcast()
		if p.logger != nil {
			p.logger.Error("all shard workers dead, pool idle", "workload", p.Workload())
		}
		return
	}

	s.mu.Lock()
	s.running = false
	pending := s.queue
	s.queue = nil
	s.mu.Unlock()
	s.cond.Broadcast()

	for _, action := range pending {
		p.Submit(action)
	}
}
