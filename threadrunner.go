package threadkit

import "sync"

// ThreadRunner is a convenience wrapper around a single named goroutine
// whose body runs under a CrashExecutor. Run subscribes the caller's
// on-crash callback only for the duration of that particular invocation,
// and releases the subscription once the goroutine's body returns.
type ThreadRunner struct {
	executor *CrashExecutor

	mu   sync.Mutex
	wg   sync.WaitGroup
	name string
}

// NewThreadRunner constructs a ThreadRunner identified by name. The name
// is stored but not read by any method.
func NewThreadRunner(name string, logger Logger) *ThreadRunner {
	return &ThreadRunner{executor: NewCrashExecutor(logger), name: name}
}

// Run starts runFn on a fresh goroutine under crash isolation. If a
// previously started goroutine is still running, Run joins it first. The
// onCrash callback, if non-nil, is subscribed to the executor's crash
// event before runFn starts and unsubscribed once runFn returns.
func (r *ThreadRunner) Run(runFn func(), onCrash func(CrashInfo)) {
	r.mu.Lock()
	r.wg.Wait() // join a previous still-joinable goroutine, if any
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()

		var sub *Subscription
		if onCrash != nil {
			sub = r.executor.CrashEvent().Subscribe(onCrash)
			defer sub.Unsubscribe()
		}
		r.executor.Invoke(runFn)
	}()
}

// Join waits for the current goroutine, if any, to finish.
func (r *ThreadRunner) Join() {
	r.wg.Wait()
}

// CrashEvent returns the underlying CrashExecutor's crash Event, for
// callers that want a standing subscription spanning multiple Run calls
// rather than a single onCrash passed per call.
func (r *ThreadRunner) CrashEvent() *Event[CrashInfo] {
	return r.executor.CrashEvent()
}
