package threadkit

import "errors"

// Sentinel errors returned by the explicit TimerLoop API. Submission paths
// (SharedQueuePool.Submit, ShardedQueuePool.Submit) never return an error —
// per spec, a submit after interrupt is silently ignored, matching the
// reference behavior rather than surfacing a "not running" error.
var (
	// ErrTimerNotFound is returned by the unexported TimerLoop.restart and
	// TimerLoop.remove when the given timer id has no scheduled entry; it
	// is not logged. Timer.Start, Timer.Restart and Timer.Stop absorb this
	// error themselves and never surface it.
	ErrTimerNotFound = errors.New("threadkit: timer not found")

	// ErrPoolNotRunning names the condition of a pool or loop that is not
	// running. No operation in this package returns it: Submit on a
	// stopped pool is silently ignored.
	ErrPoolNotRunning = errors.New("threadkit: pool is not running")

	// ErrAlreadyRunning names the condition of a second Run on a pool or
	// loop that is already running. No operation in this package returns
	// it: Run on an already running SharedQueuePool, DeadlineLoop or
	// TimerLoop returns without effect.
	ErrAlreadyRunning = errors.New("threadkit: already running")
)
