package threadkit

import (
	"os"
	"os/signal"
	"sync"
)

var (
	processSignals     *Event[os.Signal]
	processSignalsOnce sync.Once
)

// WatchProcessSignals returns a process-wide Event published on whenever
// the process receives os.Interrupt. It installs its signal.Notify hook
// exactly once regardless of how many times it's called, matching the
// design's "scoped to the call, shared process-wide once-init" guidance
// for handler installation. This is the closest idiomatic-Go analogue of
// the fatal-signal branch of CrashExecutor.Invoke's underlying contract:
// SIGSEGV itself cannot be intercepted as a recoverable condition in pure
// Go, so it is not simulated here.
func WatchProcessSignals() *Event[os.Signal] {
	processSignalsOnce.Do(func() {
		processSignals = NewEvent[os.Signal]()
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt)
		go func() {
			for sig := range ch {
				processSignals.Notify(sig)
			}
		}()
	})
	return processSignals
}
