package threadkit

import (
	"fmt"
	"runtime/debug"
)

// CrashInfo is the payload published on a CrashExecutor's crash event: a
// short error string and the full stack trace captured at the point of
// the panic. The stack trace producer is an opaque platform collaborator —
// here, runtime/debug.Stack() — out of scope per spec beyond this pair.
type CrashInfo struct {
	Err   error
	Stack string
}

// CrashExecutor runs a callback with its panics converted into a crash
// notification instead of propagating up the call stack. Go has no
// catchable analogue of SIGSEGV outside cgo, so CrashExecutor treats every
// recovered panic as the "recoverable failure" case from the underlying
// design; see DESIGN.md for why the fatal-signal case is handled
// separately by WatchProcessSignals rather than faked here.
type CrashExecutor struct {
	crashEvent *Event[CrashInfo]
	logger     Logger
}

// NewCrashExecutor constructs a CrashExecutor. logger may be nil.
func NewCrashExecutor(logger Logger) *CrashExecutor {
	return &CrashExecutor{crashEvent: NewEvent[CrashInfo](), logger: logger}
}

// CrashEvent returns the Event on which captured crashes are published.
func (c *CrashExecutor) CrashEvent() *Event[CrashInfo] {
	return c.crashEvent
}

// Invoke runs action to completion. If action panics, Invoke recovers,
// captures a stack trace, and notifies CrashEvent exactly once before
// returning normally — the panic never escapes Invoke.
func (c *CrashExecutor) Invoke(action Action) {
	defer func() {
		if r := recover(); r != nil {
			info := CrashInfo{
				Err:   fmt.Errorf("threadkit: recovered panic: %v", r),
				Stack: string(debug.Stack()),
			}
			if c.logger != nil {
				c.logger.Error("crash captured", "error", info.Err, "stack", info.Stack)
			}
			c.crashEvent.Notify(info)
		}
	}()
	action()
}
