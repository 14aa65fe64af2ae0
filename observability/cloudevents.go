// Package observability republishes threadkit's internal crash events to
// external observability systems without altering the internal Event
// contract those components already expose.
package observability

import (
	"context"
	"fmt"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/corewind/threadkit"
)

// EventType is the CloudEvents type attribute used for crash
// notifications republished by CrashEventAdapter.
const EventType = "io.threadkit.crash"

// Emitter sends a fully-formed CloudEvent onward, e.g. to an HTTP sink, a
// broker client, or a test recorder.
type Emitter interface {
	Emit(ctx context.Context, event cloudevents.Event) error
}

// CrashEventAdapter subscribes to a threadkit.Event[threadkit.CrashInfo]
// and republishes every notification as a CloudEvent through an Emitter.
// It does not change the semantics of the crash event it observes; it is
// a pure listener.
type CrashEventAdapter struct {
	source  string
	emitter Emitter
	sub     *threadkit.Subscription
}

// NewCrashEventAdapter subscribes to ev and begins forwarding crashes to
// emitter, tagging each CloudEvent with source (e.g. a pool or executor
// name).
func NewCrashEventAdapter(ev *threadkit.Event[threadkit.CrashInfo], source string, emitter Emitter) *CrashEventAdapter {
	a := &CrashEventAdapter{source: source, emitter: emitter}
	a.sub = ev.Subscribe(a.onCrash)
	return a
}

// Close stops forwarding further crashes.
func (a *CrashEventAdapter) Close() {
	a.sub.Unsubscribe()
}

func (a *CrashEventAdapter) onCrash(info threadkit.CrashInfo) {
	event := cloudevents.NewEvent()
	event.SetID(fmt.Sprintf("%s-%d", a.source, time.Now().UnixNano()))
	event.SetSource(a.source)
	event.SetType(EventType)
	event.SetTime(time.Now())

	errMsg := ""
	if info.Err != nil {
		errMsg = info.Err.Error()
	}
	_ = event.SetData(cloudevents.ApplicationJSON, map[string]string{
		"error": errMsg,
		"stack": info.Stack,
	})

	_ = a.emitter.Emit(context.Background(), event)
}
