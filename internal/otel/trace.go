package otel

import (
	"fmt"
	"os"
	"sync/atomic"
)

// traceEnabled is set once at package init. Atomic for safe concurrent access
// (production reads in UI goroutine, test writes via setTraceEnabled).
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("FEELLO_TRACE") != "")
}

// TraceEnabled reports whether FEELLO_TRACE is set.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

// setTraceEnabled overrides the traceEnabled flag for testing.
func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}

// TraceMsg records the dynamic type of a Bubble Tea message. No-op unless
// tracing is enabled.
func (l *Logger) TraceMsg(kind EventKind, msg any) {
	if !TraceEnabled() {
		return
	}
	l.Emit(Event{Level: LevelDebug, Kind: kind, Comp: "ui", Msg: fmt.Sprintf("%T", msg)})
}
