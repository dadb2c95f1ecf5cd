// Package monitoring carries the package-level diagnostic logger and the
// structured validation-event sink. The core emits events rather than writing
// text; thin adapters decide how (and whether) they reach the console.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced by SetLogger. Tests or batch callers can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Event is one structured validation event. Index is the trial index the
// event refers to, or -1 when it applies to a whole group.
type Event struct {
	Session  string
	Category string
	Check    string // "staircase", "pair", "accuracy", "schema"
	Status   string // "valid", "invalid", "skipped"
	Index    int
	Detail   string
}

var eventSink func(Event) = logEvent

// SetEventSink replaces the validation-event sink. Passing nil restores the
// default sink, which forwards events to Logf.
func SetEventSink(f func(Event)) {
	if f == nil {
		eventSink = logEvent
		return
	}
	eventSink = f
}

// Emit delivers one validation event to the current sink.
func Emit(ev Event) {
	eventSink(ev)
}

func logEvent(ev Event) {
	if ev.Index >= 0 {
		Logf("[%s] %s %s: %s at trial %d %s", ev.Session, ev.Category, ev.Check, ev.Status, ev.Index, ev.Detail)
		return
	}
	Logf("[%s] %s %s: %s %s", ev.Session, ev.Category, ev.Check, ev.Status, ev.Detail)
}
