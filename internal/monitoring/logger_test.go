package monitoring

import (
	"fmt"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	Logf("loaded %d sessions", 3)
	if len(lines) != 1 || lines[0] != "loaded 3 sessions" {
		t.Errorf("captured lines = %v", lines)
	}

	// A nil logger mutes without panicking.
	SetLogger(nil)
	Logf("dropped")
}

func TestSetEventSink(t *testing.T) {
	defer SetEventSink(nil)

	var events []Event
	SetEventSink(func(ev Event) { events = append(events, ev) })

	Emit(Event{Session: "S001", Category: "b", Check: "staircase", Status: "valid", Index: -1})
	if len(events) != 1 || events[0].Category != "b" {
		t.Errorf("captured events = %+v", events)
	}
}

func TestDefaultSinkFormatsEvents(t *testing.T) {
	defer SetLogger(nil)
	defer SetEventSink(nil)
	SetEventSink(nil)

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})

	Emit(Event{
		Session: "S001", Category: "m_l", Check: "staircase",
		Status: "invalid", Index: 4, Detail: "expected 0.21, recorded 0.5",
	})
	Emit(Event{
		Session: "S001", Category: "b", Check: "pair",
		Status: "valid", Index: -1,
	})

	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "at trial 4") || !strings.Contains(lines[0], "invalid") {
		t.Errorf("trial-level event rendered as %q", lines[0])
	}
	if strings.Contains(lines[1], "at trial") {
		t.Errorf("group-level event carries a trial index: %q", lines[1])
	}
}
