// Package pipeline selects, per binding target, whether to regenerate,
// verify, or skip, and runs the choice.
package pipeline

import (
	"time"
)

// Mode is the resolved action for a target.
type Mode uint8

const (
	// ModeSkip leaves the target alone.
	ModeSkip Mode = iota
	// ModeVerify requires the previously generated output to exist.
	ModeVerify
	// ModeRegenerate runs the translator.
	ModeRegenerate
)

// String returns the string representation of Mode.
func (m Mode) String() string {
	switch m {
	case ModeSkip:
		return "skip"
	case ModeVerify:
		return "verify"
	case ModeRegenerate:
		return "regenerate"
	default:
		return "unknown"
	}
}

// Status captures progress state of a target.
type Status string

const (
	// StatusQueued indicates the target is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the target is being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the target finished.
	StatusDone Status = "done"
	// StatusSkipped indicates nothing was done for the target.
	StatusSkipped Status = "skipped"
	// StatusError indicates the target failed.
	StatusError Status = "error"
)

// Event reports progress for a target.
type Event struct {
	Target  string
	Mode    Mode
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

// OnEvent implements ProgressSink.
func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}
