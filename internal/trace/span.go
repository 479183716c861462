package trace

import (
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seq     atomic.Uint64
	spanIDs atomic.Uint64
)

// Span is an open begin/end pair. Spans begun while their scope is filtered
// out emit nothing but still measure their duration.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

func active(t Tracer, scope Scope) bool {
	return t != nil && t.Level().ShouldEmit(scope)
}

// Begin starts a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	s := &Span{parent: parent, scope: scope, name: name, started: time.Now()}
	if !active(t, scope) {
		return s
	}
	s.tracer = t
	s.id = spanIDs.Add(1)
	s.emit(KindSpanBegin, s.started, 0, "", nil)
	return s
}

func (s *Span) emit(kind Kind, at time.Time, dur time.Duration, detail string, extra map[string]string) {
	s.tracer.Emit(&Event{
		Time:     at,
		Seq:      seq.Add(1),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
		Dur:      dur,
		Extra:    extra,
	})
}

// End emits the end event and returns how long the span was open.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	now := time.Now()
	dur := now.Sub(s.started)
	if s.tracer != nil {
		s.emit(KindSpanEnd, now, dur, detail, s.extra)
	}
	return dur
}

// Fail ends the span with err as its detail.
func (s *Span) Fail(err error) time.Duration {
	if err == nil {
		return s.End("failed")
	}
	return s.End("failed: " + err.Error())
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// WithInt is WithExtra for integer values.
func (s *Span) WithInt(key string, v int) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	return s.WithExtra(key, strconv.Itoa(v))
}

// ID returns the span ID, 0 for inert spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if !active(t, scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      seq.Add(1),
		Kind:     KindPoint,
		Scope:    scope,
		SpanID:   spanIDs.Add(1),
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}
