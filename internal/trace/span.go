package trace

import (
	"sync/atomic"
	"time"
)

var seqCounter, spanCounter atomic.Uint64

// NextSeq returns the next event sequence number, shared by all tracers.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a fresh span ID; 0 is never handed out.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// Span is an open begin/end pair. A span whose scope is filtered out by the
// tracer's level is inert but still carries its parent's ID, so children of
// a hidden file span attach to the run span instead of to nothing.
type Span struct {
	to      Tracer // nil when inert
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// accepts reports whether t keeps events of scope. The error level records
// everything into its ring.
func accepts(t Tracer, scope Scope) bool {
	if t == nil || !t.Enabled() {
		return false
	}
	l := t.Level()
	return l == LevelError || l.ShouldEmit(scope)
}

// Begin starts a span under parent (0 for a root) and emits its begin event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	s := &Span{parent: parent, scope: scope, name: name, started: time.Now()}
	if !accepts(t, scope) {
		return s
	}
	s.to, s.id = t, NextSpanID()
	s.emit(KindSpanBegin, s.started, "")
	return s
}

func (s *Span) emit(kind Kind, at time.Time, detail string) {
	ev := &Event{Time: at, Kind: kind, Scope: s.scope, SpanID: s.id, ParentID: s.parent, Name: s.name, Detail: detail}
	if kind == KindSpanEnd {
		ev.Extra = s.extra
	}
	s.to.Emit(ev)
}

// End emits the end event and returns how long the span was open.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	now := time.Now()
	if s.to != nil {
		s.emit(KindSpanEnd, now, detail)
	}
	return now.Sub(s.started)
}

// Fail ends the span with err as its detail and an "error" extra set.
func (s *Span) Fail(err error) time.Duration {
	if err == nil {
		return s.End("")
	}
	return s.WithExtra("error", "true").End(err.Error())
}

// WithExtra attaches key=value to the end event. Inert spans drop it.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.to == nil {
		return s
	}
	if s.extra == nil {
		s.extra = map[string]string{}
	}
	s.extra[key] = value
	return s
}

// ID is what children should use as their parent: the span's own ID, or
// the parent's when the span is inert.
func (s *Span) ID() uint64 {
	switch {
	case s == nil:
		return 0
	case s.to == nil:
		return s.parent
	}
	return s.id
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if accepts(t, scope) {
		t.Emit(&Event{Time: time.Now(), Kind: KindPoint, Scope: scope, ParentID: parent, Name: name, Detail: detail})
	}
}
