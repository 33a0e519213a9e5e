package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

var kindNames = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point"}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Coarser scopes have lower values,
// which is what Level.ShouldEmit compares against.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one recast command
	ScopePass                    // load, parse, rewrite, print, recipe runs
	ScopeFile                    // one compilation unit
	ScopeNode                    // visitor dispatch on tree nodes
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopePass: "pass", ScopeFile: "file", ScopeNode: "node"}

func (s Scope) String() string {
	if s > 0 && int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one record in the trace. Seq is assigned by the sink that keeps it.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Name     string // "run", "parse", "file:src/Util.java", "walk:ClassDecl"
	Detail   string
	Extra    map[string]string
}
