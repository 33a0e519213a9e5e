package trace

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestStreamTracerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	span := Begin(tr, ScopePass, "parse", 0)
	Point(tr, ScopeNode, "class:Util", "", span.ID())
	span.WithExtra("files", "3").End("ok")

	out := buf.String()
	if !strings.Contains(out, "→ parse") || !strings.Contains(out, "← parse (ok) {files=3}") {
		t.Fatalf("missing span events in %q", out)
	}
	if strings.Contains(out, "class:Util") {
		t.Fatalf("node event must be filtered at phase level: %q", out)
	}
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeFile, name, "", 0)
	}
	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "b" || events[1].Name != "c" {
		t.Fatalf("unexpected snapshot: %+v", events)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 2 || !strings.Contains(buf.String(), `"name":"c"`) {
		t.Fatalf("unexpected dump: %q", buf.String())
	}
}

func TestMultiTracerFindsRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	multi, ok := tr.(*MultiTracer)
	if !ok {
		t.Fatalf("expected *MultiTracer, got %T", tr)
	}
	Point(tr, ScopeFile, "file:Util.java", "", 0)
	if got := len(multi.Ring().Snapshot()); got != 1 {
		t.Fatalf("expected 1 ring event, got %d", got)
	}
	if buf.Len() == 0 {
		t.Fatal("expected stream output")
	}
}

func TestContextPropagation(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != Nop {
		t.Fatal("expected Nop without tracer")
	}
	ring := NewRingTracer(8, LevelDebug)
	ctx = WithTracer(ctx, ring)
	span := Begin(FromContext(ctx), ScopeDriver, "check", 0)
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx) != span.ID() {
		t.Fatal("span id not propagated")
	}
}

func TestParseLevel(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want Level
	}{
		{"off", LevelOff}, {"PHASE", LevelPhase}, {"detail", LevelDetail}, {"debug", LevelDebug},
	} {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestRingTail(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	if ring.Tail(5) != nil {
		t.Fatal("empty ring must have no tail")
	}
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(ring, ScopeFile, name, "", 0)
	}
	names := func(evs []Event) string {
		var b strings.Builder
		for _, ev := range evs {
			b.WriteString(ev.Name)
		}
		return b.String()
	}
	cases := []struct {
		n    int
		want string
	}{
		{1, "e"},
		{2, "de"},
		{3, "cde"},
		{9, "cde"},
		{0, ""},
	}
	for _, tc := range cases {
		if got := names(ring.Tail(tc.n)); got != tc.want {
			t.Errorf("Tail(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
	if ring.Dropped() != 2 {
		t.Fatalf("dropped = %d", ring.Dropped())
	}
}

func TestErrorLevelKeepsEverythingInRing(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Level: LevelError, Mode: ModeStream, Output: &buf}
	tr, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	ring := Ring(tr)
	if ring == nil {
		t.Fatalf("error level must record into a ring, got %T", tr)
	}
	span := Begin(tr, ScopeFile, "file", 0)
	Point(tr, ScopeNode, "walk:hide", "", span.ID())
	span.Fail(errors.New("boom"))
	if buf.Len() != 0 {
		t.Fatalf("nothing may be written before a dump: %q", buf.String())
	}

	if err := DumpRing(tr, cfg); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "walk:hide") || !strings.Contains(out, "boom") {
		t.Fatalf("dump misses events: %q", out)
	}
}

func TestDumpRingSkipsStreamedEvents(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{Level: LevelDetail, Mode: ModeBoth, Output: &buf}
	tr, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopeFile, "file:Util.java", "", 0)
	before := buf.Len()
	if err := DumpRing(tr, cfg); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != before {
		t.Fatal("events already streamed must not be dumped again")
	}
}

func TestFilteredSpanPassesParentThrough(t *testing.T) {
	ring := NewRingTracer(8, LevelPhase)
	run := Begin(ring, ScopeDriver, "run", 0)
	file := Begin(ring, ScopeFile, "file", run.ID())
	if file.ID() != run.ID() {
		t.Fatalf("filtered span id = %d, want parent %d", file.ID(), run.ID())
	}
	recipe := Begin(ring, ScopePass, "recipe:hide", file.ID())
	recipe.End("")
	file.End("")
	run.End("")

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("expected run and recipe begin/end only, got %d events", len(events))
	}
	if events[1].Name != "recipe:hide" || events[1].ParentID != run.ID() {
		t.Fatalf("recipe span not attached to run: %+v", events[1])
	}
}
