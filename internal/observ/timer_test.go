package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerAccumulatesByName(t *testing.T) {
	tm := NewTimer()
	tm.Add("parse", 2*time.Millisecond)
	tm.Add("rewrite", time.Millisecond)
	tm.Add("parse", 3*time.Millisecond)
	tm.Note("parse", "2 files")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].Name != "parse" || report.Phases[0].Count != 2 || report.Phases[0].DurationMS != 5 {
		t.Fatalf("unexpected parse phase: %+v", report.Phases[0])
	}
	if report.Phases[0].SlowestMS != 3 {
		t.Fatalf("slowest parse run = %v", report.Phases[0].SlowestMS)
	}
	if report.TotalMS != 6 {
		t.Fatalf("expected total 6ms, got %v", report.TotalMS)
	}

	if !strings.Contains(tm.Summary(), "// 2 files") {
		t.Fatalf("note missing from summary:\n%s", tm.Summary())
	}
}

func TestNilTimerIsSafe(t *testing.T) {
	var tm *Timer
	tm.Begin("x")()
	tm.Note("x", "ignored")
	if len(tm.Report().Phases) != 0 {
		t.Fatal("nil timer must report nothing")
	}
}
