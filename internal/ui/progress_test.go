package ui

import (
	"strings"
	"testing"

	"recast/internal/driver"
)

func TestApplyEventTracksFiles(t *testing.T) {
	m := NewProgressModel("check", nil).(*progressModel)

	events := []driver.Event{
		{File: "A.java", Stage: driver.StageLoad, Status: driver.StatusQueued},
		{File: "B.java", Stage: driver.StageLoad, Status: driver.StatusQueued},
		{File: "A.java", Stage: driver.StageRewrite, Status: driver.StatusWorking},
		{File: "B.java", Status: driver.StatusCached},
	}
	for _, ev := range events {
		m.applyEvent(ev)
	}

	if len(m.items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(m.items))
	}
	if m.items[0].state.label != "rewriting" || m.items[1].state.label != "cached" {
		t.Fatalf("unexpected statuses %+v", m.items)
	}
	if got := m.percent(); got != 0.75 {
		t.Fatalf("percent = %v, want 0.75", got)
	}

	m.applyEvent(driver.Event{File: "A.java", Status: driver.StatusDone, Changes: 1})
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}
	if got := m.tally(); got != "1 changed, 1 cached" {
		t.Fatalf("tally = %q", got)
	}

	if Finished(m) {
		t.Fatal("model finished before the stream closed")
	}
	m.Update(doneMsg{})
	if !Finished(m) {
		t.Fatal("model should be finished after doneMsg")
	}
}

func TestViewListsFiles(t *testing.T) {
	m := NewProgressModel("fix", nil).(*progressModel)
	m.applyEvent(driver.Event{File: "src/Util.java", Status: driver.StatusError})
	m.done = true

	view := m.View()
	for _, want := range []string{"done: fix (1 files)", "error", "src/Util.java"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestVisibleItemsPrefersInFlight(t *testing.T) {
	items := make([]fileItem, 0, maxVisible+5)
	for i := 0; i < maxVisible+4; i++ {
		items = append(items, fileItem{path: "done", state: stateDone})
	}
	items = append(items, fileItem{path: "busy", state: working[driver.StageParse]})

	got := visibleItems(items)
	if len(got) != maxVisible {
		t.Fatalf("expected %d rows, got %d", maxVisible, len(got))
	}
	if got[0].path != "busy" {
		t.Fatalf("in-flight file should come first, got %q", got[0].path)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"averylongpath", 8, "avery..."},
		{"abcdef", 3, "abc"},
		{"日本語のパス", 7, "日本..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
