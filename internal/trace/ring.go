package trace

import (
	"io"
	"slices"
	"sync"
)

// RingTracer keeps the most recent events in memory. It backs the
// error level: nothing is printed unless a run fails and the ring is dumped.
type RingTracer struct {
	mu      sync.Mutex
	events  []Event
	written uint64 // total events ever stored
	level   Level
}

// NewRingTracer creates a RingTracer holding up to capacity events
// (4096 when capacity is not positive).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

// Emit stores ev, overwriting the oldest event once the ring is full.
// At LevelError every scope is kept so a failing file can be explained.
func (t *RingTracer) Emit(ev *Event) {
	if t.level != LevelError && !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	stored := *ev
	stored.Seq = NextSeq()
	t.events[t.written%uint64(len(t.events))] = stored
	t.written++
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	return t.Tail(len(t.events))
}

// Tail returns at most n of the newest events, oldest first.
func (t *RingTracer) Tail(n int) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := uint64(len(t.events))
	count := min(t.written, size, uint64(max(n, 0)))
	if count == 0 {
		return nil
	}
	start := (t.written - count) % size
	end := start + count
	if end <= size {
		return slices.Clone(t.events[start:end])
	}
	return slices.Concat(t.events[start:], t.events[:end-size])
}

// Dropped reports how many events were overwritten.
func (t *RingTracer) Dropped() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if size := uint64(len(t.events)); t.written > size {
		return t.written - size
	}
	return 0
}

// Dump writes the stored events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

// Ring finds the ring buffer behind t, if it has one.
func Ring(t Tracer) *RingTracer {
	switch tr := t.(type) {
	case *RingTracer:
		return tr
	case *MultiTracer:
		return tr.Ring()
	}
	return nil
}
