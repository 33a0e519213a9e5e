package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Timer accumulates time per pipeline phase. Workers share one Timer, so a
// phase's total is summed over files and may exceed the wall time.
type Timer struct {
	mu      sync.Mutex
	started time.Time
	order   []string
	phases  map[string]*phase
}

type phase struct {
	total time.Duration
	worst time.Duration
	runs  int
	note  string
}

func NewTimer() *Timer {
	return &Timer{started: time.Now(), phases: make(map[string]*phase)}
}

// Begin starts timing name and returns the function that stops it.
// A nil Timer hands out no-op stops.
func (t *Timer) Begin(name string) func() {
	if t == nil {
		return func() {}
	}
	start := time.Now()
	return func() { t.Add(name, time.Since(start)) }
}

// Add records one run of name that took d.
func (t *Timer) Add(name string, d time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.phases[name]
	if p == nil {
		p = &phase{}
		t.phases[name] = p
		t.order = append(t.order, name)
	}
	p.total += d
	p.worst = max(p.worst, d)
	p.runs++
}

// Note attaches text to a phase already seen by Add.
func (t *Timer) Note(name, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if p := t.phases[name]; p != nil {
		p.note = note
	}
}

type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	// SlowestMS is the longest single run, usually the slowest file.
	SlowestMS float64 `json:"slowest_ms"`
	Count     int     `json:"count"`
	Note      string  `json:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms"`
	WallMS  float64       `json:"wall_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report lists phases in the order they were first seen.
func (t *Timer) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.order) == 0 {
		return Report{}
	}
	r := Report{WallMS: ms(time.Since(t.started)), Phases: make([]PhaseReport, 0, len(t.order))}
	var total time.Duration
	for _, name := range t.order {
		p := t.phases[name]
		total += p.total
		r.Phases = append(r.Phases, PhaseReport{
			Name:       name,
			DurationMS: ms(p.total),
			SlowestMS:  ms(p.worst),
			Count:      p.runs,
			Note:       p.note,
		})
	}
	r.TotalMS = ms(total)
	return r
}

// Summary renders Report as the table printed by --timings.
func (t *Timer) Summary() string {
	r := t.Report()
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  %-10s %9.2f ms  x%-5d max %7.2f ms", p.Name, p.DurationMS, p.Count, p.SlowestMS)
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-10s %9.2f ms  (wall %.2f ms)\n", "total", r.TotalMS, r.WallMS)
	return b.String()
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
