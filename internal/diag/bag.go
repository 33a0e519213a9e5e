package diag

import (
	"cmp"
	"slices"
)

// Bag collects the diagnostics of one file up to a limit.
type Bag struct {
	items   []Diagnostic
	max     int
	dropped int
}

// NewBag returns a bag holding at most max diagnostics (100 when max <= 0).
func NewBag(max int) *Bag {
	if max <= 0 {
		max = 100
	}
	return &Bag{items: make([]Diagnostic, 0, min(max, 16)), max: max}
}

// Add stores d. It returns false and counts d as dropped once the bag is full.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int { return len(b.items) }

// Dropped reports how many diagnostics Add refused.
func (b *Bag) Dropped() int { return b.dropped }

// Items returns the stored diagnostics. The slice aliases the bag.
func (b *Bag) Items() []Diagnostic { return b.items }

// Worst returns the highest severity in the bag.
func (b *Bag) Worst() (Severity, bool) {
	if len(b.items) == 0 {
		return SevInfo, false
	}
	return slices.MaxFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Compare(x.Severity, y.Severity)
	}).Severity, true
}

func (b *Bag) HasErrors() bool {
	s, ok := b.Worst()
	return ok && s >= SevError
}

func (b *Bag) HasWarnings() bool {
	s, ok := b.Worst()
	return ok && s >= SevWarning
}

// Merge moves other's diagnostics into b, raising b's limit to fit them.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
	b.max = max(b.max, len(b.items))
	b.dropped += other.dropped
}

// Sort orders by position in the file, then the more severe first, then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
