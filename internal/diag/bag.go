package diag

import (
	"cmp"
	"slices"
	"sync"
)

// Bag collects the diagnostics of one file up to a limit. Add is safe for
// concurrent use; readers run after the producers are done.
type Bag struct {
	mu    sync.Mutex
	items []Diagnostic
	max   int
	// dropped counts diagnostics refused because the bag was full.
	dropped int
}

func NewBag(max int) *Bag {
	if max <= 0 {
		max = 100
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 16)),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Force appends d even when the bag is full. Reports produced by the
// driver itself, such as phase timings, must never be cut off.
func (b *Bag) Force(d Diagnostic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, d)
	b.max = max(b.max, len(b.items))
}

func (b *Bag) Cap() int { return b.max }

// Dropped reports how many diagnostics did not fit.
func (b *Bag) Dropped() int { return b.dropped }

// Count returns the number of diagnostics at or above sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity >= sev {
			n++
		}
	}
	return n
}

// HasErrors возвращает true, если есть хотя бы одна ошибка
func (b *Bag) HasErrors() bool { return b.Count(SevError) > 0 }

func (b *Bag) Len() int { return len(b.items) }

// Items возвращает внутренний срез, его нельзя модифицировать
func (b *Bag) Items() []Diagnostic { return b.items }

// Without returns a copy of the bag minus the diagnostics with the given codes.
func (b *Bag) Without(codes ...Code) *Bag {
	out := &Bag{max: b.max, items: make([]Diagnostic, 0, len(b.items))}
	for _, d := range b.items {
		if !slices.Contains(codes, d.Code) {
			out.items = append(out.items, d)
		}
	}
	return out
}

// Merge appends everything from other, growing the limit to fit.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
	b.max = max(b.max, len(b.items))
	b.dropped += other.dropped
}

// Sort orders by file, start, end, then severity (desc) and code
// for stable output.
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
