package diag

import (
	"fmt"
	"sort"
)

// Bag collects diagnostics from a single pass (or a whole run) and renders
// them in a deterministic order independent of pass scheduling.
type Bag struct {
	items []Diagnostic
	max   uint16
}

func NewBag(max int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, max),
		max:   uint16(max),
	}
}

// Add appends a diagnostic, honouring the cap. Returns false if the bag is
// already full (Add is then a no-op, not an error — analysis keeps running
// and collecting whatever diagnostics still fit).
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// HasErrors reports whether the bag holds at least one Error-severity entry.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether the bag holds at least one Warning-or-above entry.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int { return len(b.items) }

// Items returns a read-only view; do not mutate the returned slice.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge folds another bag's diagnostics into this one, growing the cap if
// needed so nothing is silently dropped.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if uint16(newTotal) > b.max {
		b.max = uint16(newTotal)
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by module path (lexicographic), then filename,
// then declaration source order, then primary span start, then severity
// (errors first), then code.
// Two runs over the same module graph always render diagnostics in the same
// order, no matter what order passes visited modules or files.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Origin.ModulePath != dj.Origin.ModulePath {
			return di.Origin.ModulePath < dj.Origin.ModulePath
		}
		if di.Origin.FileName != dj.Origin.FileName {
			return di.Origin.FileName < dj.Origin.FileName
		}
		if di.Origin.Seq != dj.Origin.Seq {
			return di.Origin.Seq < dj.Origin.Seq
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code.String() < dj.Code.String()
	})
}

// Dedup removes diagnostics sharing the same code, primary span and message.
func (b *Bag) Dedup() {
	seen := make(map[string]bool, len(b.items))
	out := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s:%s", d.Code.String(), d.Primary.String(), d.Message)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	b.items = out
}
