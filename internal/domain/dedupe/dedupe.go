// Package dedupe tracks which vehicle labels have already been seen in a fleet.
package dedupe

import (
	"sync"
	"sync/atomic"
)

// Deduper records seen labels.
type Deduper interface {
	// SeenAndRecord atomically checks if label was seen and records it if not.
	// Returns true if label was already seen.
	SeenAndRecord(label string) bool

	Size() int64
}

type inMemoryDeduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
	size atomic.Int64
}

// NewInMemoryDeduper creates an unbounded deduper sized for hint labels.
func NewInMemoryDeduper(hint int) Deduper {
	if hint < 0 {
		hint = 0
	}
	return &inMemoryDeduper{seen: make(map[string]struct{}, hint)}
}

func (d *inMemoryDeduper) SeenAndRecord(label string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[label]; ok {
		return true
	}
	d.seen[label] = struct{}{}
	d.size.Add(1)
	return false
}

// Size returns the number of distinct labels recorded.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}

// Duplicates returns each label that appears more than once, in first-repeat order.
func Duplicates(labels []string) []string {
	d := NewInMemoryDeduper(len(labels))
	reported := make(map[string]struct{})
	var dups []string
	for _, l := range labels {
		if !d.SeenAndRecord(l) {
			continue
		}
		if _, ok := reported[l]; ok {
			continue
		}
		reported[l] = struct{}{}
		dups = append(dups, l)
	}
	return dups
}
