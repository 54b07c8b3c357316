package compiler

import (
	"math"
	"sync"

	"github.com/emirpasic/gods/maps/treemap"

	"github.com/gogpu/mplus/charmap"
)

// advanceTolerance is the largest difference between a shaped advance and an
// entry's default advance that is still treated as equal. Shaped and metric
// advances are scaled separately and may disagree in the last 26.6 bit.
const advanceTolerance = 1.0 / 64

// dictionary collects the entries of one shaping pass, keyed and ordered by
// entry key. It is shared by all workers of the pass.
type dictionary struct {
	mu      sync.RWMutex
	entries *treemap.Map
}

func newDictionary() *dictionary {
	return &dictionary{entries: treemap.NewWithStringComparator()}
}

func (d *dictionary) contains(key string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.entries.Get(key)
	return ok
}

// insertGlyph adds an entry for key unless one exists. Entries rendered by
// two workers for the same key are identical, so the first one is kept.
func (d *dictionary) insertGlyph(key string, glyph charmap.Glyph, advance float32) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.entries.Get(key); ok {
		return false
	}
	e := charmap.NewEntry(key, glyph, advance)
	d.entries.Put(key, &e)
	return true
}

// insertAdvance records the advance of key when followed by next. Advances
// equal to the entry's default are not stored.
func (d *dictionary) insertAdvance(key, next string, advance float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.entries.Get(key)
	if !ok {
		return
	}
	e := v.(*charmap.Entry)
	if math.Abs(float64(advance-e.Advances.Default)) <= advanceTolerance {
		return
	}
	e.Advances.Set(next, advance)
}

// remove deletes and returns the entry for key.
func (d *dictionary) remove(key string) (charmap.Entry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.entries.Get(key)
	if !ok {
		return charmap.Entry{}, false
	}
	d.entries.Remove(key)
	return *v.(*charmap.Entry), true
}

// mergeUnder adds the entries of other whose keys d does not have.
func (d *dictionary) mergeUnder(other *dictionary) {
	if other == nil || other == d {
		return
	}
	other.mu.RLock()
	defer other.mu.RUnlock()
	d.mu.Lock()
	defer d.mu.Unlock()
	other.entries.Each(func(key, value any) {
		if _, ok := d.entries.Get(key); !ok {
			d.entries.Put(key, value)
		}
	})
}

func (d *dictionary) len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.entries.Size()
}

// sorted returns copies of all entries in key order.
func (d *dictionary) sorted() []charmap.Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]charmap.Entry, 0, d.entries.Size())
	d.entries.Each(func(_, value any) {
		out = append(out, *value.(*charmap.Entry))
	})
	return out
}
