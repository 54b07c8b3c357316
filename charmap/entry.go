package charmap

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/gogpu/mplus/bitmap"
)

// NotDefined is the key of the entry drawn for characters the font lacks.
const NotDefined = "\uFFFD"

// Glyph is one rendered glyph, optionally followed by overlay glyphs that are
// drawn on top of it (combining marks, accents).
type Glyph struct {
	ID     uint16
	Images bitmap.ImageSet
	Next   *NextGlyph
}

// NextGlyph is an overlay drawn relative to the glyph before it in the chain.
//
// XOffset is relative to the pen after the cluster has advanced, YOffset is
// measured upward from the baseline.
type NextGlyph struct {
	XOffset float32
	YOffset float32
	Glyph   Glyph
}

// Len returns the number of glyphs in the chain starting at g.
func (g *Glyph) Len() int {
	n := 0
	for ; g != nil; g = nextOf(g) {
		n++
	}
	return n
}

func nextOf(g *Glyph) *Glyph {
	if g.Next == nil {
		return nil
	}
	return &g.Next.Glyph
}

// Advance is a context-sensitive advance: the width to use when the entry is
// followed by the entry keyed Key.
type Advance struct {
	Key   string
	Width float32
}

// AdvanceTable maps the key of the following entry to an advance width.
// Keys not in the table map to Default.
type AdvanceTable struct {
	Default float32
	pairs   []Advance
}

// NewAdvanceTable returns a table with the given default and pairs.
// Pairs equal to the default are dropped; later duplicates win.
func NewAdvanceTable(def float32, pairs ...Advance) AdvanceTable {
	t := AdvanceTable{Default: def}
	for _, p := range pairs {
		t.Set(p.Key, p.Width)
	}
	return t
}

// AdvanceWidthTo returns the advance to use before the entry keyed next.
func (t AdvanceTable) AdvanceWidthTo(next string) float32 {
	i, ok := slices.BinarySearchFunc(t.pairs, next, compareKey)
	if !ok {
		return t.Default
	}
	return t.pairs[i].Width
}

// Set records the advance before next. A width equal to the default removes
// any existing pair, keeping the table sparse.
func (t *AdvanceTable) Set(next string, width float32) {
	i, ok := slices.BinarySearchFunc(t.pairs, next, compareKey)
	switch {
	case width == t.Default && ok:
		t.pairs = slices.Delete(t.pairs, i, i+1)
	case width == t.Default:
	case ok:
		t.pairs[i].Width = width
	default:
		t.pairs = slices.Insert(t.pairs, i, Advance{Key: next, Width: width})
	}
}

// Pairs returns the non-default advances sorted by key.
func (t AdvanceTable) Pairs() []Advance {
	return t.pairs
}

// Len returns the number of non-default advances.
func (t AdvanceTable) Len() int {
	return len(t.pairs)
}

func compareKey(a Advance, key string) int {
	return strings.Compare(a.Key, key)
}

// Entry is one character map leaf: the glyphs drawn for Key and the advance
// that follows them.
type Entry struct {
	// Key is the exact substring rendered by the entry.
	Key string
	// AdvanceChars is the number of input characters the entry consumes.
	AdvanceChars int
	Advances     AdvanceTable
	Glyph        Glyph
}

// NewEntry returns an entry for key with the given default advance.
func NewEntry(key string, glyph Glyph, advance float32) Entry {
	return Entry{
		Key:          key,
		AdvanceChars: utf8.RuneCountInString(key),
		Advances:     AdvanceTable{Default: advance},
		Glyph:        glyph,
	}
}

// AdvanceWidthTo returns the advance to use when next follows e.
// An empty next means the end of the text.
func (e *Entry) AdvanceWidthTo(next string) float32 {
	return e.Advances.AdvanceWidthTo(next)
}
