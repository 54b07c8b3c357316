package charmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(key string, advance float32) Entry {
	return NewEntry(key, Glyph{ID: uint16(len(key))}, advance)
}

func testCharmap() *Charmap {
	return Build([]Entry{
		entry("f", 5),
		entry("ffi", 12),
		entry("a", 6),
		entry("ab", 11),
		entry("\u00e9", 7),
	}, entry(NotDefined, 8))
}

func TestLookupLongestPrefix(t *testing.T) {
	c := testCharmap()
	tests := []struct {
		input string
		want  string
	}{
		{"f", "f"},
		{"fx", "f"},
		{"ff", "f"},
		{"ffx", "f"},
		{"ffi", "ffi"},
		{"ffix", "ffi"},
		{"abc", "ab"},
		{"a", "a"},
		{"\u00e9!", "\u00e9"},
		{"z", NotDefined},
		{"zab", NotDefined},
		{"", NotDefined},
		{NotDefined, NotDefined},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Lookup(tt.input).Key)
		})
	}
}

func TestLookupAlwaysConsumes(t *testing.T) {
	c := testCharmap()
	runes := []rune("ffiabz\u00e9\x00ffab\uFFFD")
	steps := 0
	for i := 0; i < len(runes); i += c.Lookup(string(runes[i:])).AdvanceChars {
		require.Positive(t, c.Lookup(string(runes[i:])).AdvanceChars)
		steps++
		require.LessOrEqual(t, steps, len(runes))
	}
	assert.Equal(t, 9, steps)
}

func TestGet(t *testing.T) {
	c := testCharmap()
	e, ok := c.Get("ffi")
	require.True(t, ok)
	assert.Equal(t, 3, e.AdvanceChars)

	_, ok = c.Get("ff")
	assert.False(t, ok, "interior node has no entry")

	nd, ok := c.Get(NotDefined)
	require.True(t, ok)
	assert.Same(t, c.NotDefined(), nd)

	assert.Equal(t, 6, c.Len())
}

func TestAllSorted(t *testing.T) {
	c := testCharmap()
	var keys []string
	for e := range c.All() {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{NotDefined, "a", "ab", "f", "ffi", "\u00e9"}, keys)
}

func TestBuildPanicsOnDuplicate(t *testing.T) {
	assert.PanicsWithValue(t, `charmap: duplicate entry for key "a"`, func() {
		Build([]Entry{entry("a", 1), entry("a", 2)}, entry(NotDefined, 1))
	})
}

func TestBuildPanicsOnEmptyKey(t *testing.T) {
	assert.Panics(t, func() {
		Build([]Entry{entry("", 1)}, entry(NotDefined, 1))
	})
}

func TestAdvanceTable(t *testing.T) {
	table := NewAdvanceTable(10,
		Advance{Key: "b", Width: 9},
		Advance{Key: "a", Width: 11},
		Advance{Key: "c", Width: 10},
	)
	assert.Equal(t, 2, table.Len(), "pair equal to default is dropped")
	assert.Equal(t, float32(11), table.AdvanceWidthTo("a"))
	assert.Equal(t, float32(9), table.AdvanceWidthTo("b"))
	assert.Equal(t, float32(10), table.AdvanceWidthTo("c"))
	assert.Equal(t, float32(10), table.AdvanceWidthTo(""))
	// Pure: repeated queries agree.
	assert.Equal(t, table.AdvanceWidthTo("b"), table.AdvanceWidthTo("b"))

	table.Set("b", 10)
	assert.Equal(t, 1, table.Len())
	table.Set("a", 12)
	assert.Equal(t, float32(12), table.AdvanceWidthTo("a"))
	assert.Equal(t, []Advance{{Key: "a", Width: 12}}, table.Pairs())
}

func TestNewEntryAdvanceChars(t *testing.T) {
	e := NewEntry("e\u0301x", Glyph{}, 3)
	assert.Equal(t, 3, e.AdvanceChars)
	assert.Equal(t, float32(3), e.AdvanceWidthTo("anything"))
}

func TestGlyphLen(t *testing.T) {
	g := Glyph{ID: 1, Next: &NextGlyph{Glyph: Glyph{ID: 2, Next: &NextGlyph{Glyph: Glyph{ID: 3}}}}}
	assert.Equal(t, 3, g.Len())
	var nilGlyph *Glyph
	assert.Equal(t, 0, nilGlyph.Len())
}

func TestFromArenaRoundTrip(t *testing.T) {
	c := testCharmap()
	back, err := FromArena(c.Entries(), c.Nodes())
	require.NoError(t, err)
	for _, in := range []string{"ffix", "ab", "zz", "\u00e9", "f"} {
		assert.Equal(t, c.Lookup(in).Key, back.Lookup(in).Key, "input %q", in)
	}
}

func TestFromArenaRejectsMalformed(t *testing.T) {
	entries := []Entry{entry(NotDefined, 1), entry("a", 1)}
	tests := []struct {
		name  string
		nodes []Node
		want  error
	}{
		{"no root", nil, ErrNoRoot},
		{"root entry", []Node{{Entry: 0}}, ErrRootEntry},
		{"child out of range", []Node{{Entry: NoEntry, Children: []Child{{Rune: 'a', Node: 5}}}}, ErrBadIndex},
		{"entry out of range", []Node{{Entry: NoEntry}, {Entry: 9}}, ErrBadIndex},
		{"shared child", []Node{
			{Entry: NoEntry, Children: []Child{{Rune: 'a', Node: 1}, {Rune: 'b', Node: 1}}},
			{Entry: 1},
		}, ErrNotATree},
		{"unsorted", []Node{
			{Entry: NoEntry, Children: []Child{{Rune: 'b', Node: 1}, {Rune: 'a', Node: 2}}},
			{Entry: 1},
			{Entry: NoEntry},
		}, ErrChildOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromArena(entries, tt.nodes)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	_, err := FromArena(nil, []Node{{Entry: NoEntry}})
	assert.ErrorIs(t, err, ErrNoEntries)
}
