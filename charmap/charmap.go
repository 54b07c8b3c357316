// Package charmap implements the character map of a compiled font: a prefix
// trie over runes whose leaves are glyph entries.
//
// The trie is stored as an arena of nodes addressed by index. Node 0 is the
// root and entry 0 is the not-defined entry. Every node knows the entry to
// use when the input does not continue into one of its children, so lookup
// is a greedy descent that always ends at an entry.
package charmap

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Errors returned by FromArena.
var (
	ErrNoRoot     = errors.New("charmap: arena has no root node")
	ErrNoEntries  = errors.New("charmap: arena has no entries")
	ErrBadIndex   = errors.New("charmap: node or entry index out of range")
	ErrNotATree   = errors.New("charmap: node reachable more than once")
	ErrChildOrder = errors.New("charmap: children not sorted by rune")
	ErrRootEntry  = errors.New("charmap: root must not carry an entry")
)

// NoEntry marks a node without an entry of its own.
const NoEntry int32 = -1

// Node is one trie node in arena form.
type Node struct {
	// Entry indexes the entry whose key ends at this node, or NoEntry.
	Entry    int32
	Children []Child
}

// Child is an edge of the trie.
type Child struct {
	Rune rune
	Node int32
}

type node struct {
	Node
	// fallback is the entry used when the input stops or leaves the trie
	// at this node.
	fallback int32
}

// Charmap is an immutable character map. It is safe for concurrent use.
type Charmap struct {
	entries []Entry
	nodes   []node
}

// Build folds entries into a trie. notDefined becomes the fallback for
// characters that start no key.
//
// Build panics on empty keys and on two entries with the same key: both
// indicate a defect in how keys were derived.
func Build(entries []Entry, notDefined Entry) *Charmap {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b Entry) int { return strings.Compare(a.Key, b.Key) })

	c := &Charmap{
		entries: make([]Entry, 0, len(sorted)+1),
		nodes:   []node{{Node: Node{Entry: NoEntry}}},
	}
	c.entries = append(c.entries, notDefined)

	for _, e := range sorted {
		if e.Key == "" {
			panic("charmap: entry with empty key")
		}
		if e.Key == notDefined.Key {
			continue
		}
		n := int32(0)
		for _, r := range e.Key {
			n = c.childOrInsert(n, r)
		}
		if c.nodes[n].Entry != NoEntry {
			panic(fmt.Sprintf("charmap: duplicate entry for key %q", e.Key))
		}
		c.nodes[n].Entry = int32(len(c.entries)) //nolint:gosec // bounded by entry count
		c.entries = append(c.entries, e)
	}
	c.resolveFallbacks()
	return c
}

func (c *Charmap) childOrInsert(n int32, r rune) int32 {
	children := c.nodes[n].Children
	i, ok := slices.BinarySearchFunc(children, r, compareRune)
	if ok {
		return children[i].Node
	}
	idx := int32(len(c.nodes)) //nolint:gosec // bounded by key length sum
	c.nodes = append(c.nodes, node{Node: Node{Entry: NoEntry}})
	c.nodes[n].Children = slices.Insert(children, i, Child{Rune: r, Node: idx})
	return idx
}

func compareRune(c Child, r rune) int {
	switch {
	case c.Rune < r:
		return -1
	case c.Rune > r:
		return 1
	default:
		return 0
	}
}

// resolveFallbacks propagates each node's entry to descendants without one.
func (c *Charmap) resolveFallbacks() {
	type frame struct{ node, fallback int32 }
	stack := []frame{{0, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &c.nodes[f.node]
		n.fallback = f.fallback
		if n.Entry != NoEntry {
			n.fallback = n.Entry
		}
		for _, ch := range n.Children {
			stack = append(stack, frame{ch.Node, n.fallback})
		}
	}
}

// FromArena rebuilds a character map from its arena form, as produced by
// Entries and Nodes. Entry 0 must be the not-defined entry and node 0 the
// root.
func FromArena(entries []Entry, nodes []Node) (*Charmap, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	if len(nodes) == 0 {
		return nil, ErrNoRoot
	}
	if nodes[0].Entry != NoEntry {
		return nil, ErrRootEntry
	}
	c := &Charmap{entries: entries, nodes: make([]node, len(nodes))}
	seen := make([]bool, len(nodes))
	seen[0] = true
	for i, n := range nodes {
		if n.Entry != NoEntry && (n.Entry <= 0 || int(n.Entry) >= len(entries)) {
			return nil, fmt.Errorf("%w: node %d entry %d", ErrBadIndex, i, n.Entry)
		}
		for j, ch := range n.Children {
			if ch.Node <= 0 || int(ch.Node) >= len(nodes) {
				return nil, fmt.Errorf("%w: node %d child %d", ErrBadIndex, i, ch.Node)
			}
			if seen[ch.Node] {
				return nil, fmt.Errorf("%w: node %d", ErrNotATree, ch.Node)
			}
			seen[ch.Node] = true
			if j > 0 && n.Children[j-1].Rune >= ch.Rune {
				return nil, fmt.Errorf("%w: node %d", ErrChildOrder, i)
			}
		}
		c.nodes[i].Node = n
	}
	c.resolveFallbacks()
	return c, nil
}

// Lookup returns the entry for the longest registered prefix of s.
// Characters that start no key resolve to the not-defined entry; Lookup
// never fails. Callers consume Entry.AdvanceChars characters of s.
func (c *Charmap) Lookup(s string) *Entry {
	n := &c.nodes[0]
	for _, r := range s {
		i, ok := slices.BinarySearchFunc(n.Children, r, compareRune)
		if !ok {
			break
		}
		n = &c.nodes[n.Children[i].Node]
	}
	return &c.entries[n.fallback]
}

// Get returns the entry whose key is exactly key.
func (c *Charmap) Get(key string) (*Entry, bool) {
	if key == c.entries[0].Key {
		return &c.entries[0], true
	}
	n := &c.nodes[0]
	for _, r := range key {
		i, ok := slices.BinarySearchFunc(n.Children, r, compareRune)
		if !ok {
			return nil, false
		}
		n = &c.nodes[n.Children[i].Node]
	}
	if n.Entry == NoEntry {
		return nil, false
	}
	return &c.entries[n.Entry], true
}

// NotDefined returns the fallback entry.
func (c *Charmap) NotDefined() *Entry {
	return &c.entries[0]
}

// Len returns the number of entries, including the not-defined entry.
func (c *Charmap) Len() int {
	return len(c.entries)
}

// All iterates over every entry, the not-defined entry first, then in key
// order.
func (c *Charmap) All() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for i := range c.entries {
			if !yield(&c.entries[i]) {
				return
			}
		}
	}
}

// Entries returns the entry arena. The result must not be modified.
func (c *Charmap) Entries() []Entry {
	return c.entries
}

// Nodes returns the trie in arena form.
func (c *Charmap) Nodes() []Node {
	nodes := make([]Node, len(c.nodes))
	for i := range c.nodes {
		nodes[i] = c.nodes[i].Node
	}
	return nodes
}
