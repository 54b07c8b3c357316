package asset

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/mplus"
	"github.com/gogpu/mplus/bitmap"
	"github.com/gogpu/mplus/charmap"
)

// maxChain bounds the glyph chain length of one entry.
const maxChain = 1 << 10

// Decode parses a blob written by Encode.
func Decode(data []byte) (*mplus.BitmapFont, error) {
	if len(data) < len(Magic) || string(data[:len(Magic)]) != Magic {
		return nil, ErrBadMagic
	}
	d := &decoder{data: data, off: len(Magic)}
	v := d.uint16()
	if d.err != nil {
		return nil, d.err
	}
	if v != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	font := &mplus.BitmapFont{
		Positions: int(d.byte()),
		BitDepth:  int(d.byte()),
	}
	font.Metrics = d.metrics()
	font.Underline = d.decoration()
	font.Strikethrough = d.decoration()
	if d.err != nil {
		return nil, d.err
	}
	if font.Positions < 1 || !bitmap.ValidDepth(font.BitDepth) {
		return nil, fmt.Errorf("%w: %d positions, depth %d", ErrCorrupt, font.Positions, font.BitDepth)
	}

	d.images()
	entries := make([]charmap.Entry, d.count())
	for i := range entries {
		if d.err != nil {
			break
		}
		entries[i] = d.entry()
	}
	nodes := make([]charmap.Node, d.count())
	for i := range nodes {
		if d.err != nil {
			break
		}
		nodes[i] = d.node()
	}
	if d.err != nil {
		return nil, d.err
	}
	if d.off != len(d.data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(d.data)-d.off)
	}

	cm, err := charmap.FromArena(entries, nodes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	font.Charmap = cm
	return font, nil
}

// decoder reads from data with a sticky error: after the first failure
// every read returns a zero value.
type decoder struct {
	data  []byte
	off   int
	err   error
	table []bitmap.Image
}

func (d *decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || n > len(d.data)-d.off {
		d.fail(ErrTruncated)
		return nil
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) byte() byte {
	if b := d.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (d *decoder) uint16() uint16 {
	if b := d.take(2); b != nil {
		return bo.Uint16(b)
	}
	return 0
}

func (d *decoder) float() float32 {
	if b := d.take(4); b != nil {
		return math.Float32frombits(bo.Uint32(b))
	}
	return 0
}

func (d *decoder) uvarint() uint64 {
	if d.err != nil {
		return 0
	}
	v, n := binary.Uvarint(d.data[d.off:])
	if n <= 0 {
		d.fail(ErrTruncated)
		return 0
	}
	d.off += n
	return v
}

func (d *decoder) varint() int64 {
	if d.err != nil {
		return 0
	}
	v, n := binary.Varint(d.data[d.off:])
	if n <= 0 {
		d.fail(ErrTruncated)
		return 0
	}
	d.off += n
	return v
}

// count reads an element count. Every element takes at least one byte, so
// counts beyond the remaining data are truncations.
func (d *decoder) count() int {
	v := d.uvarint()
	if v > uint64(len(d.data)-d.off) {
		d.fail(ErrTruncated)
		return 0
	}
	return int(v)
}

func (d *decoder) int32() int32 {
	v := d.varint()
	if v < math.MinInt32 || v > math.MaxInt32 {
		d.fail(fmt.Errorf("%w: value %d out of range", ErrCorrupt, v))
		return 0
	}
	return int32(v)
}

func (d *decoder) str() string {
	return string(d.take(d.count()))
}

func (d *decoder) metrics() mplus.Metrics {
	return mplus.Metrics{
		Top:       d.float(),
		Ascender:  d.float(),
		CapHeight: d.float(),
		XHeight:   d.float(),
		Baseline:  d.float(),
		Descender: d.float(),
		Bottom:    d.float(),
	}
}

func (d *decoder) decoration() mplus.Decoration {
	return mplus.Decoration{Offset: d.float(), Height: d.float()}
}

// images reads the image table and slices the pixel heap into it.
func (d *decoder) images() {
	d.table = make([]bitmap.Image, d.count())
	sizes := make([]int, len(d.table))
	total := 0
	for i := range d.table {
		left, top := d.int32(), d.int32()
		width := d.uvarint()
		if width > math.MaxUint32 {
			d.fail(fmt.Errorf("%w: image width %d", ErrCorrupt, width))
		}
		d.table[i] = bitmap.Image{Left: left, Top: top, Width: uint32(width)}
		sizes[i] = d.count()
		total += sizes[i]
	}
	heap := d.take(d.count())
	if d.err != nil {
		return
	}
	if len(heap) != total {
		d.fail(fmt.Errorf("%w: pixel heap holds %d bytes, images need %d", ErrCorrupt, len(heap), total))
		return
	}
	for i, n := range sizes {
		if n > 0 {
			d.table[i].Data = heap[:n:n]
		}
		heap = heap[n:]
	}
}

func (d *decoder) imageSet() bitmap.ImageSet {
	n := d.count()
	if d.err != nil || n == 0 {
		d.fail(fmt.Errorf("%w: empty image set", ErrCorrupt))
		return bitmap.ImageSet{}
	}
	images := make([]bitmap.Image, n)
	for i := range images {
		idx := d.uvarint()
		if idx >= uint64(len(d.table)) {
			d.fail(fmt.Errorf("%w: image index %d", ErrCorrupt, idx))
			return bitmap.ImageSet{}
		}
		images[i] = d.table[idx]
	}
	if n == 1 && images[0].IsEmpty() {
		return bitmap.ImageSet{}
	}
	return bitmap.Array(images)
}

func (d *decoder) entry() charmap.Entry {
	e := charmap.Entry{Key: d.str()}
	if chars := d.uvarint(); chars <= math.MaxInt32 {
		e.AdvanceChars = int(chars)
	} else {
		d.fail(fmt.Errorf("%w: entry %q consumes %d characters", ErrCorrupt, e.Key, chars))
	}
	e.Advances = charmap.NewAdvanceTable(d.float())
	for range d.count() {
		k := d.str()
		e.Advances.Set(k, d.float())
	}

	n := d.count()
	if d.err == nil && (n == 0 || n > maxChain) {
		d.fail(fmt.Errorf("%w: glyph chain of %d", ErrCorrupt, n))
	}
	if d.err != nil {
		return e
	}
	g := &e.Glyph
	for i := range n {
		g.ID = d.uint16()
		g.Images = d.imageSet()
		if i == n-1 {
			break
		}
		g.Next = &charmap.NextGlyph{XOffset: d.float(), YOffset: d.float()}
		g = &g.Next.Glyph
	}
	return e
}

func (d *decoder) node() charmap.Node {
	n := charmap.Node{Entry: d.int32()}
	if c := d.count(); c > 0 {
		n.Children = make([]charmap.Child, c)
		for i := range n.Children {
			n.Children[i] = charmap.Child{Rune: rune(d.int32()), Node: d.int32()}
		}
	}
	return n
}
