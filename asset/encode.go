package asset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gogpu/mplus"
	"github.com/gogpu/mplus/bitmap"
	"github.com/gogpu/mplus/charmap"
)

var bo = binary.LittleEndian

// Encode writes font to w.
func Encode(w io.Writer, font *mplus.BitmapFont) error {
	if font == nil || font.Charmap == nil {
		return errors.New("asset: font has no character map")
	}
	if !bitmap.ValidDepth(font.BitDepth) || font.Positions < 1 || font.Positions > math.MaxUint8 {
		return fmt.Errorf("asset: invalid font parameters: %d positions, depth %d", font.Positions, font.BitDepth)
	}

	e := newEncoder()
	entries := font.Charmap.Entries()
	for i := range entries {
		e.collectGlyph(&entries[i].Glyph)
	}

	e.buf = append(e.buf, Magic...)
	e.buf = bo.AppendUint16(e.buf, Version)
	e.buf = append(e.buf, uint8(font.Positions), uint8(font.BitDepth)) //nolint:gosec // checked above
	e.metrics(font.Metrics)
	e.decoration(font.Underline)
	e.decoration(font.Strikethrough)

	e.images()

	e.uvarint(uint64(len(entries)))
	for i := range entries {
		e.entry(&entries[i])
	}

	nodes := font.Charmap.Nodes()
	e.uvarint(uint64(len(nodes)))
	for _, n := range nodes {
		e.varint(int64(n.Entry))
		e.uvarint(uint64(len(n.Children)))
		for _, c := range n.Children {
			e.varint(int64(c.Rune))
			e.varint(int64(c.Node))
		}
	}

	if _, err := w.Write(e.buf); err != nil {
		return fmt.Errorf("asset: write: %w", err)
	}
	return nil
}

// imageKey identifies an image by content.
type imageKey struct {
	left, top int32
	width     uint32
	data      string
}

type encoder struct {
	buf    []byte
	index  map[imageKey]uint64
	table  []bitmap.Image
	heapSz int
}

func newEncoder() *encoder {
	return &encoder{index: make(map[imageKey]uint64)}
}

// collectGlyph adds the images of a glyph chain to the image table.
func (e *encoder) collectGlyph(g *charmap.Glyph) {
	for ; g != nil; g = next(g) {
		for _, img := range g.Images.Images() {
			key := imageKey{img.Left, img.Top, img.Width, string(img.Data)}
			if _, ok := e.index[key]; ok {
				continue
			}
			e.index[key] = uint64(len(e.table))
			e.table = append(e.table, img)
			e.heapSz += len(img.Data)
		}
	}
}

func (e *encoder) images() {
	e.uvarint(uint64(len(e.table)))
	for _, img := range e.table {
		e.varint(int64(img.Left))
		e.varint(int64(img.Top))
		e.uvarint(uint64(img.Width))
		e.uvarint(uint64(len(img.Data)))
	}
	e.uvarint(uint64(e.heapSz))
	for _, img := range e.table {
		e.buf = append(e.buf, img.Data...)
	}
}

func (e *encoder) entry(en *charmap.Entry) {
	e.str(en.Key)
	e.uvarint(uint64(en.AdvanceChars)) //nolint:gosec // rune counts are non-negative
	e.float(en.Advances.Default)
	pairs := en.Advances.Pairs()
	e.uvarint(uint64(len(pairs)))
	for _, p := range pairs {
		e.str(p.Key)
		e.float(p.Width)
	}

	// Each glyph but the last is followed by the offset of its successor.
	e.uvarint(uint64(en.Glyph.Len()))
	for g := &en.Glyph; g != nil; g = next(g) {
		e.buf = bo.AppendUint16(e.buf, g.ID)
		e.imageSet(g.Images)
		if g.Next != nil {
			e.float(g.Next.XOffset)
			e.float(g.Next.YOffset)
		}
	}
}

func (e *encoder) imageSet(s bitmap.ImageSet) {
	images := s.Images()
	e.uvarint(uint64(len(images)))
	for _, img := range images {
		e.uvarint(e.index[imageKey{img.Left, img.Top, img.Width, string(img.Data)}])
	}
}

func (e *encoder) metrics(m mplus.Metrics) {
	for _, v := range []float32{m.Top, m.Ascender, m.CapHeight, m.XHeight, m.Baseline, m.Descender, m.Bottom} {
		e.float(v)
	}
}

func (e *encoder) decoration(d mplus.Decoration) {
	e.float(d.Offset)
	e.float(d.Height)
}

func (e *encoder) float(v float32) {
	e.buf = bo.AppendUint32(e.buf, math.Float32bits(v))
}

func (e *encoder) uvarint(v uint64) {
	e.buf = binary.AppendUvarint(e.buf, v)
}

func (e *encoder) varint(v int64) {
	e.buf = binary.AppendVarint(e.buf, v)
}

func (e *encoder) str(s string) {
	e.uvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

func next(g *charmap.Glyph) *charmap.Glyph {
	if g.Next == nil {
		return nil
	}
	return &g.Next.Glyph
}
