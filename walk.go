package mplus

import (
	"unicode/utf8"

	"github.com/gogpu/mplus/bitmap"
	"github.com/gogpu/mplus/charmap"
)

// placedImage is a glyph image positioned on the target.
type placedImage struct {
	img     bitmap.Image
	box     Rectangle
	overlay bool
}

// level returns the gray level of the image pixel at target point (x, y).
func (p placedImage) level(x, y int32, depth int) byte {
	return p.img.Level(int(x)-int(p.box.X), int(y)-int(p.box.Y), depth)
}

// glyphWalker turns text into placed glyph images.
//
// The walker alternates between seeking the next charmap entry and
// emitting the overlay chain of the glyph emitted last. Overlays are
// positioned after the cursor has moved past their base cluster, which
// is the reference point the compiler stores their offsets against.
type glyphWalker struct {
	font *BitmapFont
	text string
	x    float32
	y    float32

	pending  *charmap.Entry
	overlay  *charmap.NextGlyph
	previous *charmap.Entry
}

func newGlyphWalker(font *BitmapFont, text string, x, y float32) *glyphWalker {
	return &glyphWalker{font: font, text: text, x: x, y: y}
}

// next returns the next placed image, or false when the text and every
// pending overlay are exhausted.
func (w *glyphWalker) next() (placedImage, bool) {
	entry := w.pending
	if entry == nil {
		if w.text == "" {
			if w.previous != nil {
				w.x += w.previous.AdvanceWidthTo("")
				w.previous = nil
			}
			if w.overlay == nil {
				return placedImage{}, false
			}
			return w.emitOverlay(), true
		}

		entry = w.font.Charmap.Lookup(w.text)
		if w.previous != nil {
			w.x += w.previous.AdvanceWidthTo(entry.Key)
		}
		w.previous = entry
		w.consume(entry.AdvanceChars)
	}

	if w.overlay != nil {
		w.pending = entry
		return w.emitOverlay(), true
	}

	img := w.place(&entry.Glyph, w.x, w.y, false)
	w.overlay = entry.Glyph.Next
	w.pending = nil
	return img, true
}

// consume drops n characters from the remaining text, at least one.
func (w *glyphWalker) consume(n int) {
	for i := 0; i < max(n, 1) && w.text != ""; i++ {
		_, size := utf8.DecodeRuneInString(w.text)
		w.text = w.text[size:]
	}
}

func (w *glyphWalker) emitOverlay() placedImage {
	next := w.overlay
	img := w.place(&next.Glyph, w.x+next.XOffset, w.y-next.YOffset, true)
	w.overlay = next.Glyph.Next
	return img
}

// place selects the sub-pixel image of g for pen position (x, y).
func (w *glyphWalker) place(g *charmap.Glyph, x, y float32, overlay bool) placedImage {
	index := truncate(x * float32(w.font.Positions))
	img := g.Images.At(int(max(index, 0)))
	box := Rectangle{
		X:      addSigned(truncate(x), img.Left),
		Y:      subSigned(truncate(y), img.Top),
		Width:  img.Width,
		Height: img.Height(w.font.BitDepth),
	}
	return placedImage{img: img, box: box, overlay: overlay}
}
