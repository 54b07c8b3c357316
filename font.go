package mplus

import (
	"github.com/gogpu/mplus/bitmap"
	"github.com/gogpu/mplus/charmap"
)

// BitmapFont is a compiled font at one pixel size. It is immutable and safe
// for concurrent use by any number of styles.
type BitmapFont struct {
	// Charmap maps text to glyph entries.
	Charmap *charmap.Charmap
	// Metrics are the vertical metrics in pixels.
	Metrics Metrics
	// Underline and Strikethrough place the decoration lines.
	Underline     Decoration
	Strikethrough Decoration
	// Positions is the number of sub-pixel offsets glyph images were
	// rendered at.
	Positions int
	// BitDepth is the number of bits per pixel of glyph images.
	BitDepth int
}

// nullFont renders every character as an empty glyph with zero advance. It
// stands in for a style without a font.
var nullFont = &BitmapFont{
	Charmap:   charmap.Build(nil, charmap.NewEntry(charmap.NotDefined, charmap.Glyph{}, 0)),
	Positions: 1,
	BitDepth:  1,
}

// Levels returns the number of gray levels of the font's glyph images.
func (f *BitmapFont) Levels() int {
	return bitmap.Levels(f.BitDepth)
}

// LineHeight returns the height of a line of text in pixels.
func (f *BitmapFont) LineHeight() uint32 {
	return f.Metrics.LineHeight()
}
