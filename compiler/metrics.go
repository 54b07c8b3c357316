package compiler

import (
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/mplus"
)

// Vertical metrics of the M+ typefaces, in em.
var (
	mplusMetrics = mplus.Metrics{
		Top:       1.16,
		Ascender:  0.86,
		CapHeight: 0.73,
		XHeight:   0.52,
		Descender: -0.12,
		Bottom:    -0.288,
	}
	mplusCodeMetrics = mplus.Metrics{
		Top:       1.235,
		Ascender:  1.0,
		CapHeight: 0.73,
		XHeight:   0.52,
		Descender: -0.235,
		Bottom:    -0.27,
	}
)

// Decoration dimensions, in em.
var (
	underline     = mplus.Decoration{Offset: -0.1, Height: 0.05}
	strikethrough = mplus.Decoration{Offset: 0.312, Height: 0.05}
)

func scaleMetrics(m mplus.Metrics, size float32) mplus.Metrics {
	return mplus.Metrics{
		Top:       m.Top * size,
		Ascender:  m.Ascender * size,
		CapHeight: m.CapHeight * size,
		XHeight:   m.XHeight * size,
		Baseline:  m.Baseline * size,
		Descender: m.Descender * size,
		Bottom:    m.Bottom * size,
	}
}

func scaleDecoration(d mplus.Decoration, size float32) mplus.Decoration {
	return mplus.Decoration{Offset: d.Offset * size, Height: d.Height * size}
}

// fontMetrics returns the vertical metrics of a face at the given size.
// M+ typefaces use their design metrics; others are measured from the font
// tables, with missing heights estimated from the M+ proportions.
func fontMetrics(t *Typeface, face *loadedFace, size float32, hint bool) mplus.Metrics {
	if t.Numbering() == NumberingMPLUS {
		if t.Monospace() {
			return scaleMetrics(mplusCodeMetrics, size)
		}
		return scaleMetrics(mplusMetrics, size)
	}

	hinting := xfont.HintingNone
	if hint {
		hinting = xfont.HintingFull
	}
	var buf sfnt.Buffer
	fm, err := face.outline.Metrics(&buf, fixed.Int26_6(size*64), hinting)
	if err != nil {
		return scaleMetrics(mplusMetrics, size)
	}

	ascent := fixedToFloat(fm.Ascent)
	descent := fixedToFloat(fm.Descent)
	m := mplus.Metrics{
		Top:       max(fixedToFloat(fm.Height)-descent, ascent),
		Ascender:  ascent,
		CapHeight: fixedToFloat(fm.CapHeight),
		XHeight:   fixedToFloat(fm.XHeight),
		Descender: -descent,
		Bottom:    -descent,
	}
	if m.CapHeight <= 0 {
		m.CapHeight = mplusMetrics.CapHeight * size
	}
	if m.XHeight <= 0 {
		m.XHeight = mplusMetrics.XHeight * size
	}
	m.CapHeight = min(m.CapHeight, m.Ascender)
	m.XHeight = min(m.XHeight, m.CapHeight)
	return m
}
