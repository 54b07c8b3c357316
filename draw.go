package mplus

import (
	"image"
	"iter"
	"math"
)

// TextMetrics is the result of measuring a string.
type TextMetrics struct {
	// BoundingBox spans the line box from the start position to the right
	// edge of the rightmost glyph image.
	BoundingBox Rectangle
	// NextPosition is where the next draw call continues the line.
	NextPosition image.Point
}

// lineBox holds the vertical placement shared by the draw calls.
type lineBox struct {
	y, top, bottom int32
	height         uint32
}

func (s *Style[C]) font() *BitmapFont {
	if s.Font == nil {
		return nullFont
	}
	return s.Font
}

func (s *Style[C]) lineBox(py int32, baseline Baseline) lineBox {
	m := s.font().Metrics
	y := addSigned(py, m.YOffset(baseline))
	top := subSigned(y, m.YOffset(Top))
	bottom := subSigned(y, m.YOffset(Bottom))
	return lineBox{y: y, top: top, bottom: bottom, height: nonNegative(subSigned(bottom, top))}
}

// LineHeight returns the height of a line of text in pixels.
func (s *Style[C]) LineHeight() uint32 {
	return s.font().LineHeight()
}

// MeasureString returns the bounding box of text drawn at pos and the
// position a following draw call continues from.
func (s *Style[C]) MeasureString(text string, pos image.Point, baseline Baseline) TextMetrics {
	px, py := clampInt(pos.X), clampInt(pos.Y)
	lb := s.lineBox(py, baseline)
	right := px
	w := newGlyphWalker(s.font(), text, float32(px), float32(lb.y))
	for img, ok := w.next(); ok; img, ok = w.next() {
		right = max(right, img.box.Right())
	}
	return TextMetrics{
		BoundingBox:  Rect(px, lb.top, nonNegative(subSigned(right, px)), lb.height),
		NextPosition: image.Pt(int(truncate(w.x)), pos.Y),
	}
}

// DrawString draws text with its left edge at pos.X and the given baseline
// at pos.Y, and returns the position the next draw call continues from.
//
// The line box is filled with the background color from pos.X to the
// returned position. Where neighboring glyph images overlap, their colors
// are mixed in screen mode so that neither glyph erases the other.
// Errors from target are returned unchanged.
func (s *Style[C]) DrawString(text string, pos image.Point, baseline Baseline, target DrawTarget[C]) (image.Point, error) {
	font := s.font()
	px, py := clampInt(pos.X), clampInt(pos.Y)
	lb := s.lineBox(py, baseline)
	r := renderer[C]{
		target: target,
		depth:  font.BitDepth,
		bg:     s.backgroundColor(),
		cm:     NewColormap(s.backgroundColor(), s.textColor(), font.Levels()),
	}
	lineStrip := Rect(px, lb.top, math.MaxUint32, lb.height)

	right := px
	previousRight := px
	var prev *placedImage
	w := newGlyphWalker(font, text, float32(px), float32(lb.y))
	for img, ok := w.next(); ok; img, ok = w.next() {
		box := img.box
		right = max(right, box.Right())
		linePiece := lineStrip.LeftOf(box)

		var clipArea Rectangle
		if prev != nil {
			prevBox := prev.box
			prh := prevBox.IndentTo(previousRight)
			if err := r.fill(linePiece.RightOf(prh)); err != nil {
				return image.Point{}, err
			}

			left := prh.LeftOf(box).YExtend(lb.top, lb.bottom)
			rightPart := prh.RightOf(box).YExtend(lb.top, lb.bottom)
			middle := prh.LeftOf(rightPart).RightOf(left).YExtend(lb.top, lb.bottom)
			for _, clip := range [...]Rectangle{left, rightPart, middle.Above(box), middle.Below(box)} {
				if err := r.glyph(*prev, clip); err != nil {
					return image.Point{}, err
				}
				if err := r.fill(clip.Above(prevBox)); err != nil {
					return image.Point{}, err
				}
				if err := r.fill(clip.Below(prevBox)); err != nil {
					return image.Point{}, err
				}
			}

			var imageBox Rectangle
			if img.overlay {
				imageBox = box.YReduce(lb.top, lb.bottom)
				if err := r.glyph(img, imageBox.LeftOf(prevBox)); err != nil {
					return image.Point{}, err
				}
			} else {
				imageBox = box.LeftHalf()
			}

			column := prevBox.YExtend(lb.top, lb.bottom)
			if err := r.glyph(img, column.Above(prevBox)); err != nil {
				return image.Point{}, err
			}
			if err := r.glyph(img, column.Below(prevBox)); err != nil {
				return image.Point{}, err
			}
			if err := r.mixed(img, *prev); err != nil {
				return image.Point{}, err
			}
			clipArea = imageBox.RightOf(prevBox)
		} else {
			if err := r.fill(linePiece); err != nil {
				return image.Point{}, err
			}
			clipArea = box.LeftHalf()
		}
		if err := r.glyph(img, clipArea); err != nil {
			return image.Point{}, err
		}

		indented := clipArea.IndentTo(previousRight)
		column := indented.YExtend(lb.top, lb.bottom)
		if err := r.fill(column.Above(box)); err != nil {
			return image.Point{}, err
		}
		if err := r.fill(column.Below(box)); err != nil {
			return image.Point{}, err
		}

		if !img.overlay {
			placed := img
			prev = &placed
		}
		previousRight = indented.Right()
	}

	if prev != nil {
		prh := prev.box.IndentTo(previousRight)
		if err := r.glyph(*prev, prh); err != nil {
			return image.Point{}, err
		}
		column := prh.YExtend(lb.top, lb.bottom)
		if err := r.fill(column.Above(prev.box)); err != nil {
			return image.Point{}, err
		}
		if err := r.fill(column.Below(prev.box)); err != nil {
			return image.Point{}, err
		}
	}

	xi := truncate(w.x)
	if err := r.fill(Rect(right, lb.top, nonNegative(subSigned(xi, right)), lb.height)); err != nil {
		return image.Point{}, err
	}
	next := image.Pt(int(xi), pos.Y)

	width := nonNegative(subSigned(max(xi, right), px))
	if err := s.drawDecorations(target, font, px, lb.y, width); err != nil {
		return image.Point{}, err
	}
	return next, nil
}

// DrawWhitespace fills width pixels of the line box at pos with the
// background color, draws the decorations across it and returns the
// position after it.
func (s *Style[C]) DrawWhitespace(width uint32, pos image.Point, baseline Baseline, target DrawTarget[C]) (image.Point, error) {
	font := s.font()
	px, py := clampInt(pos.X), clampInt(pos.Y)
	lb := s.lineBox(py, baseline)
	next := image.Pt(int(truncate(float32(px)+float32(width))), pos.Y)

	area := Rect(px, lb.top, width, lb.height)
	if !area.Empty() {
		if err := target.FillSolid(area, s.backgroundColor()); err != nil {
			return image.Point{}, err
		}
	}
	if err := s.drawDecorations(target, font, px, lb.y, width); err != nil {
		return image.Point{}, err
	}
	return next, nil
}

func (s *Style[C]) drawDecorations(target DrawTarget[C], font *BitmapFont, px, y int32, width uint32) error {
	decorations := [...]struct {
		color DecorationColor[C]
		dims  Decoration
	}{
		{s.Underline, font.Underline},
		{s.Strikethrough, font.Strikethrough},
	}
	for _, d := range decorations {
		c, ok := s.decorationColor(d.color)
		if !ok {
			continue
		}
		area := Rect(px, subSigned(y, d.dims.YOffset()), width, d.dims.StrokeWidth())
		if area.Empty() {
			continue
		}
		if err := target.FillSolid(area, c); err != nil {
			return err
		}
	}
	return nil
}

// renderer writes glyph images and background fills for one draw call.
type renderer[C Color[C]] struct {
	target DrawTarget[C]
	depth  int
	bg     C
	cm     Colormap[C]
}

// fill paints area with the background color.
func (r *renderer[C]) fill(area Rectangle) error {
	if area.Empty() {
		return nil
	}
	return r.target.FillSolid(area, r.bg)
}

// glyph draws the part of img that lies inside clip.
func (r *renderer[C]) glyph(img placedImage, clip Rectangle) error {
	area := img.box.Intersection(clip)
	if area.Empty() {
		return nil
	}
	return r.target.FillContiguous(area, r.colors(area, func(x, y int32) C {
		return r.cm.Get(img.level(x, y, r.depth))
	}))
}

// mixed draws the overlap of cur and prev with both colors mixed in screen
// mode.
func (r *renderer[C]) mixed(cur, prev placedImage) error {
	area := cur.box.Intersection(prev.box)
	if area.Empty() {
		return nil
	}
	start, end := r.cm.First(), r.cm.Last()
	if start == end {
		return r.target.FillSolid(area, start)
	}
	return r.target.FillContiguous(area, r.colors(area, func(x, y int32) C {
		first := r.cm.Get(cur.level(x, y, r.depth))
		second := r.cm.Get(prev.level(x, y, r.depth))
		return first.Screen(second, start, end)
	}))
}

func (r *renderer[C]) colors(area Rectangle, at func(x, y int32) C) iter.Seq[C] {
	return func(yield func(C) bool) {
		for y := area.Y; y < area.Bottom(); y++ {
			for x := area.X; x < area.Right(); x++ {
				if !yield(at(x, y)) {
					return
				}
			}
		}
	}
}

// clampInt converts a coordinate to int32, saturating at the int32 range.
func clampInt(v int) int32 {
	return clampInt32(int64(v))
}
