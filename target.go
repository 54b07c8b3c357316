package mplus

import (
	"image"
	"image/color"
	"image/draw"
	"iter"
)

// DrawTarget is a surface the renderer writes to. Implementations clip
// areas to their own bounds; the renderer never asks for empty areas.
type DrawTarget[C any] interface {
	// Bounds returns the drawable area.
	Bounds() image.Rectangle

	// FillSolid fills area with one color.
	FillSolid(area Rectangle, c C) error

	// FillContiguous fills area row by row, left to right, with the colors
	// yielded by colors. It stops early when colors is exhausted.
	FillContiguous(area Rectangle, colors iter.Seq[C]) error
}

// ImageTarget adapts a [draw.Image] to a DrawTarget. Colors are written
// through the image's color model.
type ImageTarget[C color.Color] struct {
	Image draw.Image
}

// NewImageTarget returns a DrawTarget that writes to img.
func NewImageTarget[C color.Color](img draw.Image) *ImageTarget[C] {
	return &ImageTarget[C]{Image: img}
}

// Bounds implements DrawTarget.
func (t *ImageTarget[C]) Bounds() image.Rectangle {
	return t.Image.Bounds()
}

// FillSolid implements DrawTarget.
func (t *ImageTarget[C]) FillSolid(area Rectangle, c C) error {
	r := area.Image().Intersect(t.Image.Bounds())
	if r.Empty() {
		return nil
	}
	draw.Draw(t.Image, r, image.NewUniform(c), image.Point{}, draw.Src)
	return nil
}

// FillContiguous implements DrawTarget.
func (t *ImageTarget[C]) FillContiguous(area Rectangle, colors iter.Seq[C]) error {
	bounds := t.Image.Bounds()
	for p, c := range pointsOf(area, colors) {
		if p.In(bounds) {
			t.Image.Set(p.X, p.Y, c)
		}
	}
	return nil
}

// pointsOf pairs the colors of a contiguous fill with the points they
// belong to.
func pointsOf[C any](area Rectangle, colors iter.Seq[C]) iter.Seq2[image.Point, C] {
	return func(yield func(image.Point, C) bool) {
		if area.Empty() {
			return
		}
		r := area.Image()
		p := r.Min
		for c := range colors {
			if !yield(p, c) {
				return
			}
			p.X++
			if p.X == r.Max.X {
				p.X = r.Min.X
				p.Y++
				if p.Y == r.Max.Y {
					return
				}
			}
		}
	}
}
