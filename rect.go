package mplus

import (
	"image"
	"math"
)

// Rectangle is an axis-aligned area with a signed origin and an unsigned
// size. All operations saturate instead of overflowing, so that geometry
// derived from arbitrary text never panics.
type Rectangle struct {
	X, Y          int32
	Width, Height uint32
}

// Rect returns the rectangle with the given origin and size.
func Rect(x, y int32, width, height uint32) Rectangle {
	return Rectangle{X: x, Y: y, Width: width, Height: height}
}

func clampInt32(v int64) int32 {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}

func clampUint32(v int64) uint32 {
	switch {
	case v > math.MaxUint32:
		return math.MaxUint32
	case v < 0:
		return 0
	default:
		return uint32(v)
	}
}

func addUnsigned(a int32, b uint32) int32 { return clampInt32(int64(a) + int64(b)) }
func subSigned(a, b int32) int32          { return clampInt32(int64(a) - int64(b)) }
func addSigned(a, b int32) int32          { return clampInt32(int64(a) + int64(b)) }

// nonNegative converts v to a size, mapping negative values to zero.
func nonNegative(v int32) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}

func subSize(a, b uint32) uint32 {
	if b > a {
		return 0
	}
	return a - b
}

func addSize(a, b uint32) uint32 { return clampUint32(int64(a) + int64(b)) }

// Right returns the x coordinate one past the right edge.
func (r Rectangle) Right() int32 { return addUnsigned(r.X, r.Width) }

// Bottom returns the y coordinate one past the bottom edge.
func (r Rectangle) Bottom() int32 { return addUnsigned(r.Y, r.Height) }

// Empty reports whether the rectangle covers no pixels.
func (r Rectangle) Empty() bool { return r.Width == 0 || r.Height == 0 }

// Image converts r to an image.Rectangle.
func (r Rectangle) Image() image.Rectangle {
	x, y := int(r.X), int(r.Y)
	return image.Rect(x, y, x+int(r.Width), y+int(r.Height))
}

// Translate moves the rectangle by (dx, dy).
func (r Rectangle) Translate(dx, dy int32) Rectangle {
	r.X = addSigned(r.X, dx)
	r.Y = addSigned(r.Y, dy)
	return r
}

// Intersection returns the area covered by both rectangles, or the zero
// rectangle when they do not overlap.
func (r Rectangle) Intersection(o Rectangle) Rectangle {
	if r.Empty() || o.Empty() {
		return Rectangle{}
	}
	x0 := max(int64(r.X), int64(o.X))
	y0 := max(int64(r.Y), int64(o.Y))
	x1 := min(int64(r.X)+int64(r.Width), int64(o.X)+int64(o.Width))
	y1 := min(int64(r.Y)+int64(r.Height), int64(o.Y)+int64(o.Height))
	if x1 <= x0 || y1 <= y0 {
		return Rectangle{}
	}
	return Rectangle{X: int32(x0), Y: int32(y0), Width: uint32(x1 - x0), Height: uint32(y1 - y0)}
}

// LeftHalf returns the left half, rounding the width down.
func (r Rectangle) LeftHalf() Rectangle {
	r.Width /= 2
	return r
}

// RightHalf returns the right half, which takes the odd column.
func (r Rectangle) RightHalf() Rectangle {
	half := r.Width / 2
	r.X = addUnsigned(r.X, half)
	r.Width -= half
	return r
}

// LeftOf returns the part of r left of o's left edge.
func (r Rectangle) LeftOf(o Rectangle) Rectangle {
	r.Width = min(r.Width, nonNegative(subSigned(o.X, r.X)))
	return r
}

// RightOf returns the part of r right of o's right edge.
func (r Rectangle) RightOf(o Rectangle) Rectangle {
	right := o.Right()
	width := nonNegative(subSigned(right, r.X))
	r.X = max(r.X, right)
	r.Width = subSize(r.Width, width)
	return r
}

// Above returns the part of r above o's top edge.
func (r Rectangle) Above(o Rectangle) Rectangle {
	r.Height = min(r.Height, nonNegative(subSigned(o.Y, r.Y)))
	return r
}

// Below returns the part of r below o's bottom edge.
func (r Rectangle) Below(o Rectangle) Rectangle {
	bottom := o.Bottom()
	height := nonNegative(subSigned(bottom, r.Y))
	r.Y = max(r.Y, bottom)
	r.Height = subSize(r.Height, height)
	return r
}

// YExtend grows r vertically so that it spans at least top to bottom.
func (r Rectangle) YExtend(top, bottom int32) Rectangle {
	grown := addSize(r.Height, nonNegative(subSigned(r.Y, top)))
	r.Y = min(r.Y, top)
	r.Height = max(grown, nonNegative(subSigned(bottom, r.Y)))
	return r
}

// YReduce shrinks r vertically so that it lies within top to bottom.
func (r Rectangle) YReduce(top, bottom int32) Rectangle {
	r.Y = max(r.Y, top)
	r.Height = min(r.Height, nonNegative(subSigned(bottom, r.Y)))
	return r
}

// IndentTo moves the left edge of r to right, if right lies inside r.
func (r Rectangle) IndentTo(right int32) Rectangle {
	width := nonNegative(subSigned(right, r.X))
	r.X = max(r.X, right)
	r.Width = subSize(r.Width, width)
	return r
}

// ExtrudeTo moves the right edge of r to right, if right lies beyond it.
func (r Rectangle) ExtrudeTo(right int32) Rectangle {
	r.Width = max(r.Width, nonNegative(subSigned(right, r.X)))
	return r
}
