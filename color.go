package mplus

import (
	"fmt"
	"image/color"
)

// Color is the constraint satisfied by the pixel colors the renderer can
// draw with. Every color also implements [color.Color] so that it can be
// written to a standard [image/draw.Image].
type Color[C any] interface {
	comparable
	color.Color

	// Linear returns the color at step index of a ramp with the given number
	// of steps, from the receiver (index 0) to end (index steps-1).
	Linear(end C, index, steps int) C

	// Screen mixes the receiver with other in screen mode on the ramp from
	// start to end.
	Screen(other, start, end C) C

	// Invert returns the color with every channel mirrored.
	Invert() C
}

// Fixed-point precisions of the ramp and screen computations.
const (
	linearShift = 23
	screenShift = 15
)

// linearChannel interpolates one channel value at step index of a ramp.
// Arithmetic is done in int32 with round-half-up so that every platform
// produces the same ramp.
func linearChannel(index, steps int, start, end uint8) uint8 {
	const half = int32(1) << (linearShift - 1)
	diff := int32(end) - int32(start)
	a := (diff << linearShift) / int32(steps-1) //nolint:gosec // steps is at most 256
	b := int32(start) << linearShift
	result := a*int32(index) + b + half //nolint:gosec // index is below steps
	return uint8(result >> linearShift) //nolint:gosec // result lies within [start, end]
}

// screenChannel mixes two channel values that lie on the ramp from start to
// end: end - (end-first)(end-second)/(end-start).
func screenChannel(first, second, start, end uint8) uint8 {
	const half = int32(1) << (screenShift - 1)
	if start == end {
		return start
	}
	diff := int32(end) - int32(start)
	f := int32(end) - int32(first)
	s := int32(end) - int32(second)
	product := f * ((s << screenShift) + half)
	minuend := (int32(end) << screenShift) + half
	return uint8((minuend - product/diff) >> screenShift) //nolint:gosec // result lies on the ramp
}

// BinaryColor is a two-state color.
type BinaryColor bool

const (
	// Off is the default state.
	Off BinaryColor = false
	// On is the inverse of Off.
	On BinaryColor = true
)

// RGBA implements color.Color. On is white.
func (c BinaryColor) RGBA() (r, g, b, a uint32) {
	if c {
		return 0xffff, 0xffff, 0xffff, 0xffff
	}
	return 0, 0, 0, 0xffff
}

// Linear returns c for the lower half of the ramp and end for the upper
// half.
func (c BinaryColor) Linear(end BinaryColor, index, steps int) BinaryColor {
	if index < steps/2 {
		return c
	}
	return end
}

// Screen returns end if either color is end, else start.
func (c BinaryColor) Screen(other, start, end BinaryColor) BinaryColor {
	if c == end || other == end {
		return end
	}
	return start
}

// Invert returns the other state.
func (c BinaryColor) Invert() BinaryColor { return !c }

// String returns "On" or "Off".
func (c BinaryColor) String() string {
	if c {
		return "On"
	}
	return "Off"
}

// Gray2 is a 2-bit gray level in [0, 3].
type Gray2 uint8

// Gray4 is a 4-bit gray level in [0, 15].
type Gray4 uint8

// Gray8 is an 8-bit gray level.
type Gray8 uint8

// Maximum luma values.
const (
	MaxGray2 Gray2 = 3
	MaxGray4 Gray4 = 15
	MaxGray8 Gray8 = 255
)

// RGBA implements color.Color.
func (c Gray2) RGBA() (r, g, b, a uint32) {
	v := uint32(c&3) * 0x5555
	return v, v, v, 0xffff
}

// Linear implements Color.
func (c Gray2) Linear(end Gray2, index, steps int) Gray2 {
	return Gray2(linearChannel(index, steps, uint8(c), uint8(end)))
}

// Screen implements Color.
func (c Gray2) Screen(other, start, end Gray2) Gray2 {
	return Gray2(screenChannel(uint8(c), uint8(other), uint8(start), uint8(end)))
}

// Invert implements Color.
func (c Gray2) Invert() Gray2 { return MaxGray2 - c }

// RGBA implements color.Color.
func (c Gray4) RGBA() (r, g, b, a uint32) {
	v := uint32(c&15) * 0x1111
	return v, v, v, 0xffff
}

// Linear implements Color.
func (c Gray4) Linear(end Gray4, index, steps int) Gray4 {
	return Gray4(linearChannel(index, steps, uint8(c), uint8(end)))
}

// Screen implements Color.
func (c Gray4) Screen(other, start, end Gray4) Gray4 {
	return Gray4(screenChannel(uint8(c), uint8(other), uint8(start), uint8(end)))
}

// Invert implements Color.
func (c Gray4) Invert() Gray4 { return MaxGray4 - c }

// RGBA implements color.Color.
func (c Gray8) RGBA() (r, g, b, a uint32) {
	v := uint32(c) * 0x101
	return v, v, v, 0xffff
}

// Linear implements Color.
func (c Gray8) Linear(end Gray8, index, steps int) Gray8 {
	return Gray8(linearChannel(index, steps, uint8(c), uint8(end)))
}

// Screen implements Color.
func (c Gray8) Screen(other, start, end Gray8) Gray8 {
	return Gray8(screenChannel(uint8(c), uint8(other), uint8(start), uint8(end)))
}

// Invert implements Color.
func (c Gray8) Invert() Gray8 { return MaxGray8 - c }

// Rgb565 is a 16-bit color with 5 bits of red, 6 of green and 5 of blue.
// Channels hold their native ranges, not 8-bit values.
type Rgb565 struct {
	R, G, B uint8
}

// Channel maxima of Rgb565.
const (
	MaxR565 = 31
	MaxG565 = 63
	MaxB565 = 31
)

// RGBA implements color.Color.
func (c Rgb565) RGBA() (r, g, b, a uint32) {
	r8 := uint32(c.R&MaxR565)<<3 | uint32(c.R&MaxR565)>>2
	g8 := uint32(c.G&MaxG565)<<2 | uint32(c.G&MaxG565)>>4
	b8 := uint32(c.B&MaxB565)<<3 | uint32(c.B&MaxB565)>>2
	return r8 * 0x101, g8 * 0x101, b8 * 0x101, 0xffff
}

// Linear implements Color.
func (c Rgb565) Linear(end Rgb565, index, steps int) Rgb565 {
	return Rgb565{
		R: linearChannel(index, steps, c.R, end.R),
		G: linearChannel(index, steps, c.G, end.G),
		B: linearChannel(index, steps, c.B, end.B),
	}
}

// Screen implements Color.
func (c Rgb565) Screen(other, start, end Rgb565) Rgb565 {
	return Rgb565{
		R: screenChannel(c.R, other.R, start.R, end.R),
		G: screenChannel(c.G, other.G, start.G, end.G),
		B: screenChannel(c.B, other.B, start.B, end.B),
	}
}

// Invert implements Color.
func (c Rgb565) Invert() Rgb565 {
	return Rgb565{R: MaxR565 - c.R, G: MaxG565 - c.G, B: MaxB565 - c.B}
}

// Rgb888 is a 24-bit color.
type Rgb888 struct {
	R, G, B uint8
}

// RGBA implements color.Color.
func (c Rgb888) RGBA() (r, g, b, a uint32) {
	return uint32(c.R) * 0x101, uint32(c.G) * 0x101, uint32(c.B) * 0x101, 0xffff
}

// Linear implements Color.
func (c Rgb888) Linear(end Rgb888, index, steps int) Rgb888 {
	return Rgb888{
		R: linearChannel(index, steps, c.R, end.R),
		G: linearChannel(index, steps, c.G, end.G),
		B: linearChannel(index, steps, c.B, end.B),
	}
}

// Screen implements Color.
func (c Rgb888) Screen(other, start, end Rgb888) Rgb888 {
	return Rgb888{
		R: screenChannel(c.R, other.R, start.R, end.R),
		G: screenChannel(c.G, other.G, start.G, end.G),
		B: screenChannel(c.B, other.B, start.B, end.B),
	}
}

// Invert implements Color.
func (c Rgb888) Invert() Rgb888 {
	return Rgb888{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B}
}

// String returns the color in #rrggbb notation.
func (c Rgb888) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Rgb888Model converts any color to Rgb888, dropping alpha.
var Rgb888Model = color.ModelFunc(func(c color.Color) color.Color {
	if v, ok := c.(Rgb888); ok {
		return v
	}
	r, g, b, _ := c.RGBA()
	return Rgb888{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)} //nolint:gosec // 16-bit to 8-bit
})

// Colormap maps the gray levels of a glyph image to colors on a linear ramp
// from a background color to a text color.
type Colormap[C Color[C]] struct {
	colors []C
}

// NewColormap returns a ramp of the given number of steps from start to end.
// steps must be at least 2.
func NewColormap[C Color[C]](start, end C, steps int) Colormap[C] {
	colors := make([]C, steps)
	for i := range colors {
		colors[i] = start.Linear(end, i, steps)
	}
	return Colormap[C]{colors: colors}
}

// Get returns the color for a gray level. Levels wrap modulo the ramp length.
func (m Colormap[C]) Get(level byte) C {
	return m.colors[int(level)%len(m.colors)]
}

// First returns the color at level 0.
func (m Colormap[C]) First() C { return m.colors[0] }

// Last returns the color at the highest level.
func (m Colormap[C]) Last() C { return m.colors[len(m.colors)-1] }

// Len returns the number of levels.
func (m Colormap[C]) Len() int { return len(m.colors) }
