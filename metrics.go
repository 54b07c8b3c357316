package mplus

import (
	"fmt"
	"math"
)

// Baseline selects which line of the font the y coordinate of a draw call
// refers to.
type Baseline uint8

const (
	// Top aligns the top of the line box.
	Top Baseline = iota
	// Middle aligns half the x-height above the alphabetic baseline.
	Middle
	// Alphabetic aligns the baseline letters sit on.
	Alphabetic
	// Bottom aligns the bottom of the line box.
	Bottom
)

// String returns the baseline name.
func (b Baseline) String() string {
	switch b {
	case Top:
		return "Top"
	case Middle:
		return "Middle"
	case Alphabetic:
		return "Alphabetic"
	case Bottom:
		return "Bottom"
	default:
		return fmt.Sprintf("Baseline(%d)", uint8(b))
	}
}

// Metrics are the vertical metrics of a bitmap font in fractional pixels
// above the alphabetic baseline. They satisfy
// Top >= Ascender >= CapHeight >= XHeight >= Baseline >= Descender >= Bottom.
type Metrics struct {
	Top       float32
	Ascender  float32
	CapHeight float32
	XHeight   float32
	Baseline  float32
	Descender float32
	Bottom    float32
}

// truncate converts v to int32, rounding toward zero and saturating at the
// int32 range. NaN maps to 0.
func truncate(v float32) int32 {
	switch {
	case v != v:
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}

// roundUp truncates v and adds one when the remainder of v divided by d is
// positive, so that positive fractions round up and negative ones round
// toward zero.
func roundUp(v, d float32) int32 {
	n := truncate(v / d)
	if math.Mod(float64(v), float64(d)) > 0 {
		n++
	}
	return n
}

// YOffset returns the distance in whole pixels from the alphabetic
// baseline up to the given baseline.
func (m Metrics) YOffset(b Baseline) int32 {
	switch b {
	case Top:
		return roundUp(m.Top, 1)
	case Bottom:
		return roundUp(m.Bottom, 1)
	case Middle:
		return roundUp(m.XHeight, 2)
	default:
		return roundUp(m.Baseline, 1)
	}
}

// LineHeight returns the distance in whole pixels from the top of the line
// to its bottom.
func (m Metrics) LineHeight() uint32 {
	return uint32(m.YOffset(Top) - m.YOffset(Bottom)) //nolint:gosec // Top is never below Bottom
}

// Valid reports whether the metrics are ordered from top to bottom.
func (m Metrics) Valid() bool {
	return m.Top >= m.Ascender &&
		m.Ascender >= m.CapHeight &&
		m.CapHeight >= m.XHeight &&
		m.XHeight >= m.Baseline &&
		m.Baseline >= m.Descender &&
		m.Descender >= m.Bottom
}

// Decoration gives the placement of an underline or strikethrough: Offset is
// the distance from the baseline up to the top of the line, Height its
// thickness.
type Decoration struct {
	Offset float32
	Height float32
}

// YOffset returns Offset in whole pixels.
func (d Decoration) YOffset() int32 {
	return roundUp(d.Offset, 1)
}

// StrokeWidth returns Height in whole pixels.
func (d Decoration) StrokeWidth() uint32 {
	return nonNegative(roundUp(d.Height, 1))
}
