// Package spacing rounds glyph advances onto the half-width grid used by
// fixed-pitch typefaces.
//
// The grid unit depends only on the pixel size and the width axis of the
// typeface. Very small sizes cannot resolve a grid at all, so the policy
// degrades to a coarser strategy instead of producing noisy cells.
package spacing

import (
	"fmt"
	"math"
)

// Proportional is the half-width size, in em, assumed for proportional
// typefaces.
const Proportional float32 = 0.5

// Size thresholds, in pixels per em, that select a Strategy.
const (
	zeroBelow = 1.25
	ceilBelow = 2.0
)

// ceilDivisor shrinks advances under the Ceil strategy.
const ceilDivisor = 1.2

// stepSlack is the fraction of a half-width an advance may overshoot a grid
// step before it is rounded up to the next one.
const stepSlack = 0.4

// Strategy identifies how advances are rounded.
type Strategy uint8

const (
	// Zero collapses every advance to zero.
	Zero Strategy = iota
	// Ceil divides advances by 1.2 and rounds away from zero.
	Ceil
	// Floor snaps advances to multiples of the half-width unit.
	Floor
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case Zero:
		return "Zero"
	case Ceil:
		return "Ceil"
	case Floor:
		return "Floor"
	default:
		return fmt.Sprintf("Strategy(%d)", s)
	}
}

// Policy is the advance rounding rule for one pixel size.
// The zero value is the Zero strategy.
type Policy struct {
	strategy  Strategy
	halfwidth float32
}

// New selects a policy for the given pixel size and half-width in em.
func New(pixelsPerEm, emPerHalfwidth float32) Policy {
	switch {
	case pixelsPerEm < zeroBelow:
		return Policy{strategy: Zero}
	case pixelsPerEm < ceilBelow:
		return Policy{strategy: Ceil}
	default:
		return Policy{strategy: Floor, halfwidth: pixelsPerEm * emPerHalfwidth}
	}
}

// EmPerHalfwidth returns the half-width in em for a fixed-pitch typeface with
// the given width axis value (100 is normal).
func EmPerHalfwidth(width int) float32 {
	return 0.1 + float32(width)*0.004
}

// Strategy returns the selected strategy.
func (p Policy) Strategy() Strategy { return p.strategy }

// Halfwidth returns the grid unit in pixels. It is zero unless the strategy
// is Floor.
func (p Policy) Halfwidth() float32 { return p.halfwidth }

// Halfwidths rounds advance onto the grid. The sign of advance is kept and a
// zero advance stays zero.
func (p Policy) Halfwidths(advance float32) float32 {
	if advance == 0 {
		return advance
	}
	a := float64(advance)
	sign := math.Copysign(1, a)
	switch p.strategy {
	case Ceil:
		return float32(sign * math.Ceil(math.Abs(a)/ceilDivisor))
	case Floor:
		h := float64(p.halfwidth)
		abs := sign * math.Floor(a)
		n := math.Floor(h)
		for abs > n+stepSlack*h {
			n += h
		}
		return float32(sign * math.Floor(n))
	default:
		return 0
	}
}

// Padding returns the amount added on each side of a glyph so that it stays
// centered in its rounded cell.
func (p Policy) Padding(advance float32) float32 {
	return (p.Halfwidths(advance) - advance) / 2
}

// Counteract shifts a negative overlay offset by the fractional part of the
// grid unit, so that marks drawn left of the pen land on the glyph they
// belong to after rounding.
func (p Policy) Counteract(xOffset float32) float32 {
	if p.strategy != Floor || xOffset >= 0 {
		return xOffset
	}
	_, frac := math.Modf(float64(p.halfwidth))
	return xOffset + float32(frac)
}

// Aligner applies a Policy to fixed-pitch typefaces only.
type Aligner struct {
	Monospace bool
	Policy    Policy
}

// Advance returns the aligned advance.
func (a Aligner) Advance(advance float32) float32 {
	if !a.Monospace {
		return advance
	}
	return a.Policy.Halfwidths(advance)
}

// Padding returns the per-side centering pad, zero for proportional faces.
func (a Aligner) Padding(advance float32) float32 {
	if !a.Monospace {
		return 0
	}
	return a.Policy.Padding(advance)
}

// XOffset returns the aligned overlay offset.
func (a Aligner) XOffset(xOffset float32) float32 {
	if !a.Monospace {
		return xOffset
	}
	return a.Policy.Counteract(xOffset)
}
