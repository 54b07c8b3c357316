package compiler

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/gogpu/mplus/bitmap"
	"github.com/gogpu/mplus/spacing"
)

// Named weights, in CSS units.
const (
	Thin       = 100
	ExtraLight = 200
	Light      = 300
	Regular    = 400
	Normal     = Regular
	Medium     = 500
	SemiBold   = 600
	Bold       = 700
	ExtraBold  = 800
	Black      = 900
)

// Named widths, in percent of the normal width. Only fixed-pitch typefaces
// use the width.
const (
	WidthNormal   = 100
	WidthExpanded = 125
)

// Parameter limits.
const (
	MinWeight          = Thin
	MaxWeight          = Black
	MaxMonospaceWeight = Bold
	MinWidth           = WidthNormal
	MaxWidth           = WidthExpanded
	MinPositions       = 1
	MaxPositions       = 16
)

// Params describes one compiled bitmap font.
type Params struct {
	Typeface *Typeface
	// Weight selects the face of the typeface.
	Weight int
	// Width sets the half-width grid of fixed-pitch typefaces.
	Width int
	// Size is the font size in pixels per em.
	Size float32
	// Hint rounds the vertical font metrics to whole pixels. Outlines and
	// advances are never hinted.
	Hint bool
	// Positions is the number of sub-pixel offsets rendered per glyph.
	Positions int
	// BitDepth is the number of bits per pixel: 1, 2, 4 or 8.
	BitDepth int
	Sources  []Source
}

// Option configures Params.
type Option func(*Params)

// New returns validated Params for typeface at size pixels per em.
//
// Defaults: regular weight, normal width, 4 positions, 4-bit depth, no
// hinting, no sources.
func New(typeface *Typeface, size float32, opts ...Option) (Params, error) {
	p := Params{
		Typeface:  typeface,
		Weight:    Regular,
		Width:     WidthNormal,
		Size:      size,
		Positions: 4,
		BitDepth:  4,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p, p.Validate()
}

// WithWeight sets the weight.
func WithWeight(weight int) Option {
	return func(p *Params) { p.Weight = weight }
}

// WithWidth sets the width of a fixed-pitch typeface.
func WithWidth(width int) Option {
	return func(p *Params) { p.Width = width }
}

// WithPositions sets the number of sub-pixel positions.
func WithPositions(n int) Option {
	return func(p *Params) { p.Positions = n }
}

// WithBitDepth sets the bits per pixel.
func WithBitDepth(depth int) Option {
	return func(p *Params) { p.BitDepth = depth }
}

// WithHinting enables or disables hinted vertical metrics. Glyph outlines
// and advances are unaffected.
func WithHinting(hint bool) Option {
	return func(p *Params) { p.Hint = hint }
}

// WithSources appends character sources.
func WithSources(sources ...Source) Option {
	return func(p *Params) { p.Sources = append(p.Sources, sources...) }
}

// Validate checks every parameter and returns all violations joined.
// Individual violations are *RangeError values.
func (p Params) Validate() error {
	var errs []error
	if p.Typeface == nil {
		return ErrNoTypeface
	}

	maxWeight := MaxWeight
	if p.Typeface.Monospace() {
		maxWeight = MaxMonospaceWeight
	}
	if p.Weight < MinWeight || p.Weight > maxWeight {
		errs = append(errs, betweenError("weight", MinWeight, maxWeight, p.Weight))
	}
	if p.Typeface.Monospace() && (p.Width < MinWidth || p.Width > MaxWidth) {
		errs = append(errs, betweenError("width", MinWidth, MaxWidth, p.Width))
	}
	if !(p.Size > 0) || math.IsInf(float64(p.Size), 1) {
		errs = append(errs, &RangeError{
			Param:   "size",
			Message: "expected number greater than `0`, found `" + formatFloat(p.Size) + "`",
		})
	}
	if p.Positions < MinPositions || p.Positions > MaxPositions {
		errs = append(errs, betweenError("positions", MinPositions, MaxPositions, p.Positions))
	}
	if !bitmap.ValidDepth(p.BitDepth) {
		errs = append(errs, &RangeError{
			Param:   "bit depth",
			Message: fmt.Sprintf("expected one of: `1`, `2`, `4`, `8`; found `%d`", p.BitDepth),
		})
	}
	return errors.Join(errs...)
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// emPerHalfwidth returns the half-width grid unit in em. Typefaces with the
// M+ numbering follow the M+ width axis; other fixed-pitch faces take the
// advance of their digits, scaled by the width.
func (p Params) emPerHalfwidth(face *loadedFace) float32 {
	if !p.Typeface.Monospace() {
		return spacing.Proportional
	}
	if p.Typeface.Numbering() != NumberingMPLUS && face != nil {
		if em, ok := face.halfwidth(); ok {
			return em * float32(p.Width) / WidthNormal
		}
	}
	return spacing.EmPerHalfwidth(p.Width)
}

// aligner returns the advance alignment of p for the primary face.
func (p Params) aligner(face *loadedFace) spacing.Aligner {
	return spacing.Aligner{
		Monospace: p.Typeface.Monospace(),
		Policy:    spacing.New(p.Size, p.emPerHalfwidth(face)),
	}
}

// SizeForXHeight returns the M+ font size whose x-height is px pixels.
func SizeForXHeight(px float32) float32 { return px / 0.52 }

// SizeForCapHeight returns the size whose cap height is px pixels.
func SizeForCapHeight(px float32) float32 { return px / 0.73 }

// SizeForLineHeight returns the size whose line height is px pixels.
func SizeForLineHeight(px float32) float32 { return px / (1.16 + 0.288) }

// SizeForCodeLineHeight returns the size of a fixed-pitch M+ typeface whose
// line height is px pixels.
func SizeForCodeLineHeight(px float32) float32 { return px / (1.235 + 0.27) }
