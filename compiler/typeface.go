package compiler

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Numbering identifies a known glyph numbering. Glyph-id based corrections
// are only applied to typefaces that declare the numbering they were made
// for.
type Numbering uint8

const (
	// NumberingUnknown applies no glyph-id based corrections.
	NumberingUnknown Numbering = iota
	// NumberingMPLUS is the glyph numbering of the M+ typefaces.
	NumberingMPLUS
)

// Typeface is a family of static font faces that differ in weight.
// A Typeface is immutable and safe for concurrent use.
type Typeface struct {
	name      string
	faces     []faceData
	monospace bool
	numbering Numbering
	fallback  *Typeface
}

type faceData struct {
	weight int
	data   []byte
}

// TypefaceOption configures a Typeface.
type TypefaceOption func(*Typeface)

// WithFace adds a face with the given weight. A later face with the same
// weight replaces the earlier one.
func WithFace(weight int, data []byte) TypefaceOption {
	return func(t *Typeface) {
		t.faces = slices.DeleteFunc(t.faces, func(f faceData) bool { return f.weight == weight })
		t.faces = append(t.faces, faceData{weight: weight, data: data})
	}
}

// Monospaced marks the typeface as fixed-pitch. Advances of fixed-pitch
// typefaces are rounded to a half-width grid.
func Monospaced() TypefaceOption {
	return func(t *Typeface) { t.monospace = true }
}

// WithMPLUSNumbering declares that the typeface uses the M+ glyph numbering
// and vertical metrics.
func WithMPLUSNumbering() TypefaceOption {
	return func(t *Typeface) { t.numbering = NumberingMPLUS }
}

// WithFallback sets a typeface that supplies glyphs this one lacks.
func WithFallback(fallback *Typeface) TypefaceOption {
	return func(t *Typeface) { t.fallback = fallback }
}

// NewTypeface returns a typeface built from the given options.
func NewTypeface(name string, opts ...TypefaceOption) *Typeface {
	t := &Typeface{name: name}
	for _, opt := range opts {
		opt(t)
	}
	slices.SortFunc(t.faces, func(a, b faceData) int { return a.weight - b.weight })
	return t
}

// Go returns the proportional Go typeface with regular, medium and bold faces.
func Go(opts ...TypefaceOption) *Typeface {
	return NewTypeface("Go", append([]TypefaceOption{
		WithFace(Regular, goregular.TTF),
		WithFace(Medium, gomedium.TTF),
		WithFace(Bold, gobold.TTF),
	}, opts...)...)
}

// GoMono returns the fixed-pitch Go Mono typeface with regular and bold faces.
func GoMono(opts ...TypefaceOption) *Typeface {
	return NewTypeface("Go Mono", append([]TypefaceOption{
		WithFace(Regular, gomono.TTF),
		WithFace(Bold, gomonobold.TTF),
		Monospaced(),
	}, opts...)...)
}

// FromFile loads a single-face typeface from a TrueType or OpenType file.
func FromFile(path string, opts ...TypefaceOption) (*Typeface, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the caller
	if err != nil {
		return nil, fmt.Errorf("compiler: read font: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewTypeface(name, append([]TypefaceOption{WithFace(Regular, data)}, opts...)...), nil
}

// FromName finds an installed font by file name, with or without extension,
// and loads it with FromFile.
func FromName(name string, opts ...TypefaceOption) (*Typeface, error) {
	path, err := findfont.Find(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFontNotFound, name)
	}
	return FromFile(path, opts...)
}

// Lookup resolves a typeface by one of the built-in names ("go",
// "go-regular", "go-mono"), a font file path, or an installed font name.
func Lookup(name string, opts ...TypefaceOption) (*Typeface, error) {
	switch strings.ToLower(name) {
	case "go", "go-regular":
		return Go(opts...), nil
	case "go-mono":
		return GoMono(opts...), nil
	}
	if _, err := os.Stat(name); err == nil {
		return FromFile(name, opts...)
	}
	return FromName(name, opts...)
}

// Name returns the typeface name.
func (t *Typeface) Name() string { return t.name }

// Monospace reports whether the typeface is fixed-pitch.
func (t *Typeface) Monospace() bool { return t.monospace }

// Numbering returns the declared glyph numbering.
func (t *Typeface) Numbering() Numbering { return t.numbering }

// Fallback returns the fallback typeface, or nil.
func (t *Typeface) Fallback() *Typeface { return t.fallback }

// Weights returns the weights of the available faces in ascending order.
func (t *Typeface) Weights() []int {
	weights := make([]int, len(t.faces))
	for i, f := range t.faces {
		weights[i] = f.weight
	}
	return weights
}

// nearest returns the face whose weight is closest to weight. Ties go to
// the heavier face above 400 and to the lighter one otherwise.
func (t *Typeface) nearest(weight int) (faceData, bool) {
	if len(t.faces) == 0 {
		return faceData{}, false
	}
	best := t.faces[0]
	for _, f := range t.faces[1:] {
		d, bd := abs(f.weight-weight), abs(best.weight-weight)
		if d < bd || (d == bd && weight > Regular) {
			best = f
		}
	}
	return best, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// loadedFace is one parsed face. Both parsed fonts are safe for concurrent
// use; a go-text font.Face is not and is created per worker.
type loadedFace struct {
	weight  int
	shape   *font.Font
	outline *sfnt.Font
	upem    int
}

// halfwidth returns the advance of a half-width character in em, taken
// from the digit zero or else the space.
func (f *loadedFace) halfwidth() (float32, bool) {
	var buf sfnt.Buffer
	upem := fixed.Int26_6(f.upem)
	for _, r := range []rune{'0', ' '} {
		gid, err := f.outline.GlyphIndex(&buf, r)
		if err != nil || gid == 0 {
			continue
		}
		adv, err := f.outline.GlyphAdvance(&buf, gid, upem, xfont.HintingNone)
		if err == nil && adv > 0 && f.upem > 0 {
			return float32(adv) / float32(upem), true
		}
	}
	return 0, false
}

func (t *Typeface) load(weight int) (*loadedFace, error) {
	f, ok := t.nearest(weight)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoFaces, t.name)
	}
	face, err := font.ParseTTF(bytes.NewReader(f.data))
	if err != nil {
		return nil, fmt.Errorf("compiler: parse %s for shaping: %w", t.name, err)
	}
	outline, err := sfnt.Parse(f.data)
	if err != nil {
		return nil, fmt.Errorf("compiler: parse %s outlines: %w", t.name, err)
	}
	return &loadedFace{
		weight:  f.weight,
		shape:   face.Font,
		outline: outline,
		upem:    int(outline.UnitsPerEm()),
	}, nil
}
