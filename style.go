package mplus

// DecorationMode selects whether and how a decoration line is drawn.
type DecorationMode uint8

const (
	// DecorationNone draws no line.
	DecorationNone DecorationMode = iota
	// DecorationTextColor draws the line in the text color.
	DecorationTextColor
	// DecorationCustom draws the line in its own color.
	DecorationCustom
)

// DecorationColor is the color setting of an underline or strikethrough.
// The zero value draws nothing.
type DecorationColor[C any] struct {
	Mode  DecorationMode
	Color C
}

// NoDecoration returns a setting that draws no line.
func NoDecoration[C any]() DecorationColor[C] {
	return DecorationColor[C]{}
}

// TextColorDecoration returns a setting that draws the line in the text
// color.
func TextColorDecoration[C any]() DecorationColor[C] {
	return DecorationColor[C]{Mode: DecorationTextColor}
}

// CustomDecoration returns a setting that draws the line in c.
func CustomDecoration[C any](c C) DecorationColor[C] {
	return DecorationColor[C]{Mode: DecorationCustom, Color: c}
}

// Style renders text with a bitmap font. Unset colors fall back to the
// zero value of C for the background and its inverse for the text.
//
// There is no background transparency: every draw call fills the line
// box it covers, from the top of the line to the bottom.
type Style[C Color[C]] struct {
	Font          *BitmapFont
	TextColor     *C
	Background    *C
	Underline     DecorationColor[C]
	Strikethrough DecorationColor[C]
}

// NewStyle returns a style with the given font and text color.
func NewStyle[C Color[C]](font *BitmapFont, text C) *Style[C] {
	return NewStyleBuilder[C]().Font(font).TextColor(text).Build()
}

func (s *Style[C]) textColor() C {
	if s.TextColor != nil {
		return *s.TextColor
	}
	var zero C
	return zero.Invert()
}

func (s *Style[C]) backgroundColor() C {
	if s.Background != nil {
		return *s.Background
	}
	var zero C
	return zero
}

func (s *Style[C]) decorationColor(d DecorationColor[C]) (C, bool) {
	switch d.Mode {
	case DecorationTextColor:
		return s.textColor(), true
	case DecorationCustom:
		return d.Color, true
	default:
		var zero C
		return zero, false
	}
}

// StyleBuilder builds a Style with a fluent interface.
type StyleBuilder[C Color[C]] struct {
	style Style[C]
}

// NewStyleBuilder returns a builder for a style without a font and with
// default colors.
func NewStyleBuilder[C Color[C]]() *StyleBuilder[C] {
	return &StyleBuilder[C]{}
}

// Font sets the bitmap font.
func (b *StyleBuilder[C]) Font(font *BitmapFont) *StyleBuilder[C] {
	b.style.Font = font
	return b
}

// TextColor sets the text color.
func (b *StyleBuilder[C]) TextColor(c C) *StyleBuilder[C] {
	b.style.TextColor = &c
	return b
}

// ResetTextColor restores the default text color.
func (b *StyleBuilder[C]) ResetTextColor() *StyleBuilder[C] {
	b.style.TextColor = nil
	return b
}

// BackgroundColor sets the background color.
func (b *StyleBuilder[C]) BackgroundColor(c C) *StyleBuilder[C] {
	b.style.Background = &c
	return b
}

// ResetBackgroundColor restores the default background color.
func (b *StyleBuilder[C]) ResetBackgroundColor() *StyleBuilder[C] {
	b.style.Background = nil
	return b
}

// Underline enables an underline in the text color.
func (b *StyleBuilder[C]) Underline() *StyleBuilder[C] {
	b.style.Underline = TextColorDecoration[C]()
	return b
}

// UnderlineWithColor enables an underline in c.
func (b *StyleBuilder[C]) UnderlineWithColor(c C) *StyleBuilder[C] {
	b.style.Underline = CustomDecoration(c)
	return b
}

// Strikethrough enables a strikethrough in the text color.
func (b *StyleBuilder[C]) Strikethrough() *StyleBuilder[C] {
	b.style.Strikethrough = TextColorDecoration[C]()
	return b
}

// StrikethroughWithColor enables a strikethrough in c.
func (b *StyleBuilder[C]) StrikethroughWithColor(c C) *StyleBuilder[C] {
	b.style.Strikethrough = CustomDecoration(c)
	return b
}

// ResetDecorations removes the underline and strikethrough.
func (b *StyleBuilder[C]) ResetDecorations() *StyleBuilder[C] {
	b.style.Underline = NoDecoration[C]()
	b.style.Strikethrough = NoDecoration[C]()
	return b
}

// Build returns the style. The builder may be reused.
func (b *StyleBuilder[C]) Build() *Style[C] {
	s := b.style
	return &s
}
