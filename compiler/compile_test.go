package compiler_test

import (
	"bytes"
	"context"
	"image"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/gogpu/mplus"
	"github.com/gogpu/mplus/charmap"
	"github.com/gogpu/mplus/compiler"
)

func compile(t *testing.T, tf *compiler.Typeface, size float32, opts ...compiler.Option) *mplus.BitmapFont {
	t.Helper()
	params, err := compiler.New(tf, size, opts...)
	require.NoError(t, err)
	font, err := compiler.Compile(context.Background(), params)
	require.NoError(t, err)
	return font
}

func TestCompileProportional(t *testing.T) {
	font := compile(t, compiler.Go(), 16,
		compiler.WithSources(compiler.Range('a', 'e'), compiler.Strings("Hello")),
		compiler.WithPositions(4),
		compiler.WithBitDepth(4))

	assert.Equal(t, 4, font.Positions)
	assert.Equal(t, 4, font.BitDepth)
	assert.True(t, font.Metrics.Valid())
	assert.Equal(t, charmap.NotDefined, font.Charmap.NotDefined().Key)

	for _, key := range []string{"a", "b", "c", "d", "e", "H", "l", "o"} {
		e, ok := font.Charmap.Get(key)
		require.True(t, ok, "missing entry %q", key)
		assert.Equal(t, 1, e.AdvanceChars)
		assert.Greater(t, e.Advances.Default, float32(0), key)
	}
	_, ok := font.Charmap.Get("\u200c")
	assert.False(t, ok, "joiner must not become an entry")
	_, ok = font.Charmap.Get("a\u200c")
	assert.False(t, ok, "joiner must not be part of a key")

	a, _ := font.Charmap.Get("a")
	assert.Equal(t, 4, a.Glyph.Images.Len(), "proportional glyphs render every position")
	assert.False(t, a.Glyph.Images.At(0).IsEmpty())
	assert.Positive(t, a.Glyph.Images.At(0).Top)
}

func TestCompileMonospace(t *testing.T) {
	font := compile(t, compiler.GoMono(), 16,
		compiler.WithSources(compiler.Range('a', 'c'), compiler.Strings("i")),
		compiler.WithBitDepth(1))

	var advances []float32
	for _, key := range []string{"a", "b", "c", "i"} {
		e, ok := font.Charmap.Get(key)
		require.True(t, ok, key)
		assert.True(t, e.Glyph.Images.IsRepeated(), "monospace glyph %q has one image", key)
		assert.Equal(t, float32(math.Floor(float64(e.Advances.Default))), e.Advances.Default)
		advances = append(advances, e.Advances.Default)
	}
	for _, adv := range advances[1:] {
		assert.Equal(t, advances[0], adv, "fixed pitch")
	}
}

func TestCompileDraws(t *testing.T) {
	font := compile(t, compiler.Go(), 20,
		compiler.WithSources(compiler.Range(' ', '~')),
		compiler.WithPositions(2))

	style := mplus.NewStyleBuilder[mplus.Rgb888]().
		Font(font).
		TextColor(mplus.Rgb888{R: 255, G: 255, B: 255}).
		Build()
	pm := mplus.NewPixmap(120, 40)
	next, err := style.DrawString("Wave", image.Pt(2, 2), mplus.Top, pm)
	require.NoError(t, err)

	metrics := style.MeasureString("Wave", image.Pt(2, 2), mplus.Top)
	assert.Equal(t, metrics.NextPosition, next)
	assert.Greater(t, next.X, 2+20)

	lit := 0
	for y := range pm.Height() {
		for x := range pm.Width() {
			if pm.GetPixel(x, y).R > 0 {
				lit++
			}
		}
	}
	assert.Greater(t, lit, 20, "text should light pixels")
}

func TestCompileFallback(t *testing.T) {
	mono := compiler.NewTypeface("Go Mono",
		compiler.WithFace(compiler.Regular, gomono.TTF),
		compiler.Monospaced(),
		compiler.WithFallback(compiler.Go()))
	font := compile(t, mono, 16, compiler.WithSources(compiler.Strings("ab")))

	plain := compile(t, compiler.GoMono(), 16, compiler.WithSources(compiler.Strings("ab")))
	for _, key := range []string{"a", "b"} {
		got, ok := font.Charmap.Get(key)
		require.True(t, ok)
		want, _ := plain.Charmap.Get(key)
		assert.Equal(t, want.Advances.Default, got.Advances.Default, "primary entries win over fallback")
	}
}

func TestCompileTinySize(t *testing.T) {
	font := compile(t, compiler.GoMono(), 1, compiler.WithSources(compiler.Strings("a")))
	e, ok := font.Charmap.Get("a")
	require.True(t, ok)
	assert.True(t, e.Glyph.Images.At(0).IsEmpty(), "glyphs below 1.25px are not rendered")
	assert.Equal(t, float32(0), e.Advances.Default)
}

func TestCompileErrors(t *testing.T) {
	_, err := compiler.Compile(context.Background(), compiler.Params{Typeface: compiler.Go(), Size: 16})
	var rangeErr *compiler.RangeError
	assert.ErrorAs(t, err, &rangeErr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	params, err := compiler.New(compiler.Go(), 16, compiler.WithSources(compiler.Range('a', 'z')))
	require.NoError(t, err)
	_, err = compiler.Compile(ctx, params)
	assert.ErrorIs(t, err, context.Canceled)

	params, err = compiler.New(compiler.NewTypeface("empty"), 16)
	require.NoError(t, err)
	_, err = compiler.Compile(context.Background(), params)
	assert.ErrorIs(t, err, compiler.ErrNoFaces)
}

func TestCompileLogs(t *testing.T) {
	var buf bytes.Buffer
	mplus.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { mplus.SetLogger(nil) })

	compile(t, compiler.Go(), 12, compiler.WithSources(compiler.Strings("x")))
	assert.Contains(t, buf.String(), "compiler: shaping pass")
	assert.Contains(t, buf.String(), "compiler: compiled bitmap font")
}
