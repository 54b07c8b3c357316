package asset

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/mplus"
	"github.com/gogpu/mplus/bitmap"
	"github.com/gogpu/mplus/charmap"
	"github.com/gogpu/mplus/compiler"
)

func handFont() *mplus.BitmapFont {
	bar := bitmap.Image{Left: 0, Top: 2, Width: 1, Data: []byte{0xf0, 0xf0}}
	wide := bitmap.Image{Left: -1, Top: 3, Width: 3, Data: []byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc}}

	a := charmap.NewEntry("a", charmap.Glyph{ID: 1, Images: bitmap.Repeated(bar)}, 3)
	a.Advances.Set("b", 2.5)
	a.Advances.Set("", 4)
	fi := charmap.NewEntry("fi", charmap.Glyph{
		ID:     2,
		Images: bitmap.Array([]bitmap.Image{wide, bar, {}, wide}),
		Next: &charmap.NextGlyph{
			XOffset: 1.5,
			YOffset: -0.25,
			Glyph:   charmap.Glyph{ID: 3, Images: bitmap.Repeated(bar)},
		},
	}, 6)
	space := charmap.NewEntry(" ", charmap.Glyph{ID: 4}, 2)
	notdef := charmap.NewEntry(charmap.NotDefined, charmap.Glyph{Images: bitmap.Repeated(wide)}, 4)

	return &mplus.BitmapFont{
		Charmap: charmap.Build([]charmap.Entry{a, fi, space}, notdef),
		Metrics: mplus.Metrics{
			Top: 4.5, Ascender: 3.25, CapHeight: 3, XHeight: 2, Descender: -1, Bottom: -1.5,
		},
		Underline:     mplus.Decoration{Offset: -0.8, Height: 0.4},
		Strikethrough: mplus.Decoration{Offset: 2.5, Height: 0.4},
		Positions:     4,
		BitDepth:      4,
	}
}

func encode(t *testing.T, font *mplus.BitmapFont) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, font))
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	want := handFont()
	data := encode(t, want)
	assert.Equal(t, Magic, string(data[:4]))
	assert.Equal(t, Version, binary.LittleEndian.Uint16(data[4:]))

	got, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, want.Metrics, got.Metrics)
	assert.Equal(t, want.Underline, got.Underline)
	assert.Equal(t, want.Strikethrough, got.Strikethrough)
	assert.Equal(t, want.Positions, got.Positions)
	assert.Equal(t, want.BitDepth, got.BitDepth)
	assert.Equal(t, want.Charmap.Entries(), got.Charmap.Entries())
	assert.Equal(t, want.Charmap.Nodes(), got.Charmap.Nodes())

	fi, ok := got.Charmap.Get("fi")
	require.True(t, ok)
	assert.Equal(t, 2, fi.Glyph.Len())
	assert.Equal(t, float32(1.5), fi.Glyph.Next.XOffset)
	assert.True(t, fi.Glyph.Next.Glyph.Images.IsRepeated())

	a, ok := got.Charmap.Get("a")
	require.True(t, ok)
	assert.Equal(t, float32(2.5), a.AdvanceWidthTo("b"))
	assert.Equal(t, float32(4), a.AdvanceWidthTo(""))
	assert.Equal(t, float32(3), a.AdvanceWidthTo("a"))

	assert.Equal(t, charmap.NotDefined, got.Charmap.Lookup("zzz").Key)
}

func TestImagesAreShared(t *testing.T) {
	font := handFont()
	data := encode(t, font)

	// The bar image appears three times and the wide image twice, but each
	// is stored once next to the null image.
	d := &decoder{data: data, off: len(Magic) + 2 + 2 + 4*7 + 4*4}
	d.images()
	require.NoError(t, d.err)
	assert.Len(t, d.table, 3)
}

func TestDecodeErrors(t *testing.T) {
	data := encode(t, handFont())

	t.Run("magic", func(t *testing.T) {
		for _, in := range [][]byte{nil, []byte("MP"), []byte("MPBX\x01\x00")} {
			_, err := Decode(in)
			assert.ErrorIs(t, err, ErrBadMagic)
		}
	})

	t.Run("version", func(t *testing.T) {
		bad := bytes.Clone(data)
		binary.LittleEndian.PutUint16(bad[4:], Version+1)
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("truncated", func(t *testing.T) {
		for n := len(Magic); n < len(data); n++ {
			_, err := Decode(data[:n])
			require.ErrorIs(t, err, ErrTruncated, "prefix of %d bytes", n)
		}
	})

	t.Run("trailing", func(t *testing.T) {
		_, err := Decode(append(bytes.Clone(data), 0))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("depth", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[7] = 3
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("arena", func(t *testing.T) {
		e := newEncoder()
		e.buf = append(e.buf, Magic...)
		e.buf = binary.LittleEndian.AppendUint16(e.buf, Version)
		e.buf = append(e.buf, 1, 1)
		e.metrics(mplus.Metrics{})
		e.decoration(mplus.Decoration{})
		e.decoration(mplus.Decoration{})
		e.collectGlyph(&charmap.Glyph{})
		e.images()
		notdef := charmap.NewEntry(charmap.NotDefined, charmap.Glyph{}, 1)
		e.uvarint(1)
		e.entry(&notdef)
		// One root whose only child points past the node table.
		e.uvarint(1)
		e.varint(int64(charmap.NoEntry))
		e.uvarint(1)
		e.varint('a')
		e.varint(5)

		_, err := Decode(e.buf)
		assert.ErrorIs(t, err, ErrCorrupt)
		assert.ErrorIs(t, err, charmap.ErrBadIndex)
	})
}

func TestEncodeErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Encode(&buf, nil))
	assert.Error(t, Encode(&buf, &mplus.BitmapFont{}))

	bad := handFont()
	bad.BitDepth = 3
	assert.Error(t, Encode(&buf, bad))
	assert.Zero(t, buf.Len())
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hand.mpbf")
	require.NoError(t, Save(path, handFont()))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, handFont().Charmap.Entries(), got.Charmap.Entries())

	_, err = Load(filepath.Join(t.TempDir(), "missing.mpbf"))
	assert.Error(t, err)
}

func TestCompiledFontRendersIdentically(t *testing.T) {
	if testing.Short() {
		t.Skip("compiles a font")
	}
	p, err := compiler.New(compiler.Go(), 14, compiler.WithSources(compiler.Range(' ', '~'), compiler.Strings("fi")))
	require.NoError(t, err)
	want, err := compiler.Compile(context.Background(), p)
	require.NoError(t, err)

	got, err := Decode(encode(t, want))
	require.NoError(t, err)

	draw := func(font *mplus.BitmapFont) *mplus.Pixmap {
		pm := mplus.NewPixmap(240, 24)
		style := mplus.NewStyleBuilder[mplus.Rgb888]().
			Font(font).
			TextColor(mplus.Rgb888{R: 255, G: 255, B: 255}).
			Underline().
			Build()
		_, err := style.DrawString("The fish, 42 AVA.", image.Pt(2, 2), mplus.Top, pm)
		require.NoError(t, err)
		return pm
	}
	assert.Equal(t, draw(want).Data(), draw(got).Data())
}
