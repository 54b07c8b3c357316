package compiler

import (
	"image"
	"image/draw"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/mplus"
	"github.com/gogpu/mplus/bitmap"
	"github.com/gogpu/mplus/charmap"
	"github.com/gogpu/mplus/internal/cache"
	"github.com/gogpu/mplus/spacing"
)

// rasterizer renders the glyphs of one face at one size.
// It is safe for concurrent use.
type rasterizer struct {
	face      *loadedFace
	ppem      fixed.Int26_6
	positions int
	depth     int
	aligner   spacing.Aligner

	images *cache.Sharded[uint16, bitmap.ImageSet]
}

func newRasterizer(face *loadedFace, p Params, aligner spacing.Aligner) *rasterizer {
	return &rasterizer{
		face:      face,
		ppem:      fixed.Int26_6(p.Size * 64),
		positions: p.Positions,
		depth:     p.BitDepth,
		aligner:   aligner,
		images:    cache.NewSharded[uint16, bitmap.ImageSet](cache.Uint16Hasher),
	}
}

// advance returns the unaligned advance width of a glyph in pixels. It is
// never hinted, so it matches the advances of the shaper.
func (r *rasterizer) advance(gid uint16) float32 {
	var buf sfnt.Buffer
	adv, err := r.face.outline.GlyphAdvance(&buf, sfnt.GlyphIndex(gid), r.ppem, xfont.HintingNone)
	if err != nil {
		return 0
	}
	return float32(adv) / 64
}

// square reports whether a glyph is one em wide. Such glyphs sit on the
// pixel grid at every position, so one image serves all of them.
func (r *rasterizer) square(gid uint16) bool {
	var buf sfnt.Buffer
	upem := fixed.Int26_6(r.face.upem)
	adv, err := r.face.outline.GlyphAdvance(&buf, sfnt.GlyphIndex(gid), upem, xfont.HintingNone)
	return err == nil && adv == upem
}

// renderedGlyph is a glyph with its images and placement within a cluster.
type renderedGlyph struct {
	glyph   charmap.Glyph
	x, y    float32
	advance float32
}

// glyph renders one shaped glyph. The returned advance is aligned to the
// half-width grid of fixed-pitch faces; x is counteracted for the rounding
// and the outline is centered in the rounded cell.
func (r *rasterizer) glyph(o glyphOffsets) renderedGlyph {
	adv := r.advance(o.id)
	aligned := r.aligner.Advance(adv)
	x := r.aligner.XOffset(o.x)
	padding := r.aligner.Padding(adv)

	out := renderedGlyph{
		glyph:   charmap.Glyph{ID: o.id},
		x:       x,
		y:       o.y,
		advance: aligned,
	}
	if r.aligner.Policy.Strategy() == spacing.Zero {
		return out
	}
	if o.overlay && x >= 0 && aligned <= 0 {
		return out
	}

	out.glyph.Images = r.images.GetOrCreate(o.id, func() bitmap.ImageSet {
		count := r.positions
		if r.aligner.Monospace || o.id == 0 || r.square(o.id) {
			count = 1
		}
		return r.render(o.id, count, padding)
	})
	return out
}

// render rasterizes a glyph at count evenly spaced horizontal offsets past
// padding, one goroutine per offset. Offsets whose render is empty keep the
// null image.
func (r *rasterizer) render(gid uint16, count int, padding float32) bitmap.ImageSet {
	images := make([]bitmap.Image, count)
	var wg sync.WaitGroup
	for i := range count {
		wg.Go(func() {
			images[i] = r.renderAt(gid, padding+float32(i)/float32(count))
		})
	}
	wg.Wait()

	for _, img := range images {
		if !img.IsEmpty() {
			return bitmap.Array(images)
		}
	}
	return bitmap.ImageSet{}
}

// renderAt rasterizes a glyph with its origin dx pixels right of the pen.
func (r *rasterizer) renderAt(gid uint16, dx float32) bitmap.Image {
	var buf sfnt.Buffer
	segments, err := r.face.outline.LoadGlyph(&buf, sfnt.GlyphIndex(gid), r.ppem, nil)
	if err != nil {
		mplus.Logger().Warn("compiler: load glyph", "gid", gid, "err", err)
		return bitmap.Image{}
	}
	if len(segments) == 0 {
		return bitmap.Image{}
	}

	shift := fixed.Int26_6(dx * 64)
	b := segments.Bounds()
	minX, minY := (b.Min.X + shift).Floor(), b.Min.Y.Floor()
	maxX, maxY := (b.Max.X + shift).Ceil(), b.Max.Y.Ceil()
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 {
		return bitmap.Image{}
	}

	mask := coverage(segments, w, h, dx-float32(minX), -float32(minY))
	if isBlank(mask.Pix) {
		return bitmap.Image{}
	}
	width := uint32(w) //nolint:gosec // w > 0
	return bitmap.Image{
		Left:  int32(minX),  //nolint:gosec // glyph bounds fit in int32
		Top:   int32(-minY), //nolint:gosec // glyph bounds fit in int32
		Width: width,
		Data:  bitmap.Quantize(mask.Pix, width, r.depth),
	}
}

// coverage fills an outline into a w×h alpha mask after translating it by
// (ox, oy).
func coverage(segments sfnt.Segments, w, h int, ox, oy float32) *image.Alpha {
	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Src

	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X)/64 + ox, float32(p.Y)/64 + oy
	}
	for _, s := range segments {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			z.MoveTo(pt(s.Args[0]))
		case sfnt.SegmentOpLineTo:
			z.LineTo(pt(s.Args[0]))
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(s.Args[0])
			x, y := pt(s.Args[1])
			z.QuadTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := pt(s.Args[0])
			c2x, c2y := pt(s.Args[1])
			x, y := pt(s.Args[2])
			z.CubeTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

func isBlank(pix []byte) bool {
	for _, v := range pix {
		if v != 0 {
			return false
		}
	}
	return true
}
