package compiler

import (
	"context"
	"strings"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/mplus/charmap"
	"github.com/gogpu/mplus/internal/parallel"
	"github.com/gogpu/mplus/spacing"
)

// pass shapes and renders every fragment with one face into one dictionary.
type pass struct {
	face      *loadedFace
	raster    *rasterizer
	dict      *dictionary
	aligner   spacing.Aligner
	size      fixed.Int26_6
	numbering Numbering
	// fallback passes keep ligatures off and record no context advances.
	fallback bool
}

// newPass returns a pass over face. The aligner comes from the primary face
// so that fallback glyphs share its grid.
func newPass(face *loadedFace, p Params, aligner spacing.Aligner, numbering Numbering, fallback bool) *pass {
	return &pass{
		face:      face,
		raster:    newRasterizer(face, p, aligner),
		dict:      newDictionary(),
		aligner:   aligner,
		size:      fixed.Int26_6(p.Size * 64),
		numbering: numbering,
		fallback:  fallback,
	}
}

// run deals the fragments round-robin to the workers of pool and waits.
func (ps *pass) run(ctx context.Context, pool *parallel.Pool, fragments []string) error {
	groups := parallel.Partition(fragments, pool.Workers())
	jobs := make([]func(), len(groups))
	for i, group := range groups {
		jobs[i] = func() { ps.shapeAll(ctx, group) }
	}
	pool.Run(jobs)
	return ctx.Err()
}

// shapeAll is one worker: it owns a shaper and a face for its partition.
func (ps *pass) shapeAll(ctx context.Context, fragments []string) {
	var shaper shaping.HarfbuzzShaper
	face := font.NewFace(ps.face.shape)
	space, _ := face.NominalGlyph(' ')

	var features []shaping.FontFeature
	if ps.fallback {
		features = []shaping.FontFeature{{Tag: ot.MustNewTag("liga"), Value: 0}}
	}

	for _, s := range fragments {
		if ctx.Err() != nil {
			return
		}
		runes := []rune(s)
		out := shaper.Shape(shaping.Input{
			Text:         runes,
			RunStart:     0,
			RunEnd:       len(runes),
			Direction:    di.DirectionLTR,
			Face:         face,
			FontFeatures: features,
			Size:         ps.size,
			Script:       detectScript(runes),
			Language:     language.NewLanguage("en"),
		})
		ps.record(runes, clusters(runes, out.Glyphs, uint16(space))) //nolint:gosec // glyph ids are 16-bit
	}
}

// shapedGlyph is a go-text glyph converted to pixels.
type shapedGlyph struct {
	id      uint16
	advance float32
	xOffset float32
	yOffset float32
}

// cluster is the run of glyphs shaped from runes[start:end].
type cluster struct {
	start, end int
	glyphs     []shapedGlyph
}

// clusters groups shaped glyphs by source cluster. Runes that produced no
// glyph at all form empty clusters of their own. The glyph standing in for
// a hidden ZWNJ is dropped.
func clusters(runes []rune, glyphs []shaping.Glyph, space uint16) []cluster {
	var out []cluster
	next := 0
	for i := 0; i < len(glyphs); {
		start := glyphs[i].ClusterIndex
		if start > next {
			out = append(out, cluster{start: next, end: start})
		}
		c := cluster{start: start, end: start + max(glyphs[i].RuneCount, 1)}
		joiner := strings.ContainsRune(string(runes[c.start:min(c.end, len(runes))]), ZWNJ)
		for ; i < len(glyphs) && glyphs[i].ClusterIndex == start; i++ {
			g := glyphs[i]
			id := uint16(g.GlyphID) //nolint:gosec // glyph ids are 16-bit
			if joiner && len(c.glyphs) > 0 && id == space && g.Advance == 0 {
				continue
			}
			c.glyphs = append(c.glyphs, shapedGlyph{
				id:      id,
				advance: fixedToFloat(g.Advance),
				xOffset: fixedToFloat(g.XOffset),
				yOffset: fixedToFloat(g.YOffset),
			})
		}
		c.end = min(c.end, len(runes))
		next = max(next, c.end)
		out = append(out, c)
	}
	if next < len(runes) {
		out = append(out, cluster{start: next, end: len(runes)})
	}
	return out
}

// record adds the clusters of one fragment to the dictionary.
//
// Every cluster with glyphs, or with no glyphs at all, gets an entry the
// first time its key is seen. Consecutive such clusters record the advance
// between them when it differs from the default. A cluster whose glyphs are
// all missing from the face breaks the chain.
func (ps *pass) record(runes []rune, cs []cluster) {
	type recorded struct {
		key     string
		advance float32
	}
	var previous *recorded

	for _, c := range cs {
		key := strings.ReplaceAll(string(runes[c.start:c.end]), string(ZWNJ), "")
		if key == "" {
			continue
		}

		glyphs := make([]shapedGlyph, 0, len(c.glyphs))
		var sum float32
		for _, g := range c.glyphs {
			if g.id > 0 || key == charmap.NotDefined {
				glyphs = append(glyphs, g)
				sum += g.advance
			}
		}

		if len(glyphs) == 0 && len(c.glyphs) > 0 {
			previous = nil
			continue
		}
		if !ps.dict.contains(key) {
			glyph, advance := ps.render(glyphs, sum)
			ps.dict.insertGlyph(key, glyph, advance)
		}
		if ps.fallback {
			continue
		}
		advance := ps.aligner.Advance(sum)
		if previous != nil {
			ps.dict.insertAdvance(previous.key, key, previous.advance)
		}
		previous = &recorded{key: key, advance: advance}
	}
}

// render turns the glyphs of a cluster into an overlay chain. It returns the
// chain and the sum of the aligned glyph advances, which becomes the default
// advance of the entry.
//
// Overlay offsets are made relative to the pen after the whole cluster has
// advanced, which is where the renderer draws them from.
func (ps *pass) render(glyphs []shapedGlyph, clusterAdvance float32) (charmap.Glyph, float32) {
	rendered := make([]renderedGlyph, len(glyphs))
	var pen, advance float32
	for i, g := range glyphs {
		o := glyphOffsets{id: g.id, x: g.xOffset, y: g.yOffset, overlay: i > 0}
		if ps.numbering == NumberingMPLUS {
			o.patchAccents(ps.aligner.Monospace && !ps.fallback)
		}
		r := ps.raster.glyph(o)
		r.x += pen - clusterAdvance
		rendered[i] = r
		pen += g.advance
		advance += r.advance
	}
	return chain(rendered), advance
}

// chain links rendered glyphs so that the first is the base glyph and each
// later one an overlay. The base glyph's own offsets are not kept.
func chain(rendered []renderedGlyph) charmap.Glyph {
	if len(rendered) == 0 {
		return charmap.Glyph{}
	}
	var next *charmap.NextGlyph
	for i := len(rendered) - 1; i > 0; i-- {
		g := rendered[i].glyph
		g.Next = next
		next = &charmap.NextGlyph{XOffset: rendered[i].x, YOffset: rendered[i].y, Glyph: g}
	}
	base := rendered[0].glyph
	base.Next = next
	return base
}

// detectScript returns the script of the first character that belongs to
// one.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if s := language.LookupScript(r); s != language.Common && s != language.Inherited {
			return s
		}
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
