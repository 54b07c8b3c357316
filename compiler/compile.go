package compiler

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/gogpu/mplus"
	"github.com/gogpu/mplus/charmap"
	"github.com/gogpu/mplus/internal/parallel"
)

// Compile renders the sources of p into a bitmap font.
//
// The not-defined character U+FFFD is always compiled. When the typeface
// has a fallback, the fallback typeface is shaped first and supplies the
// entries the primary typeface cannot. Compile returns early with the
// context's error if ctx is cancelled.
func Compile(ctx context.Context, p Params) (*mplus.BitmapFont, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	log := mplus.Logger()
	started := time.Now()

	sources := append(p.Sources[:len(p.Sources):len(p.Sources)], Strings(charmap.NotDefined))
	fragments := expandSources(sources, p.Typeface.Monospace())

	pool := parallel.NewPool(min(runtime.GOMAXPROCS(0), len(fragments)))
	defer pool.Close()

	primaryFace, err := p.Typeface.load(p.Weight)
	if err != nil {
		return nil, err
	}
	aligner := p.aligner(primaryFace)

	var fallbackDict *dictionary
	if fb := p.Typeface.Fallback(); fb != nil {
		face, err := fb.load(p.Weight)
		if err != nil {
			return nil, fmt.Errorf("compiler: fallback: %w", err)
		}
		ps := newPass(face, p, aligner, fb.Numbering(), true)
		if err := runPass(ctx, ps, pool, fragments, fb.Name()); err != nil {
			return nil, err
		}
		fallbackDict = ps.dict
	}

	ps := newPass(primaryFace, p, aligner, p.Typeface.Numbering(), false)
	if err := runPass(ctx, ps, pool, fragments, p.Typeface.Name()); err != nil {
		return nil, err
	}
	dict := ps.dict
	dict.mergeUnder(fallbackDict)

	notDefined, ok := dict.remove(charmap.NotDefined)
	if !ok {
		notDefined = charmap.NewEntry(charmap.NotDefined, charmap.Glyph{}, 0)
	}
	font := &mplus.BitmapFont{
		Charmap:       charmap.Build(dict.sorted(), notDefined),
		Metrics:       fontMetrics(p.Typeface, primaryFace, p.Size, p.Hint),
		Underline:     scaleDecoration(underline, p.Size),
		Strikethrough: scaleDecoration(strikethrough, p.Size),
		Positions:     p.Positions,
		BitDepth:      p.BitDepth,
	}

	log.Info("compiler: compiled bitmap font",
		"typeface", p.Typeface.Name(),
		"weight", primaryFace.weight,
		"size", p.Size,
		"entries", font.Charmap.Len(),
		"positions", p.Positions,
		"depth", p.BitDepth,
		"elapsed", time.Since(started))
	return font, nil
}

func runPass(ctx context.Context, ps *pass, pool *parallel.Pool, fragments []string, name string) error {
	log := mplus.Logger()
	log.Debug("compiler: shaping pass",
		"typeface", name,
		"fallback", ps.fallback,
		"fragments", len(fragments),
		"workers", pool.Workers())

	if err := ps.run(ctx, pool, fragments); err != nil {
		return err
	}

	stats := ps.raster.images.Stats()
	log.Debug("compiler: pass done",
		"typeface", name,
		"entries", ps.dict.len(),
		"glyphs", stats.Len,
		"cache_hits", stats.Hits,
		"cache_misses", stats.Misses)
	return nil
}
