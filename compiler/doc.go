// Package compiler turns outline fonts into bitmap fonts for the mplus
// renderer.
//
// Compilation shapes every string of the configured sources with a
// HarfBuzz-compatible shaper, renders each glyph at a number of sub-pixel
// offsets and quantizes the coverage to the target bit depth. Every shaped
// cluster becomes a character map entry; the advance between consecutive
// clusters is recorded whenever shaping changed it, which is how kerning
// and contextual spacing survive into the bitmap font.
//
//	params, err := compiler.New(compiler.Go(), 16,
//		compiler.WithSources(compiler.Range(' ', '~')),
//		compiler.WithPositions(4),
//		compiler.WithBitDepth(4))
//	if err != nil {
//		return err
//	}
//	font, err := compiler.Compile(ctx, params)
//
// Fixed-pitch typefaces have their advances rounded to a half-width grid so
// that text stays aligned in columns at every size.
//
// Shaping runs one worker per CPU, each with its own shaper; glyphs are
// rendered once per compilation and shared between workers.
package compiler
