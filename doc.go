// Package mplus renders text with anti-aliased bitmap fonts compiled from
// outline fonts.
//
// # Overview
//
// A [BitmapFont] is produced ahead of time by the compiler package (or the
// mplusc command) and loaded with the asset package. It holds a character
// map from text to glyph images rendered at several sub-pixel offsets,
// context-sensitive advance widths for kerning, and the vertical metrics
// of one pixel size. Rendering never touches outlines: it selects images,
// maps their gray levels through a color ramp and writes the result to a
// [DrawTarget].
//
// # Quick Start
//
//	font, err := asset.Load("mplus-16.mpbf")
//	if err != nil {
//		log.Fatal(err)
//	}
//	pm := mplus.NewPixmap(320, 40)
//	style := mplus.NewStyleBuilder[mplus.Rgb888]().
//		Font(font).
//		TextColor(mplus.Rgb888{R: 255, G: 255, B: 255}).
//		Underline().
//		Build()
//	next, err := style.DrawString("Hello, world", image.Pt(4, 4), mplus.Top, pm)
//
// # Colors
//
// Styles are generic over the color type. [BinaryColor], [Gray2], [Gray4],
// [Gray8], [Rgb565] and [Rgb888] are provided; any type satisfying [Color]
// works. There is no background transparency: every draw call fills the
// line box it covers with the background color, and overlapping glyph
// images are mixed in screen mode.
//
// # Coordinate System
//
// Origin at top-left, x increasing right, y increasing down. Font metrics
// are measured upward from the alphabetic baseline; [Baseline] chooses
// which line of the font the y coordinate of a draw call refers to.
package mplus

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
