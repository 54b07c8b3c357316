package compiler

import "math"

// glyphOffsets is one shaped glyph of a cluster. x and y are the shaping
// offsets in pixels, y measured upward.
type glyphOffsets struct {
	id      uint16
	x, y    float32
	overlay bool
}

// Glyph id ranges of combining accents in the M+ typefaces. The fixed-pitch
// Latin face numbers its accents differently from the others.
type idRange struct{ lo, hi uint16 }

var (
	// Diaeresis through horn, dot below and comma below.
	fixedPitchOverlayAccents = []idRange{{532, 548}, {549, 549}, {551, 551}}
	// Spacing diaeresis through ogonek.
	fixedPitchSpacingAccents = []idRange{{556, 569}}
	// Diaeresis through horn.
	overlayAccents = []idRange{{787, 804}}
	// Spacing diaeresis through ogonek.
	spacingAccents = []idRange{{812, 825}}
)

func inRanges(id uint16, ranges []idRange) bool {
	for _, r := range ranges {
		if id >= r.lo && id <= r.hi {
			return true
		}
	}
	return false
}

// patchAccents snaps M+ accent glyphs onto whole pixels. Accents drawn over
// a letter get a whole-pixel vertical offset, rounded up in the fixed-pitch
// Latin face and down elsewhere; spacing accents lose their offsets.
func (o *glyphOffsets) patchAccents(fixedPitch bool) {
	overlays, spacing := overlayAccents, spacingAccents
	if fixedPitch {
		overlays, spacing = fixedPitchOverlayAccents, fixedPitchSpacingAccents
	}

	switch {
	case o.overlay && inRanges(o.id, overlays):
		if fixedPitch {
			o.y = float32(math.Ceil(float64(o.y)))
		} else {
			o.y = float32(math.Floor(float64(o.y)))
		}
	case !o.overlay && inRanges(o.id, spacing):
		o.x, o.y = 0, 0
	}
}
