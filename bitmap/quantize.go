package bitmap

import "fmt"

// quantizeShift is the fixed-point precision used by Quantize.
const quantizeShift = 23

// ValidDepth reports whether depth is a supported bit depth.
func ValidDepth(depth int) bool {
	switch depth {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}

// Levels returns the number of gray levels at the given bit depth.
func Levels(depth int) int {
	return 1 << depth
}

// BytesPerRow returns the packed length of one row of width pixels.
func BytesPerRow(width uint32, depth int) int {
	bits := int(width) * depth
	return (bits + 7) / 8
}

// QuantizeLevel maps an 8-bit coverage value to a level at the given depth.
//
// The level is round(v / divisor) with divisor = 255 / (2^depth - 1), computed
// with round-half-up fixed-point arithmetic.
func QuantizeLevel(v byte, depth int) byte {
	if depth == 8 {
		return v
	}
	divisor := int32(255 / (Levels(depth) - 1))
	level := ((int32(v)<<quantizeShift)/divisor + 1<<(quantizeShift-1)) >> quantizeShift
	return byte(level)
}

// Quantize packs 8-bit coverage into levels of the given bit depth.
//
// coverage is row-major with rows of exactly width pixels. At depth 8 the
// input is returned as a copy. Quantize panics if depth is not 1, 2, 4 or 8, or
// if len(coverage) is not a multiple of width; both indicate a caller bug.
func Quantize(coverage []byte, width uint32, depth int) []byte {
	if !ValidDepth(depth) {
		panic(fmt.Sprintf("bitmap: unsupported bit depth %d", depth))
	}
	if width == 0 {
		if len(coverage) != 0 {
			panic("bitmap: coverage for zero-width image")
		}
		return nil
	}
	if len(coverage)%int(width) != 0 {
		panic(fmt.Sprintf("bitmap: coverage length %d is not a multiple of row width %d", len(coverage), width))
	}
	if depth == 8 {
		out := make([]byte, len(coverage))
		copy(out, coverage)
		return out
	}

	rows := len(coverage) / int(width)
	stride := BytesPerRow(width, depth)
	perByte := 8 / depth
	out := make([]byte, rows*stride)
	for y := range rows {
		row := coverage[y*int(width) : (y+1)*int(width)]
		dst := out[y*stride : (y+1)*stride]
		for x, v := range row {
			shift := uint(8 - depth*(x%perByte+1))
			dst[x/perByte] |= QuantizeLevel(v, depth) << shift
		}
	}
	return out
}
