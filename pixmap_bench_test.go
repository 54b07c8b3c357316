package mplus

import (
	"image"
	"slices"
	"strconv"
	"testing"
)

func BenchmarkFillSolidVsSetPixel(b *testing.B) {
	pm := NewPixmap(1000, 1000)
	c := Rgb888{R: 255}
	for _, n := range []int{10, 100, 500} {
		b.Run("SetPixel_"+strconv.Itoa(n), func(b *testing.B) {
			for b.Loop() {
				for x := range n {
					pm.SetPixel(x, 500, c)
				}
			}
		})
		b.Run("FillSolid_"+strconv.Itoa(n), func(b *testing.B) {
			area := Rect(0, 500, uint32(n), 1) //nolint:gosec // small
			for b.Loop() {
				_ = pm.FillSolid(area, c)
			}
		})
	}
}

func BenchmarkFillContiguous(b *testing.B) {
	pm := NewPixmap(64, 64)
	colors := make([]Rgb888, 32*32)
	for b.Loop() {
		_ = pm.FillContiguous(Rect(16, 16, 32, 32), slices.Values(colors))
	}
}

func BenchmarkDrawString(b *testing.B) {
	pm := NewPixmap(200, 10)
	style := NewStyle(blockFont(), white)
	for b.Loop() {
		_, _ = style.DrawString("abababababab", image.Pt(0, 3), Alphabetic, pm)
	}
}
