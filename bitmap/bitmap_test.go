package bitmap

import (
	"bytes"
	"image"
	"testing"
)

func TestQuantizeLevelBounds(t *testing.T) {
	for _, depth := range []int{1, 2, 4, 8} {
		maxLevel := byte(Levels(depth) - 1)
		if got := QuantizeLevel(0, depth); got != 0 {
			t.Errorf("depth %d: QuantizeLevel(0) = %d, want 0", depth, got)
		}
		if got := QuantizeLevel(255, depth); got != maxLevel {
			t.Errorf("depth %d: QuantizeLevel(255) = %d, want %d", depth, got, maxLevel)
		}
	}
}

func TestQuantizeLevelMonotonic(t *testing.T) {
	for _, depth := range []int{1, 2, 4, 8} {
		prev := byte(0)
		for v := 0; v < 256; v++ {
			got := QuantizeLevel(byte(v), depth)
			if got < prev {
				t.Fatalf("depth %d: level decreased at %d: %d < %d", depth, v, got, prev)
			}
			prev = got
		}
	}
}

func TestQuantizeLevelRounding(t *testing.T) {
	tests := []struct {
		v     byte
		depth int
		want  byte
	}{
		{127, 1, 0},
		{128, 1, 1},
		{42, 2, 0},
		{43, 2, 1},
		{127, 2, 1},
		{128, 2, 2},
		{8, 4, 0},
		{9, 4, 1},
		{200, 8, 200},
	}
	for _, tt := range tests {
		if got := QuantizeLevel(tt.v, tt.depth); got != tt.want {
			t.Errorf("QuantizeLevel(%d, %d) = %d, want %d", tt.v, tt.depth, got, tt.want)
		}
	}
}

func TestQuantizePacking(t *testing.T) {
	tests := []struct {
		name     string
		coverage []byte
		width    uint32
		depth    int
		want     []byte
	}{
		{
			name:     "1bit partial byte",
			coverage: []byte{255, 0, 255},
			width:    3,
			depth:    1,
			want:     []byte{0b1010_0000},
		},
		{
			name:     "1bit two rows",
			coverage: []byte{255, 255, 0, 255, 255, 255, 255, 255, 255, 0, 0, 0, 0, 0, 0, 0, 0, 255},
			width:    9,
			depth:    1,
			want:     []byte{0b1101_1111, 0b1000_0000, 0b0000_0000, 0b1000_0000},
		},
		{
			name:     "2bit",
			coverage: []byte{0, 85, 170, 255, 255},
			width:    5,
			depth:    2,
			want:     []byte{0b00_01_10_11, 0b11_00_00_00},
		},
		{
			name:     "4bit",
			coverage: []byte{255, 17, 0},
			width:    3,
			depth:    4,
			want:     []byte{0xF1, 0x00},
		},
		{
			name:     "8bit identity",
			coverage: []byte{1, 2, 3, 4},
			width:    2,
			depth:    8,
			want:     []byte{1, 2, 3, 4},
		},
		{
			name:  "zero width",
			width: 0,
			depth: 4,
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Quantize(tt.coverage, tt.width, tt.depth)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Quantize() = %08b, want %08b", got, tt.want)
			}
		})
	}
}

func TestQuantizePanicsOnRowMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for coverage not divisible by width")
		}
	}()
	Quantize([]byte{1, 2, 3}, 2, 4)
}

func TestQuantizePanicsOnBadDepth(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for depth 3")
		}
	}()
	Quantize([]byte{1}, 1, 3)
}

func TestImageLevelRoundTrip(t *testing.T) {
	coverage := []byte{
		0, 64, 128, 255, 32,
		255, 200, 100, 0, 17,
	}
	for _, depth := range []int{1, 2, 4, 8} {
		img := Image{Width: 5, Data: Quantize(coverage, 5, depth)}
		if h := img.Height(depth); h != 2 {
			t.Fatalf("depth %d: Height() = %d, want 2", depth, h)
		}
		for y := 0; y < 2; y++ {
			for x := 0; x < 5; x++ {
				want := QuantizeLevel(coverage[y*5+x], depth)
				if got := img.Level(x, y, depth); got != want {
					t.Errorf("depth %d: Level(%d,%d) = %d, want %d", depth, x, y, got, want)
				}
			}
		}
	}
}

func TestImagePixelsClipped(t *testing.T) {
	img := Image{Width: 3, Data: []byte{1, 2, 3, 4, 5, 6}}
	var got []byte
	for v := range img.Pixels(image.Rect(1, 0, 10, 10), 8) {
		got = append(got, v)
	}
	want := []byte{2, 3, 5, 6}
	if !bytes.Equal(got, want) {
		t.Errorf("Pixels() = %v, want %v", got, want)
	}
}

func TestImageEmpty(t *testing.T) {
	var img Image
	if !img.IsEmpty() {
		t.Error("zero image should be empty")
	}
	if h := img.Height(4); h != 0 {
		t.Errorf("Height() = %d, want 0", h)
	}
	if got := img.Level(0, 0, 4); got != 0 {
		t.Errorf("Level() = %d, want 0", got)
	}
}

func TestImageSetAt(t *testing.T) {
	a := Image{Left: 1, Width: 1, Data: []byte{1}}
	b := Image{Left: 2, Width: 1, Data: []byte{2}}
	c := Image{Left: 3, Width: 1, Data: []byte{3}}

	rep := Repeated(a)
	for i := range 8 {
		if got := rep.At(i); got.Left != 1 {
			t.Errorf("Repeated.At(%d).Left = %d, want 1", i, got.Left)
		}
	}
	if !rep.IsRepeated() {
		t.Error("Repeated set should report IsRepeated")
	}

	arr := Array([]Image{a, b, c})
	if arr.IsRepeated() {
		t.Error("Array set should not report IsRepeated")
	}
	if arr.Len() != 3 {
		t.Errorf("Len() = %d, want 3", arr.Len())
	}
	wants := []int32{1, 2, 3, 1, 2, 3}
	for i, want := range wants {
		if got := arr.At(i); got.Left != want {
			t.Errorf("Array.At(%d).Left = %d, want %d", i, got.Left, want)
		}
	}

	var zero ImageSet
	if got := zero.At(5); !got.IsEmpty() {
		t.Error("zero set should yield the null image")
	}
	if zero.Len() != 1 {
		t.Errorf("zero Len() = %d, want 1", zero.Len())
	}
}

func TestArrayPanicsWhenEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for empty array")
		}
	}()
	Array(nil)
}
