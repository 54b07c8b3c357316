package bitmap

import (
	"image"
	"iter"
)

// Image is a packed gray-level coverage bitmap.
//
// Left and Top position the image relative to the pen: Left is the
// horizontal distance from the pen to the left edge, Top is the distance
// from the baseline up to the top edge.
type Image struct {
	Left  int32
	Top   int32
	Width uint32
	Data  []byte
}

// Height returns the number of rows stored in the image for the given depth.
// Images of zero width have zero height.
func (img Image) Height(depth int) uint32 {
	stride := BytesPerRow(img.Width, depth)
	if stride == 0 {
		return 0
	}
	return uint32(len(img.Data) / stride) //nolint:gosec // image data is bounded by the font compiler
}

// Bounds returns the image rectangle with the origin at the top-left pixel.
func (img Image) Bounds(depth int) image.Rectangle {
	return image.Rect(0, 0, int(img.Width), int(img.Height(depth)))
}

// IsEmpty reports whether the image has no pixels.
func (img Image) IsEmpty() bool {
	return img.Width == 0 || len(img.Data) == 0
}

// Level returns the gray level of the pixel at (x, y).
// Coordinates outside the image yield level 0.
func (img Image) Level(x, y int, depth int) byte {
	if x < 0 || y < 0 || x >= int(img.Width) {
		return 0
	}
	stride := BytesPerRow(img.Width, depth)
	i := y*stride + x*depth/8
	if i >= len(img.Data) {
		return 0
	}
	if depth == 8 {
		return img.Data[i]
	}
	perByte := 8 / depth
	shift := uint(8 - depth*(x%perByte+1))
	mask := byte(Levels(depth) - 1)
	return (img.Data[i] >> shift) & mask
}

// Pixels yields the gray levels of the pixels inside r, row by row.
// r is in image coordinates and is clipped to the image bounds.
func (img Image) Pixels(r image.Rectangle, depth int) iter.Seq[byte] {
	r = r.Intersect(img.Bounds(depth))
	return func(yield func(byte) bool) {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if !yield(img.Level(x, y, depth)) {
					return
				}
			}
		}
	}
}

// ImageSet holds the images of one glyph at every sub-pixel position.
//
// A set is either repeated (one image shared by all positions) or an array of
// one image per position. The zero value is the repeated null image.
type ImageSet struct {
	images []Image
}

// Repeated returns a set that uses img at every position.
func Repeated(img Image) ImageSet {
	return ImageSet{images: []Image{img}}
}

// Array returns a set with one image per position.
// Array panics if images is empty.
func Array(images []Image) ImageSet {
	if len(images) == 0 {
		panic("bitmap: image array must not be empty")
	}
	if len(images) == 1 {
		return Repeated(images[0])
	}
	return ImageSet{images: images}
}

// At returns the image for the given sub-pixel index.
// The index is reduced modulo the number of stored images.
func (s ImageSet) At(index int) Image {
	n := len(s.images)
	if n == 0 {
		return Image{}
	}
	index %= n
	if index < 0 {
		index += n
	}
	return s.images[index]
}

// IsRepeated reports whether one image serves every position.
func (s ImageSet) IsRepeated() bool {
	return len(s.images) <= 1
}

// Len returns the number of stored images.
func (s ImageSet) Len() int {
	if len(s.images) == 0 {
		return 1
	}
	return len(s.images)
}

// Images returns the stored images. A zero set yields the null image.
func (s ImageSet) Images() []Image {
	if len(s.images) == 0 {
		return []Image{{}}
	}
	return s.images
}
