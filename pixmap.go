package mplus

import (
	"image"
	"image/color"
	"image/png"
	"iter"
	"os"
)

// Pixmap is an opaque RGB pixel buffer. It implements DrawTarget[Rgb888]
// and image.Image.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA, 4 bytes per pixel, alpha always 255
}

// NewPixmap creates a black pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	p := &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
	p.Clear(Rgb888{})
	return p
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data in RGBA order.
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// SetPixel sets the color of a single pixel. Points outside the pixmap are
// ignored.
func (p *Pixmap) SetPixel(x, y int, c Rgb888) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = c.R
	p.data[i+1] = c.G
	p.data[i+2] = c.B
	p.data[i+3] = 0xff
}

// GetPixel returns the color of a single pixel, or black outside the
// pixmap.
func (p *Pixmap) GetPixel(x, y int) Rgb888 {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Rgb888{}
	}
	i := (y*p.width + x) * 4
	return Rgb888{R: p.data[i+0], G: p.data[i+1], B: p.data[i+2]}
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c Rgb888) {
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = c.R
		p.data[i+1] = c.G
		p.data[i+2] = c.B
		p.data[i+3] = 0xff
	}
}

// FillSolid implements DrawTarget.
func (p *Pixmap) FillSolid(area Rectangle, c Rgb888) error {
	r := area.Image().Intersect(p.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p.SetPixel(x, y, c)
		}
	}
	return nil
}

// FillContiguous implements DrawTarget.
func (p *Pixmap) FillContiguous(area Rectangle, colors iter.Seq[Rgb888]) error {
	for pt, c := range pointsOf(area, colors) {
		p.SetPixel(pt.X, pt.Y, c)
	}
	return nil
}

// ToImage converts the pixmap to an image.RGBA.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// FromImage creates a pixmap from an image, dropping alpha.
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	pm := NewPixmap(bounds.Dx(), bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			c := Rgb888Model.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(Rgb888)
			pm.SetPixel(x, y, c)
		}
	}
	return pm
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, p.ToImage())
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.GetPixel(x, y)
}

// Bounds implements the image.Image and DrawTarget interfaces.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return Rgb888Model
}
