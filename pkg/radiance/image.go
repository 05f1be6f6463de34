package radiance

import (
	"fmt"
	"image"
	"image/color"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/abworrall/radiance-filter/pkg/emath"
)

// Channel indices into a pixel's samples.
const (
	R = iota
	G
	B
	A

	NumChannels = 4
)

// An Image is a grid of linear radiance values, four float64 samples per
// pixel (R,G,B,A), stored row-major. In numeric terms row i is y and
// column j is x. Implements image.Image and hdr.Image, so the hdr codecs
// and tone mappers can consume it directly.
type Image struct {
	W, H int
	Pix  []float64
}

func New(w, h int) *Image {
	return &Image{W: w, H: h, Pix: make([]float64, w*h*NumChannels)}
}

// NewFilled returns an image where every pixel is (r,g,b,a).
func NewFilled(w, h int, r, g, b, a float64) *Image {
	img := New(w, h)
	for off := 0; off < len(img.Pix); off += NumChannels {
		img.Pix[off+R], img.Pix[off+G], img.Pix[off+B], img.Pix[off+A] = r, g, b, a
	}
	return img
}

func (img *Image) String() string {
	return fmt.Sprintf("radiance.Image[%dx%d]", img.W, img.H)
}

func (img *Image) NumPixels() int            { return img.W * img.H }
func (img *Image) Offset(x, y int) int       { return (y*img.W + x) * NumChannels }
func (img *Image) Sample(x, y, c int) float64 { return img.Pix[img.Offset(x, y)+c] }

func (img *Image) SetSample(x, y, c int, v float64) { img.Pix[img.Offset(x, y)+c] = v }

func (img *Image) RGB(x, y int) (float64, float64, float64) {
	off := img.Offset(x, y)
	return img.Pix[off+R], img.Pix[off+G], img.Pix[off+B]
}

func (img *Image) SetRGBA(x, y int, r, g, b, a float64) {
	off := img.Offset(x, y)
	img.Pix[off+R], img.Pix[off+G], img.Pix[off+B], img.Pix[off+A] = r, g, b, a
}

func (img *Image) Clone() *Image {
	out := &Image{W: img.W, H: img.H, Pix: make([]float64, len(img.Pix))}
	copy(out.Pix, img.Pix)
	return out
}

// Plane copies one channel out into a FloatGrid.
func (img *Image) Plane(c int) emath.FloatGrid {
	fg := emath.NewFloatGrid(img.W, img.H)
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			fg.Set(x, y, img.Pix[img.Offset(x, y)+c])
		}
	}
	return fg
}

// SetPlane overwrites one channel with the contents of fg, which must
// have the same dimensions.
func (img *Image) SetPlane(c int, fg emath.FloatGrid) {
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			img.Pix[img.Offset(x, y)+c] = fg.Get(x, y)
		}
	}
}

// FillChannel sets channel c of every pixel to v.
func (img *Image) FillChannel(c int, v float64) {
	for off := c; off < len(img.Pix); off += NumChannels {
		img.Pix[off] = v
	}
}

// FromHDR copies an hdr.Image into a new Image. hdr images carry no
// alpha, so it is synthesized as 1.0 everywhere.
func FromHDR(m hdr.Image) *Image {
	b := m.Bounds()
	img := New(b.Dx(), b.Dy())
	for y := 0; y < img.H; y++ {
		for x := 0; x < img.W; x++ {
			r, g, bl, _ := m.HDRAt(x+b.Min.X, y+b.Min.Y).HDRRGBA()
			img.SetRGBA(x, y, r, g, bl, 1.0)
		}
	}
	return img
}

// Implement image.Image
func (img *Image) ColorModel() color.Model { return hdrcolor.RGBModel }
func (img *Image) Bounds() image.Rectangle { return image.Rect(0, 0, img.W, img.H) }
func (img *Image) At(x, y int) color.Color { return img.HDRAt(x, y) }

// Implement hdr.Image
func (img *Image) HDRAt(x, y int) hdrcolor.Color {
	r, g, b := img.RGB(x, y)
	return hdrcolor.RGB{R: r, G: g, B: b}
}
func (img *Image) Size() int { return img.NumPixels() }
