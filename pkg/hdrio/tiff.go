package hdrio

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"golang.org/x/image/tiff"

	"github.com/abworrall/radiance-filter/pkg/emath"
	"github.com/abworrall/radiance-filter/pkg/radiance"
)

// TIFF handles 8 and 16 bit integer TIFFs, mapping [0, max] onto [0.0, 1.0].
// It's not really HDR, but lets exported stills go through the same filter.
type TIFF struct{}

func init() {
	Register(".tif", TIFF{})
	Register(".tiff", TIFF{})
}

func (TIFF) Decode(filename string) (*radiance.Image, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %w", filename, err)
	}
	defer reader.Close()

	img, err := tiff.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("tiff loading '%s': %w", filename, err)
	}

	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return nil, fmt.Errorf("tiff '%s' is grayscale: %w", filename, ErrChannels)
	case *image.Paletted:
		return nil, fmt.Errorf("tiff '%s' is paletted: %w", filename, ErrChannels)
	}

	b := img.Bounds()
	out := radiance.New(b.Dx(), b.Dy())
	for y:=0; y<out.H; y++ {
		for x:=0; x<out.W; x++ {
			c := color.NRGBA64Model.Convert(img.At(x+b.Min.X, y+b.Min.Y)).(color.NRGBA64)
			out.SetRGBA(x, y,
				float64(c.R) / 0xFFFF,
				float64(c.G) / 0xFFFF,
				float64(c.B) / 0xFFFF,
				float64(c.A) / 0xFFFF)
		}
	}
	return out, nil
}

func to16(v float64) uint16 {
	return uint16(math.Round(emath.Clamp(v, 0, 1) * 0xFFFF))
}

// Encode writes a 16 bit RGBA TIFF; values outside [0,1] are clipped.
func (TIFF) Encode(filename string, img *radiance.Image) error {
	m := image.NewNRGBA64(img.Bounds())
	for y:=0; y<img.H; y++ {
		for x:=0; x<img.W; x++ {
			off := img.Offset(x, y)
			m.SetNRGBA64(x, y, color.NRGBA64{
				R: to16(img.Pix[off+radiance.R]),
				G: to16(img.Pix[off+radiance.G]),
				B: to16(img.Pix[off+radiance.B]),
				A: to16(img.Pix[off+radiance.A]),
			})
		}
	}

	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %w", filename, err)
	}
	defer writer.Close()

	if err := tiff.Encode(writer, m, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return fmt.Errorf("tiff encoding '%s': %w", filename, err)
	}
	return writer.Close()
}
