package outlier

import (
	"math"

	"github.com/abworrall/radiance-filter/pkg/radiance"
)

// DefaultMedianSize is the median filter window used before the gray projection.
const DefaultMedianSize = 4

// MedianBlurRGB median-filters each of R,G,B independently with a
// size x size window (see emath.FloatGrid.MedianFilter) and sets alpha
// to 1 everywhere in the result.
func MedianBlurRGB(img *radiance.Image, size int) *radiance.Image {
	out := radiance.New(img.W, img.H)
	for _, c := range []int{radiance.R, radiance.G, radiance.B} {
		plane := img.Plane(c)
		out.SetPlane(c, plane.MedianFilter(size))
	}
	out.FillChannel(radiance.A, 1.0)
	return out
}

// Fixed point luminance weights (0.299, 0.587, 0.114 scaled by 1<<14);
// these give the same bytes as OpenCV's 8-bit RGB->gray conversion.
const (
	grayShift = 14
	grayR     = 4899
	grayG     = 9617
	grayB     = 1868
)

// RGBToGray maps an 8-bit RGB triple to 8-bit luminance, rounding half up.
func RGBToGray(r, g, b uint8) uint8 {
	y := int(r)*grayR + int(g)*grayG + int(b)*grayB + (1 << (grayShift - 1))
	return uint8(y >> grayShift)
}

// Quantize scales a linear value into a byte as uint8(v/max*255),
// truncating. Out of range values saturate rather than wrap.
func Quantize(v, max float64) uint8 {
	q := v / max * 255
	switch {
	case math.IsNaN(q), q <= 0:
		return 0
	case q >= 255:
		return 255
	}
	return uint8(q)
}

// A GrayProjection is an 8-bit grayscale rendering of a blurred
// radiance image, normalized against its brightest valid sample.
type GrayProjection struct {
	W, H int
	Max  float64 // The linear value that maps to 255
	Gray []uint8 // row-major
}

// Flat reports whether there was nothing positive to normalize against;
// every gray level is then 0.
func (gp GrayProjection) Flat() bool { return !(gp.Max > 0) }

// Project normalizes the R,G,B of blurred by the max over the valid
// pixels, quantizes each channel to 8 bits and converts to gray. If the
// max is not positive (e.g. the median erased a lone bright pixel) the
// projection is flat: all zeros.
func Project(blurred *radiance.Image, vs ValidSet) (GrayProjection, error) {
	gp := GrayProjection{W: blurred.W, H: blurred.H}
	max, err := ValidMax(blurred, vs)
	if err != nil {
		return gp, err
	}

	gp.Max = max
	gp.Gray = make([]uint8, blurred.NumPixels())
	if gp.Flat() {
		return gp, nil
	}
	for p := range gp.Gray {
		off := p * radiance.NumChannels
		gp.Gray[p] = RGBToGray(
			Quantize(blurred.Pix[off+radiance.R], max),
			Quantize(blurred.Pix[off+radiance.G], max),
			Quantize(blurred.Pix[off+radiance.B], max),
		)
	}
	return gp, nil
}

// Masked returns the gray levels of the pixels inside m, in row-major order.
func (gp GrayProjection) Masked(m Mask) []uint8 {
	levels := make([]uint8, 0, m.Count())
	for p, in := range m.In {
		if in {
			levels = append(levels, gp.Gray[p])
		}
	}
	return levels
}
