package outlier

import "github.com/abworrall/radiance-filter/pkg/radiance"

// A ValidSet lists pixel indices (y*W+x, ascending) of the pixels that
// the statistics are computed over.
type ValidSet []int

// SelectValid picks the pixels with alpha exactly 1.0 and a non-zero
// R+G+B. Run it on the masked image; masked-out pixels have alpha 0 and
// so never qualify.
func SelectValid(masked *radiance.Image) ValidSet {
	vs := ValidSet{}
	for p := 0; p < masked.NumPixels(); p++ {
		off := p * radiance.NumChannels
		if masked.Pix[off+radiance.A] != 1.0 {
			continue
		}
		if masked.Pix[off+radiance.R]+masked.Pix[off+radiance.G]+masked.Pix[off+radiance.B] == 0 {
			continue
		}
		vs = append(vs, p)
	}
	return vs
}

// RGBSamples gathers the R,G,B samples of the valid pixels of img, in
// pixel order, three per pixel.
func (vs ValidSet) RGBSamples(img *radiance.Image) []float64 {
	samples := make([]float64, 0, 3*len(vs))
	for _, p := range vs {
		off := p * radiance.NumChannels
		samples = append(samples, img.Pix[off+radiance.R], img.Pix[off+radiance.G], img.Pix[off+radiance.B])
	}
	return samples
}

// Image returns a copy of img with every non-valid pixel zeroed (all
// four channels). Handy as a debug dump.
func (vs ValidSet) Image(img *radiance.Image) *radiance.Image {
	out := radiance.New(img.W, img.H)
	for _, p := range vs {
		off := p * radiance.NumChannels
		copy(out.Pix[off:off+radiance.NumChannels], img.Pix[off:off+radiance.NumChannels])
	}
	return out
}
