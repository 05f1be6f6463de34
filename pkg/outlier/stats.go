package outlier

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/abworrall/radiance-filter/pkg/radiance"
)

// GlobalStats summarizes the RGB channels of a whole (unmasked) image.
// They are informational only; nothing downstream depends on them.
type GlobalStats struct {
	MaxL2         float64 // Largest per-pixel Euclidean norm of (R,G,B)
	MaxChannel    float64 // Largest single R, G or B sample
	Mean          float64 // Over all R,G,B samples
	StdDev        float64 // Population stddev over all R,G,B samples
	MeanLuminance float64 // Mean CIE Y, treating RGB as linear sRGB
}

func (gs GlobalStats) String() string {
	return fmt.Sprintf("maxL2=%g maxChannel=%g mean=%g std=%g meanY=%g",
		gs.MaxL2, gs.MaxChannel, gs.Mean, gs.StdDev, gs.MeanLuminance)
}

func ComputeGlobalStats(img *radiance.Image) GlobalStats {
	gs := GlobalStats{}
	n := img.NumPixels()
	if n == 0 {
		return gs
	}

	samples := make([]float64, 0, 3*n)
	sumY := 0.0
	gs.MaxL2 = math.Inf(-1)
	for p := 0; p < n; p++ {
		off := p * radiance.NumChannels
		r, g, b := img.Pix[off+radiance.R], img.Pix[off+radiance.G], img.Pix[off+radiance.B]
		samples = append(samples, r, g, b)

		if l2 := math.Sqrt(r*r + g*g + b*b); l2 > gs.MaxL2 {
			gs.MaxL2 = l2
		}
		_, y, _ := colorful.LinearRgbToXyz(r, g, b)
		sumY += y
	}

	gs.MaxChannel = floats.Max(samples)
	gs.Mean, gs.StdDev = stat.PopMeanStdDev(samples, nil)
	gs.MeanLuminance = sumY / float64(n)
	return gs
}

// MeanStd returns the mean and population standard deviation of the R,G,B
// samples of the valid pixels.
func MeanStd(img *radiance.Image, vs ValidSet) (float64, float64, error) {
	if len(vs) == 0 {
		return 0, 0, ErrEmptyValidSet
	}
	mean, std := stat.PopMeanStdDev(vs.RGBSamples(img), nil)
	return mean, std, nil
}

// ValidMax returns the largest R,G,B sample over the valid pixels.
func ValidMax(img *radiance.Image, vs ValidSet) (float64, error) {
	if len(vs) == 0 {
		return 0, ErrEmptyValidSet
	}
	return floats.Max(vs.RGBSamples(img)), nil
}

// A Summary is what we report about a filtered image: its mean and max
// over the valid pixels of the image the threshold came from.
type Summary struct {
	Mean float64
	Max  float64
}

func Summarize(img *radiance.Image, vs ValidSet) (Summary, error) {
	if len(vs) == 0 {
		return Summary{}, ErrEmptyValidSet
	}
	samples := vs.RGBSamples(img)
	return Summary{Mean: stat.Mean(samples, nil), Max: floats.Max(samples)}, nil
}
