package outlier

import (
	"math"

	"github.com/abworrall/radiance-filter/pkg/radiance"
)

// float32 machine epsilon; bins that leave either class with less than
// this share of the pixels are not candidate thresholds.
const fltEpsilon = 1.1920928955078125e-07

// A Histogram counts 8-bit gray levels.
type Histogram [256]int

func NewHistogram(levels []uint8) Histogram {
	h := Histogram{}
	for _, l := range levels {
		h[l]++
	}
	return h
}

func (h Histogram) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// OtsuThreshold picks the gray level t that maximizes the between-class
// variance of {<=t} and {>t}. Ties go to the lowest t. Returns 0 for an
// empty or single-valued histogram. Arithmetic follows OpenCV's
// THRESH_OTSU so results agree bin for bin.
func OtsuThreshold(h Histogram) int {
	total := h.Total()
	if total == 0 {
		return 0
	}
	scale := 1.0 / float64(total)

	mu := 0.0
	for i, c := range h {
		mu += float64(i) * float64(c)
	}
	mu *= scale

	mu1, q1 := 0.0, 0.0
	maxSigma, maxVal := 0.0, 0
	for i, c := range h {
		pi := float64(c) * scale
		mu1 *= q1
		q1 += pi
		q2 := 1.0 - q1

		if math.Min(q1, q2) < fltEpsilon || math.Max(q1, q2) > 1.0-fltEpsilon {
			continue
		}

		mu1 = (mu1 + float64(i)*pi) / q1
		mu2 := (mu - q1*mu1) / q2
		sigma := q1 * q2 * (mu1 - mu2) * (mu1 - mu2)
		if sigma > maxSigma {
			maxSigma = sigma
			maxVal = i
		}
	}
	return maxVal
}

// OtsuResult is the outcome of the Otsu filter.
type OtsuResult struct {
	Projection GrayProjection
	Levels     []uint8 // Gray levels of the pixels inside the mask
	Level      int     // The Otsu threshold, in gray levels
	Threshold  float64 // Level mapped back into linear units
	Removed    int
	Filtered   *radiance.Image
}

// OtsuFilter median-blurs the masked image, projects it to 8-bit gray,
// runs Otsu over the in-mask gray levels, and zeroes pixels of the
// (unblurred) masked image that exceed the threshold mapped back into
// linear units: level/255 * max. A flat projection gives level 0 and a
// threshold of 0, so every pixel with a positive channel is removed.
func OtsuFilter(masked *radiance.Image, m Mask, vs ValidSet, medianSize int) (OtsuResult, error) {
	res := OtsuResult{}

	blurred := MedianBlurRGB(masked, medianSize)
	gp, err := Project(blurred, vs)
	if err != nil {
		return res, err
	}

	res.Projection = gp
	res.Levels = gp.Masked(m)
	res.Level = OtsuThreshold(NewHistogram(res.Levels))
	res.Threshold = float64(res.Level) / 255 * gp.Max
	res.Filtered, res.Removed = ThresholdFilter(masked, res.Threshold)
	return res, nil
}
