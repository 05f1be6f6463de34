package outlier

import "github.com/abworrall/radiance-filter/pkg/radiance"

// ThresholdFilter returns a copy of img where every pixel that has any of
// R,G,B strictly greater than thresh gets R,G,B set to zero. Alpha is kept.
// All pixels are considered, not just valid ones; zeroed background always
// passes a positive threshold anyway. Also returns how many pixels were zeroed.
func ThresholdFilter(img *radiance.Image, thresh float64) (*radiance.Image, int) {
	out := img.Clone()
	removed := 0
	for off := 0; off < len(out.Pix); off += radiance.NumChannels {
		if out.Pix[off+radiance.R] > thresh || out.Pix[off+radiance.G] > thresh || out.Pix[off+radiance.B] > thresh {
			out.Pix[off+radiance.R] = 0
			out.Pix[off+radiance.G] = 0
			out.Pix[off+radiance.B] = 0
			removed++
		}
	}
	return out, removed
}

// StdDevResult is the outcome of the mean+stddev filter.
type StdDevResult struct {
	Mean      float64 // Of the valid R,G,B samples
	StdDev    float64
	Threshold float64 // Mean + StdDev
	Removed   int     // Pixels zeroed
	Filtered  *radiance.Image
	Summary   Summary // Of Filtered, over the valid set
}

// StdDevFilter picks a threshold of mean+stddev over the valid pixels of
// the masked image, then applies it with ThresholdFilter.
func StdDevFilter(masked *radiance.Image, vs ValidSet) (StdDevResult, error) {
	res := StdDevResult{}
	mean, std, err := MeanStd(masked, vs)
	if err != nil {
		return res, err
	}

	res.Mean, res.StdDev = mean, std
	res.Threshold = mean + std
	res.Filtered, res.Removed = ThresholdFilter(masked, res.Threshold)
	res.Summary, err = Summarize(res.Filtered, vs)
	return res, err
}
