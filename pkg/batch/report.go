package batch

import (
	"fmt"

	"github.com/codahale/hdrhistogram"
	"github.com/rs/zerolog/log"
)

// A Result records what happened to one input file.
type Result struct {
	Input   string
	Outputs []string

	Width, Height int
	MaskedPixels  int
	ValidPixels   int

	StdDevThreshold float64
	StdDevRemoved   int
	FilteredMean    float64 // Of the stddev-filtered image, over the valid pixels
	FilteredMax     float64

	OtsuLevel     int
	OtsuThreshold float64
	OtsuRemoved   int
	GrayP50       int64 // Percentiles of the in-mask gray projection
	GrayP90       int64
	GrayP99       int64

	Err error
}

func (r Result) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: FAILED: %v", r.Input, r.Err)
	}
	return fmt.Sprintf("%s: %dx%d, %d/%d valid, stddev thresh %g (-%d), otsu level %d thresh %g (-%d), %d outputs",
		r.Input, r.Width, r.Height, r.ValidPixels, r.MaskedPixels,
		r.StdDevThreshold, r.StdDevRemoved, r.OtsuLevel, r.OtsuThreshold, r.OtsuRemoved, len(r.Outputs))
}

// A Report collects the Results of a run, in processing order.
type Report struct {
	Results []Result
}

func (rep Report) Failed() []Result {
	failed := []Result{}
	for _, r := range rep.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

func (rep Report) String() string {
	str := fmt.Sprintf("Report[%d files, %d failed\n", len(rep.Results), len(rep.Failed()))
	for _, r := range rep.Results {
		str += fmt.Sprintf("  %s\n", r)
	}
	return str + "]\n"
}

// grayPercentiles returns the 50th, 90th and 99th percentile gray levels.
func grayPercentiles(levels []uint8) (int64, int64, int64) {
	h := hdrhistogram.New(1, 255, 3)
	for _, l := range levels {
		if err := h.RecordValue(int64(l)); err != nil {
			log.Warn().Err(err).Uint8("level", l).Msg("gray level not recorded")
		}
	}
	return h.ValueAtQuantile(50), h.ValueAtQuantile(90), h.ValueAtQuantile(99)
}
