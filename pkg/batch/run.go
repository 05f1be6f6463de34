package batch

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/abworrall/radiance-filter/pkg/emath"
	"github.com/abworrall/radiance-filter/pkg/hdrio"
	"github.com/abworrall/radiance-filter/pkg/outlier"
	"github.com/abworrall/radiance-filter/pkg/radiance"
)

// Run processes each input in turn. A failure on one file is logged and
// recorded in the Report, and the run carries on with the next file. The
// returned error is non-nil if any file failed.
func Run(cfg Config, inputs []string) (Report, error) {
	rep := Report{}

	for _, filename := range inputs {
		log.Info().Str("file", filename).Msg("-------------------")
		log.Info().Str("file", filename).Msg("processing")

		res := ProcessFile(cfg, filename)
		if res.Err != nil {
			log.Error().Err(res.Err).Str("file", filename).Int("outputs", len(res.Outputs)).Msg("file failed")
		}
		rep.Results = append(rep.Results, res)
	}

	if failed := len(rep.Failed()); failed > 0 {
		return rep, fmt.Errorf("%d of %d files failed", failed, len(inputs))
	}
	return rep, nil
}

// ProcessFile runs the whole filter over one file and writes its outputs.
// Errors end up in Result.Err; outputs written before the error stay put.
func ProcessFile(cfg Config, filename string) Result {
	res := Result{Input: filename}
	res.Err = processFile(cfg, filename, &res)
	return res
}

func processFile(cfg Config, filename string, res *Result) error {
	img, err := hdrio.Load(filename)
	if err != nil {
		return err
	}
	res.Width, res.Height = img.W, img.H

	gs := outlier.ComputeGlobalStats(img)
	log.Debug().Str("file", filename).Stringer("stats", gs).Msg("global statistics")

	mask := outlier.CircularMask(img.W, img.H, cfg.Radius)
	masked := mask.Apply(img)
	res.MaskedPixels = mask.Count()

	vs := outlier.SelectValid(masked)
	res.ValidPixels = len(vs)
	if len(vs) == 0 {
		return fmt.Errorf("'%s': %w", filename, &outlier.EmptyValidSetError{MaskedPixels: res.MaskedPixels})
	}

	sd, err := outlier.StdDevFilter(masked, vs)
	if err != nil {
		return fmt.Errorf("'%s' stddev filter: %w", filename, err)
	}
	res.StdDevThreshold, res.StdDevRemoved = sd.Threshold, sd.Removed
	res.FilteredMean, res.FilteredMax = sd.Summary.Mean, sd.Summary.Max

	log.Debug().Str("file", filename).
		Float64("mean", sd.Mean).
		Float64("std", sd.StdDev).
		Float64("threshold", sd.Threshold).
		Int("removed", sd.Removed).
		Msg("stddev filter")
	log.Info().Str("file", filename).Float64("filtered_mean", sd.Summary.Mean).Msg("MEAN VALUE OF THE FILTERED IMAGE")
	log.Info().Str("file", filename).Float64("filtered_max", sd.Summary.Max).Msg("MAX VALUE OF THE FILTERED IMAGE")

	if err := writeOutput(res, masked, filename+cfg.CutSuffix); err != nil {
		return err
	}
	if err := writeOutput(res, sd.Filtered, filename+cfg.FilteredSuffix); err != nil {
		return err
	}
	if cfg.Verbosity > 0 {
		if err := writeOutput(res, vs.Image(masked), filename+cfg.ValidSuffix()); err != nil {
			return err
		}
	}
	if cfg.Preview != "" {
		if err := writePreview(cfg, res, sd.Filtered, filename+cfg.FilteredSuffix+".png"); err != nil {
			return err
		}
	}

	ot, err := outlier.OtsuFilter(masked, mask, vs, cfg.MedianSize)
	if err != nil {
		return fmt.Errorf("'%s' otsu filter: %w", filename, err)
	}
	if ot.Projection.Flat() {
		log.Warn().Str("file", filename).Float64("max", ot.Projection.Max).Msg("median blur left nothing bright in the valid set, otsu level is 0")
	}
	res.OtsuLevel, res.OtsuThreshold, res.OtsuRemoved = ot.Level, ot.Threshold, ot.Removed
	res.GrayP50, res.GrayP90, res.GrayP99 = grayPercentiles(ot.Levels)

	log.Debug().Str("file", filename).
		Int("level", ot.Level).
		Float64("threshold", ot.Threshold).
		Float64("max", ot.Projection.Max).
		Int("removed", ot.Removed).
		Int64("p50", res.GrayP50).
		Int64("p90", res.GrayP90).
		Int64("p99", res.GrayP99).
		Msg("otsu filter")

	if cfg.Verbosity > 0 {
		if err := writeGray(res, ot, filename+cfg.GraySuffix()); err != nil {
			return err
		}
	}

	if cfg.WriteOtsu {
		if err := writeOutput(res, ot.Filtered, filename+cfg.OtsuSuffix); err != nil {
			return err
		}
		if cfg.Preview != "" {
			if err := writePreview(cfg, res, ot.Filtered, filename+cfg.OtsuSuffix+".png"); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeOutput(res *Result, img *radiance.Image, filename string) error {
	if err := hdrio.Write(img, filename); err != nil {
		return err
	}
	res.Outputs = append(res.Outputs, filename)
	log.Debug().Str("output", filename).Msg("written")
	return nil
}

func writePreview(cfg Config, res *Result, img *radiance.Image, filename string) error {
	if err := hdrio.WritePreview(img, cfg.Preview, filename); err != nil {
		return err
	}
	res.Outputs = append(res.Outputs, filename)
	return nil
}

// writeGray dumps the gray projection Otsu ran over, with the threshold in the title.
func writeGray(res *Result, ot outlier.OtsuResult, filename string) error {
	gp := ot.Projection
	fg := emath.NewFloatGrid(gp.W, gp.H)
	for y:=0; y<gp.H; y++ {
		for x:=0; x<gp.W; x++ {
			fg.Set(x, y, float64(gp.Gray[y*gp.W+x]))
		}
	}

	title := fmt.Sprintf("otsu level %d, threshold %g", ot.Level, ot.Threshold)
	if err := fg.ToImg(title, filename); err != nil {
		return &hdrio.WriteError{Path: filename, Err: err}
	}
	res.Outputs = append(res.Outputs, filename)
	return nil
}
