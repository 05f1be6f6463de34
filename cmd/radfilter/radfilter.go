package main

import(
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/abworrall/radiance-filter/pkg/batch"
	"github.com/abworrall/radiance-filter/pkg/exr"
	"github.com/abworrall/radiance-filter/pkg/hdrio"
)

var(
	fConfigFile string
	fVerbosity int
	fDir string
	fPattern string
	fRadius float64
	fMedianSize int
	fWriteOtsu bool
	fCutSuffix string
	fFilteredSuffix string
	fOtsuSuffix string
	fPreview string
)

func init() {
	defaults := batch.NewConfig()

	flag.StringVar(&fConfigFile, "config", "", "YAML config file; flags given on the command line override it")
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get (>0 also writes debug images)")
	flag.StringVar(&fDir, "dir", defaults.Dir, "directory to scan when no files or dirs are named")
	flag.StringVar(&fPattern, "pattern", defaults.Pattern, "glob for input files within -dir")
	flag.Float64Var(&fRadius, "radius", defaults.Radius, "radius of the circular region of interest, in pixels")
	flag.IntVar(&fMedianSize, "median", defaults.MedianSize, "median filter window size, ahead of the Otsu projection")
	flag.BoolVar(&fWriteOtsu, "otsu", defaults.WriteOtsu, "also write the Otsu-filtered image")
	flag.StringVar(&fCutSuffix, "cut", defaults.CutSuffix, "suffix for the masked output")
	flag.StringVar(&fFilteredSuffix, "filtered", defaults.FilteredSuffix, "suffix for the stddev-filtered output")
	flag.StringVar(&fOtsuSuffix, "otsusuffix", defaults.OtsuSuffix, "suffix for the Otsu-filtered output")
	flag.StringVar(&fPreview, "preview", defaults.Preview, fmt.Sprintf("write LDR PNG previews with this tonemapper %v", hdrio.Tonemappers))
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if fVerbosity > 0 {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	log.Info().Msg("radfilter starting")
}

func main() {
	exr.Register()

	cfg := batch.NewConfig()
	if fConfigFile != "" {
		c, err := batch.LoadConfig(fConfigFile)
		if err != nil {
			log.Fatal().Err(err).Msg("bad config")
		}
		cfg = c
		log.Info().Str("config", fConfigFile).Msg("loaded base configuration")
	}

	// Only flags that were actually set override the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":          cfg.Verbosity = fVerbosity
		case "dir":        cfg.Dir = fDir
		case "pattern":    cfg.Pattern = fPattern
		case "radius":     cfg.Radius = fRadius
		case "median":     cfg.MedianSize = fMedianSize
		case "otsu":       cfg.WriteOtsu = fWriteOtsu
		case "cut":        cfg.CutSuffix = fCutSuffix
		case "filtered":   cfg.FilteredSuffix = fFilteredSuffix
		case "otsusuffix": cfg.OtsuSuffix = fOtsuSuffix
		case "preview":    cfg.Preview = fPreview
		}
	})

	if err := cfg.Finalize(); err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}
	if cfg.Verbosity > 0 {
		log.Debug().Msgf("Final configuration:-\n\n%s\n", cfg.AsYaml())
	}

	inputs, err := batch.FindInputs(cfg, flag.Args()...)
	if err != nil {
		log.Fatal().Err(err).Msg("finding inputs")
	}
	if len(inputs) == 0 {
		log.Warn().Str("dir", cfg.Dir).Str("pattern", cfg.Pattern).Msg("nothing to do")
		return
	}

	rep, err := batch.Run(cfg, inputs)
	log.Info().Int("files", len(rep.Results)).Int("failed", len(rep.Failed())).Msg("done")
	if cfg.Verbosity > 0 {
		fmt.Print(rep)
	}
	if err != nil {
		log.Error().Err(err).Msg("some files were not processed")
		os.Exit(1)
	}
}
