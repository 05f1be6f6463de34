package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/abworrall/radiance-filter/pkg/hdrio"
)

// FindInputs works out which files to process. Named args can be files
// or dirs (dirs are recursed into, picking up any file with a registered
// extension); with no args, Config.Pattern is globbed inside Config.Dir.
// Outputs of an earlier run are dropped when their input is also present.
func FindInputs(cfg Config, args ...string) ([]string, error) {
	found := []string{}

	if len(args) == 0 {
		matches, err := filepath.Glob(filepath.Join(cfg.Dir, cfg.Pattern))
		if err != nil {
			return nil, fmt.Errorf("glob '%s' in '%s': %w", cfg.Pattern, cfg.Dir, err)
		}
		found = matches
	}

	for _, arg := range args {
		if err := walkArg(arg, true, &found); err != nil {
			return nil, err
		}
	}

	candidates := map[string]bool{}
	for _, f := range found {
		candidates[f] = true
	}

	inputs := []string{}
	for f := range candidates {
		if src := outputOf(cfg, f, candidates); src != "" {
			log.Debug().Str("file", f).Str("source", src).Msg("skipping earlier output")
			continue
		}
		inputs = append(inputs, f)
	}

	sort.Strings(inputs)
	return inputs, nil
}

func walkArg(arg string, explicit bool, found *[]string) error {
	item, err := os.Stat(arg)

	switch {

	case err != nil:
		return fmt.Errorf("load %s: %w", arg, err)

	case item.IsDir():
		// Is a dir, recurse into contents
		contents, err := os.ReadDir(arg)
		if err != nil {
			return fmt.Errorf("readdir %s: %w", arg, err)
		}
		for _, content := range contents {
			if err := walkArg(filepath.Join(arg, content.Name()), false, found); err != nil {
				return fmt.Errorf("load %s: %w", arg, err)
			}
		}

	case explicit || hdrio.Supported(arg):
		// Files named on the command line are taken as given; Load will complain if need be
		*found = append(*found, arg)
	}

	return nil
}

// outputOf returns the input that filename was derived from, if filename
// is <input><output suffix> and that input is also up for processing.
// A file that merely happens to end in a suffix is a genuine input.
func outputOf(cfg Config, filename string, candidates map[string]bool) string {
	for _, suffix := range cfg.OutputSuffixes() {
		if !strings.HasSuffix(filename, suffix) {
			continue
		}
		if src := strings.TrimSuffix(filename, suffix); candidates[src] {
			return src
		}
	}
	return ""
}
