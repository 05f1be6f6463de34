package batch

import(
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/radiance-filter/pkg/hdrio"
	"github.com/abworrall/radiance-filter/pkg/outlier"
)

/* Example config file ...

verbosity: 1
dir: images
pattern: "*.exr"
radius: 476
mediansize: 4
writeotsu: true
cutsuffix: _cut.exr
filteredsuffix: _filtered.exr
otsusuffix: _filtered_otsu.exr
preview: reinhard05

*/

type Config struct {
	Verbosity      int

	Dir            string   // Where to look for inputs, if none are named explicitly
	Pattern        string   // Glob applied within Dir

	Radius         float64  // Circular region of interest, in pixels from the image center
	MedianSize     int      // Window size of the median filter ahead of the Otsu projection
	WriteOtsu      bool     // Persist the Otsu-filtered image too

	// Each output is written to <input path><suffix>; the suffix's extension picks the format
	CutSuffix      string
	FilteredSuffix string
	OtsuSuffix     string

	Preview        string   // If set, a tonemapper name; LDR PNG previews get written
}

func NewConfig() Config {
	return Config{
		Dir:            "images",
		Pattern:        "*.exr",
		Radius:         outlier.DefaultRadius,
		MedianSize:     outlier.DefaultMedianSize,
		CutSuffix:      "_cut.exr",
		FilteredSuffix: "_filtered.exr",
		OtsuSuffix:     "_filtered_otsu.exr",
	}
}

// LoadConfig reads a YAML file over the defaults, then finalizes it.
func LoadConfig(filename string) (Config, error) {
	c := NewConfig()

	if contents,err := os.ReadFile(filename); err != nil {
		return c, fmt.Errorf("config read '%s': %w", filename, err)
	} else if err := yaml.Unmarshal(contents, &c); err != nil {
		return c, fmt.Errorf("config parse '%s': %w", filename, err)
	}

	return c, c.Finalize()
}

// Finalize does sanity checks
func (c *Config) Finalize() error {
	if c.Radius <= 0 {
		return fmt.Errorf("radius must be positive, got %g", c.Radius)
	}
	if c.MedianSize < 1 {
		return fmt.Errorf("mediansize must be at least 1, got %d", c.MedianSize)
	}
	if c.Pattern == "" {
		c.Pattern = "*"
	}

	seen := map[string]bool{}
	for _, suffix := range []string{c.CutSuffix, c.FilteredSuffix, c.OtsuSuffix} {
		if suffix == "" {
			return fmt.Errorf("output suffixes may not be empty")
		} else if seen[suffix] {
			return fmt.Errorf("output suffix '%s' used twice", suffix)
		} else if !hdrio.Supported(suffix) {
			return fmt.Errorf("output suffix '%s': no codec for %q, have %v", suffix, filepath.Ext(suffix), hdrio.Extensions())
		}
		seen[suffix] = true
	}

	if c.Preview != "" {
		known := false
		for _, name := range hdrio.Tonemappers {
			if name == c.Preview { known = true }
		}
		if !known {
			return fmt.Errorf("no preview tonemapper named '%s', wanted %v", c.Preview, hdrio.Tonemappers)
		}
	}

	return nil
}

func (c Config) AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("# can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

// ValidSuffix names the debug dump of the valid-pixel image; same format as the cut output.
func (c Config) ValidSuffix() string { return "_valid" + filepath.Ext(c.CutSuffix) }

// GraySuffix names the debug dump of the Otsu gray projection.
func (c Config) GraySuffix() string { return "_gray.png" }

// OutputSuffixes lists every suffix this tool might append to an input
// path, so reruns can recognize (and skip) earlier outputs.
func (c Config) OutputSuffixes() []string {
	return []string{c.CutSuffix, c.FilteredSuffix, c.OtsuSuffix, c.ValidSuffix(), c.GraySuffix()}
}
