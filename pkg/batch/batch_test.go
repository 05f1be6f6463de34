package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/radiance-filter/pkg/hdrio"
	"github.com/abworrall/radiance-filter/pkg/outlier"
	"github.com/abworrall/radiance-filter/pkg/radiance"
)

func testConfig(dir string) Config {
	cfg := NewConfig()
	cfg.Dir = dir
	cfg.Pattern = "*.hdr"
	cfg.Radius = 15
	cfg.CutSuffix = "_cut.hdr"
	cfg.FilteredSuffix = "_filtered.hdr"
	cfg.OtsuSuffix = "_otsu.hdr"
	return cfg
}

// A 40x40 gray field with a small, very bright patch in the middle.
func writeScene(t *testing.T, filename string) {
	t.Helper()
	img := radiance.NewFilled(40, 40, 0.5, 0.5, 0.5, 1)
	for y := 19; y < 22; y++ {
		for x := 19; x < 22; x++ {
			img.SetRGBA(x, y, 8, 8, 8, 1)
		}
	}
	require.NoError(t, hdrio.Write(img, filename))
}

func TestRunFiltersAndWrites(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.hdr")
	writeScene(t, scene)

	cfg := testConfig(dir)
	cfg.WriteOtsu = true
	require.NoError(t, cfg.Finalize())

	inputs, err := FindInputs(cfg)
	require.NoError(t, err)
	require.Equal(t, []string{scene}, inputs)

	rep, err := Run(cfg, inputs)
	require.NoError(t, err)
	require.Len(t, rep.Results, 1)

	res := rep.Results[0]
	require.NoError(t, res.Err)
	assert.Equal(t, 40, res.Width)
	assert.Equal(t, res.MaskedPixels, res.ValidPixels)
	assert.Equal(t, 9, res.StdDevRemoved, "only the bright patch goes")
	assert.Greater(t, res.StdDevThreshold, 0.5)
	assert.Less(t, res.StdDevThreshold, 8.0)
	assert.Less(t, res.FilteredMax, 1.0)
	assert.Equal(t, []string{scene + "_cut.hdr", scene + "_filtered.hdr", scene + "_otsu.hdr"}, res.Outputs)

	cut, err := hdrio.Load(scene + "_cut.hdr")
	require.NoError(t, err)
	filtered, err := hdrio.Load(scene + "_filtered.hdr")
	require.NoError(t, err)

	r, g, b := filtered.RGB(20, 20)
	assert.Equal(t, [3]float64{0, 0, 0}, [3]float64{r, g, b})
	r, _, _ = cut.RGB(20, 20)
	assert.InDelta(t, 8.0, r, 0.1)
	r, _, _ = filtered.RGB(20, 10)
	assert.InDelta(t, 0.5, r, 0.01)
	for _, img := range []*radiance.Image{cut, filtered} {
		r, g, b := img.RGB(0, 0)
		assert.Equal(t, [3]float64{0, 0, 0}, [3]float64{r, g, b}, "outside the circle")
	}

	// A rerun must not pick up its own outputs.
	inputs, err = FindInputs(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{scene}, inputs)
}

func TestRunIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "b-good.hdr")
	writeScene(t, good)

	black := filepath.Join(dir, "a-black.hdr")
	require.NoError(t, hdrio.Write(radiance.NewFilled(20, 20, 0, 0, 0, 1), black))

	garbage := filepath.Join(dir, "c-garbage.hdr")
	require.NoError(t, os.WriteFile(garbage, []byte("this is not an image"), 0644))

	cfg := testConfig(dir)
	inputs, err := FindInputs(cfg)
	require.NoError(t, err)
	require.Equal(t, []string{black, good, garbage}, inputs)

	rep, err := Run(cfg, inputs)
	require.Error(t, err)
	require.Len(t, rep.Results, 3)
	assert.Len(t, rep.Failed(), 2)

	assert.ErrorIs(t, rep.Results[0].Err, outlier.ErrEmptyValidSet)
	assert.Empty(t, rep.Results[0].Outputs)
	assert.NoFileExists(t, black+cfg.CutSuffix)

	assert.NoError(t, rep.Results[1].Err)
	assert.FileExists(t, good+cfg.FilteredSuffix)
	assert.NoFileExists(t, good+cfg.OtsuSuffix, "otsu output is off by default")

	var le *hdrio.LoadError
	assert.ErrorAs(t, rep.Results[2].Err, &le)
	assert.Contains(t, rep.String(), "FAILED")
}

func TestRunLoneOutlierAmongBlack(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "lone.hdr")
	img := radiance.NewFilled(40, 40, 0, 0, 0, 1)
	img.SetRGBA(20, 20, 1000, 1000, 1000, 1)
	require.NoError(t, hdrio.Write(img, scene))

	cfg := testConfig(dir)
	cfg.WriteOtsu = true
	rep, err := Run(cfg, []string{scene})
	require.NoError(t, err)

	res := rep.Results[0]
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.ValidPixels)
	assert.Equal(t, 1000.0, res.StdDevThreshold)
	assert.Equal(t, 0, res.StdDevRemoved)
	assert.Equal(t, 0, res.OtsuLevel)
	assert.Equal(t, 1, res.OtsuRemoved)
	for _, suffix := range []string{cfg.CutSuffix, cfg.FilteredSuffix, cfg.OtsuSuffix} {
		assert.FileExists(t, scene+suffix)
	}

	filtered, err := hdrio.Load(scene + cfg.FilteredSuffix)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, filtered.Sample(20, 20, radiance.R))
}

func TestRunDebugDumpsAndPreviews(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.hdr")
	writeScene(t, scene)

	cfg := testConfig(dir)
	cfg.Verbosity = 1
	cfg.Preview = "linear"
	cfg.WriteOtsu = true
	require.NoError(t, cfg.Finalize())

	rep, err := Run(cfg, []string{scene})
	require.NoError(t, err)

	for _, f := range []string{
		scene + "_valid.hdr",
		scene + "_gray.png",
		scene + "_filtered.hdr.png",
		scene + "_otsu.hdr.png",
	} {
		assert.FileExists(t, f)
		assert.Contains(t, rep.Results[0].Outputs, f)
	}

	res := rep.Results[0]
	assert.LessOrEqual(t, res.GrayP50, res.GrayP90)
	assert.LessOrEqual(t, res.GrayP90, res.GrayP99)
}

func TestGrayPercentiles(t *testing.T) {
	levels := []uint8{}
	for l := 1; l <= 100; l++ {
		levels = append(levels, uint8(l))
	}
	p50, p90, p99 := grayPercentiles(levels)
	assert.Equal(t, []int64{50, 90, 99}, []int64{p50, p90, p99})

	p50, _, p99 = grayPercentiles([]uint8{0, 0, 0, 255})
	assert.Equal(t, int64(0), p50)
	assert.Equal(t, int64(255), p99)
}

func TestFindInputsWithArgs(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))

	a := filepath.Join(dir, "a.hdr")
	b := filepath.Join(sub, "b.tif")
	writeScene(t, a)
	require.NoError(t, os.WriteFile(b, nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "notes.txt"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "b.tif_cut.hdr"), nil, 0644))
	// Ends like an output, but there's no "plain" for it to be the output of
	plain := filepath.Join(dir, "plain_cut.hdr")
	require.NoError(t, os.WriteFile(plain, nil, 0644))

	cfg := testConfig(t.TempDir())
	inputs, err := FindInputs(cfg, dir, a)
	require.NoError(t, err)
	assert.Equal(t, []string{a, plain, b}, inputs)

	_, err = FindInputs(cfg, filepath.Join(dir, "nope"))
	assert.Error(t, err)
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "radfilter.yaml")
	yml := "radius: 100\nmediansize: 3\nwriteotsu: true\ncutsuffix: _c.hdr\nfilteredsuffix: _f.hdr\notsusuffix: _o.tif\npreview: reinhard05\n"
	require.NoError(t, os.WriteFile(filename, []byte(yml), 0644))

	cfg, err := LoadConfig(filename)
	require.NoError(t, err)
	assert.Equal(t, 100.0, cfg.Radius)
	assert.Equal(t, 3, cfg.MedianSize)
	assert.True(t, cfg.WriteOtsu)
	assert.Equal(t, "_o.tif", cfg.OtsuSuffix)
	assert.Equal(t, "images", cfg.Dir, "defaults survive")
	assert.Contains(t, cfg.AsYaml(), "radius: 100")

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := []func(c *Config){
		func(c *Config) { c.Radius = 0 },
		func(c *Config) { c.MedianSize = 0 },
		func(c *Config) { c.CutSuffix = "" },
		func(c *Config) { c.OtsuSuffix = c.CutSuffix },
		func(c *Config) { c.FilteredSuffix = "_f.jpg" },
		func(c *Config) { c.Preview = "fattal02" },
	}
	for i, mutate := range bad {
		c := testConfig(dir)
		mutate(&c)
		assert.Error(t, c.Finalize(), "case %d", i)
	}
}
