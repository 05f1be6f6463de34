package hdrio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abworrall/radiance-filter/pkg/radiance"
)

var(
	ErrUnknownFormat = errors.New("no codec for file extension")
	ErrChannels      = errors.New("image must have 3 or 4 channels")
	ErrEmptyImage    = errors.New("image has no pixels")
)

// A Codec reads and writes one HDR container format. Decoders return 4
// channel images, synthesizing alpha=1.0 for 3 channel sources.
type Codec interface {
	Decode(filename string) (*radiance.Image, error)
	Encode(filename string, img *radiance.Image) error
}

var codecs = map[string]Codec{}

// Register makes a codec available for a file extension (e.g. ".exr").
// Later registrations replace earlier ones.
func Register(ext string, c Codec) {
	codecs[strings.ToLower(ext)] = c
}

// Extensions lists the registered extensions, sorted.
func Extensions() []string {
	exts := []string{}
	for ext := range codecs {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func codecFor(filename string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if c, exists := codecs[ext]; exists {
		return c, nil
	}
	return nil, fmt.Errorf("%w '%s' (have %v)", ErrUnknownFormat, ext, Extensions())
}

// Supported reports whether filename has a registered extension.
func Supported(filename string) bool {
	_, err := codecFor(filename)
	return err == nil
}

// Load reads an HDR image, picking the codec from the file extension.
// Any failure comes back as a *LoadError.
func Load(filename string) (*radiance.Image, error) {
	c, err := codecFor(filename)
	if err != nil {
		return nil, &LoadError{Path: filename, Err: err}
	}

	if _, err := os.Stat(filename); err != nil {
		return nil, &LoadError{Path: filename, Err: err}
	}

	img, err := c.Decode(filename)
	if err != nil {
		return nil, &LoadError{Path: filename, Err: err}
	} else if img.NumPixels() == 0 {
		return nil, &LoadError{Path: filename, Err: ErrEmptyImage}
	}

	return img, nil
}

// Write encodes img into filename, picking the codec from the extension.
// Any failure comes back as a *WriteError.
func Write(img *radiance.Image, filename string) error {
	c, err := codecFor(filename)
	if err != nil {
		return &WriteError{Path: filename, Err: err}
	}

	if err := c.Encode(filename, img); err != nil {
		return &WriteError{Path: filename, Err: err}
	}
	return nil
}
