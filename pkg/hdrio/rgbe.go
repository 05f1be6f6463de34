package hdrio

import (
	"fmt"
	"os"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"

	"github.com/abworrall/radiance-filter/pkg/radiance"
)

// RGBE handles Radiance .hdr files. They have no alpha channel; it is
// synthesized on read and dropped on write.
type RGBE struct{}

func init() {
	Register(".hdr", RGBE{})
	Register(".pic", RGBE{})
}

func (RGBE) Decode(filename string) (*radiance.Image, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %w", filename, err)
	}
	defer reader.Close()

	img, err := rgbe.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("rgbe decoding '%s': %w", filename, err)
	}

	hdrImg, ok := img.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("rgbe decoding '%s': %T is not an HDR image", filename, img)
	}
	return radiance.FromHDR(hdrImg), nil
}

func (RGBE) Encode(filename string, img *radiance.Image) error {
	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %w", filename, err)
	}
	defer writer.Close()

	if err := rgbe.Encode(writer, img); err != nil {
		return fmt.Errorf("rgbe encoding '%s': %w", filename, err)
	}
	return writer.Close()
}
