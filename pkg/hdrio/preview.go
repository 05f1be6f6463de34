package hdrio

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/mdouchement/hdr/tmo"

	"github.com/abworrall/radiance-filter/pkg/radiance"
)

var(
	Tonemappers = []string{"linear", "reinhard05"}
)

// WritePreview tonemaps img down to LDR and saves it as a PNG, so the
// filter results can be eyeballed without an HDR viewer.
func WritePreview(img *radiance.Image, tonemapper, filename string) error {
	var op tmo.ToneMappingOperator

	switch tonemapper {
	case "linear":
		op = tmo.NewLinear(img)
	case "reinhard05":
		r := tmo.NewDefaultReinhard05(img)
		r.Light = 0.005 // Otherwise the few remaining bright pixels blow out
		op = r
	default:
		return &WriteError{Path: filename, Err: fmt.Errorf("tonemapper %q not recognized, wanted %v", tonemapper, Tonemappers)}
	}

	if err := WritePNG(op.Perform(), filename); err != nil {
		return &WriteError{Path: filename, Err: err}
	}
	return nil
}

func WritePNG(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %w", filename, err)
	} else {
		defer writer.Close()
		return png.Encode(writer, img)
	}
}
