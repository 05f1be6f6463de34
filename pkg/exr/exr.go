// Package exr reads and writes OpenEXR files through OpenCV. It needs a
// gocv build (cgo + OpenCV 4.x compiled with OpenEXR); callers opt in by
// calling Register, which keeps OpenCV out of everything else.
package exr

import (
	"fmt"
	"os"

	"gocv.io/x/gocv"

	"github.com/abworrall/radiance-filter/pkg/hdrio"
	"github.com/abworrall/radiance-filter/pkg/radiance"
)

// OpenCV refuses to touch EXR files unless this is set before its first
// imread/imwrite.
const enableEnvVar = "OPENCV_IO_ENABLE_OPENEXR"

// Codec reads the default (unnamed) RGB or RGBA layer of an EXR file
// as 32 bit floats. OpenCV stores channels as BGR(A); we swap on the way
// in and out.
type Codec struct{}

// Register hooks the codec up to hdrio for the .exr extension.
func Register() {
	if os.Getenv(enableEnvVar) == "" {
		os.Setenv(enableEnvVar, "1")
	}
	hdrio.Register(".exr", Codec{})
}

func (Codec) Decode(filename string) (*radiance.Image, error) {
	mat := gocv.IMRead(filename, gocv.IMReadUnchanged)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("exr loading '%s': opencv could not decode it", filename)
	}

	channels := mat.Channels()
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("exr '%s' has %d channels: %w", filename, channels, hdrio.ErrChannels)
	}

	src := mat
	if mat.Type() != gocv.MatTypeCV32FC3 && mat.Type() != gocv.MatTypeCV32FC4 {
		// Half floats etc; get everything into 32 bit floats
		f32 := gocv.NewMat()
		defer f32.Close()
		if err := mat.ConvertTo(&f32, gocv.MatTypeCV32F); err != nil {
			return nil, fmt.Errorf("exr convert '%s': %w", filename, err)
		}
		src = f32
	}

	data, err := src.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("exr data '%s': %w", filename, err)
	}

	img := radiance.New(src.Cols(), src.Rows())
	for p := 0; p < img.NumPixels(); p++ {
		in := data[p*channels : (p+1)*channels]
		alpha := 1.0
		if channels == 4 {
			alpha = float64(in[3])
		}
		off := p * radiance.NumChannels
		img.Pix[off+radiance.R] = float64(in[2])
		img.Pix[off+radiance.G] = float64(in[1])
		img.Pix[off+radiance.B] = float64(in[0])
		img.Pix[off+radiance.A] = alpha
	}
	return img, nil
}

// Encode writes a 4 channel, 32 bit float EXR.
func (Codec) Encode(filename string, img *radiance.Image) error {
	mat := gocv.NewMatWithSize(img.H, img.W, gocv.MatTypeCV32FC4)
	defer mat.Close()

	data, err := mat.DataPtrFloat32()
	if err != nil {
		return fmt.Errorf("exr data '%s': %w", filename, err)
	}

	for p := 0; p < img.NumPixels(); p++ {
		off := p * radiance.NumChannels
		data[off+0] = float32(img.Pix[off+radiance.B])
		data[off+1] = float32(img.Pix[off+radiance.G])
		data[off+2] = float32(img.Pix[off+radiance.R])
		data[off+3] = float32(img.Pix[off+radiance.A])
	}

	if ok := gocv.IMWrite(filename, mat); !ok {
		return fmt.Errorf("exr writing '%s': opencv imwrite failed", filename)
	}
	return nil
}
