package outlier

import (
	"math"

	"github.com/abworrall/radiance-filter/pkg/radiance"
)

// DefaultRadius is the circle radius, in pixels, used unless configured.
const DefaultRadius = 476.0

// A Mask flags the pixels that lie inside a circle centered on the image.
type Mask struct {
	W, H   int
	Radius float64
	In     []bool // row-major, In[y*W+x]
}

// CircularMask builds the mask for a w x h image. Pixel (i,j), row i and
// column j, is inside iff its distance from (h/2, w/2) is strictly less
// than radius. The center is not rounded, so for even sizes it falls
// between pixels.
func CircularMask(w, h int, radius float64) Mask {
	m := Mask{W: w, H: h, Radius: radius, In: make([]bool, w*h)}
	ci, cj := float64(h)/2, float64(w)/2

	for i:=0; i<h; i++ {
		di := float64(i) - ci
		for j:=0; j<w; j++ {
			dj := float64(j) - cj
			m.In[i*w+j] = math.Sqrt(di*di + dj*dj) < radius
		}
	}
	return m
}

func (m Mask) Contains(x, y int) bool { return m.In[y*m.W+x] }

func (m Mask) Count() int {
	n := 0
	for _, in := range m.In {
		if in { n++ }
	}
	return n
}

// Apply returns a copy of img with every channel, alpha included, zeroed
// outside the mask. The mask must match the image dimensions.
func (m Mask) Apply(img *radiance.Image) *radiance.Image {
	out := img.Clone()
	for p, in := range m.In {
		if in {
			continue
		}
		off := p * radiance.NumChannels
		for c:=0; c<radiance.NumChannels; c++ {
			out.Pix[off+c] = 0
		}
	}
	return out
}
