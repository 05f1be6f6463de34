package radiance

import (
	"testing"

	"github.com/mdouchement/hdr"
	"github.com/stretchr/testify/assert"
)

func TestImageAccessors(t *testing.T) {
	img := New(3, 2)
	assert.Len(t, img.Pix, 3*2*NumChannels)
	assert.Equal(t, 6, img.Size())

	img.SetRGBA(2, 1, 1, 2, 3, 0.5)
	r, g, b := img.RGB(2, 1)
	assert.Equal(t, [3]float64{1, 2, 3}, [3]float64{r, g, b})
	assert.Equal(t, 0.5, img.Sample(2, 1, A))
	assert.Equal(t, (1*3+2)*NumChannels, img.Offset(2, 1))

	clone := img.Clone()
	clone.SetSample(2, 1, R, 9)
	assert.Equal(t, 1.0, img.Sample(2, 1, R), "clone is deep")
}

func TestPlanes(t *testing.T) {
	img := NewFilled(4, 3, 1, 2, 3, 4)
	img.SetRGBA(1, 2, 10, 20, 30, 40)

	g := img.Plane(G)
	assert.Equal(t, 4, g.Dx())
	assert.Equal(t, 3, g.Dy())
	assert.Equal(t, 20.0, g.Get(1, 2))
	assert.Equal(t, 2.0, g.Get(0, 0))

	out := New(4, 3)
	out.SetPlane(B, img.Plane(R))
	out.FillChannel(A, 1)
	assert.Equal(t, 10.0, out.Sample(1, 2, B))
	assert.Equal(t, 0.0, out.Sample(1, 2, R))
	assert.Equal(t, 1.0, out.Sample(3, 0, A))
}

func TestHDRImage(t *testing.T) {
	img := NewFilled(2, 2, 0.25, 0.5, 0.75, 0.1)
	var h hdr.Image = img

	r, g, b, _ := h.HDRAt(1, 1).HDRRGBA()
	assert.Equal(t, [3]float64{0.25, 0.5, 0.75}, [3]float64{r, g, b})
	assert.Equal(t, 2, h.Bounds().Dx())

	// Going back through FromHDR loses alpha: hdr images don't carry it.
	back := FromHDR(h)
	assert.Equal(t, 0.5, back.Sample(0, 1, G))
	assert.Equal(t, 1.0, back.Sample(0, 1, A))
}
