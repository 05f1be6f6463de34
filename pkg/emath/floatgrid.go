package emath

import(
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
)

// A FloatGrid is a grid of floats, with some operations. We use it to
// hold one channel (a "plane") of an image at a time.
type FloatGrid struct {
	stride int
	values []float64
}

func NewFloatGrid(w, h int) FloatGrid {
	return FloatGrid{
		stride: w,
		values: make([]float64, w*h),
	}
}

func (g1 *FloatGrid)NewFromThis() FloatGrid  { return NewFloatGrid(g1.Dx(), g1.Dy()) }
func (fg *FloatGrid)Set(x, y int, v float64) { fg.values[fg.stride*y + x] = v }
func (fg *FloatGrid)Get(x, y int) float64    { return fg.values[fg.stride*y + x] }
func (fg *FloatGrid)Dx() int                 { return fg.stride }
func (fg *FloatGrid)Values() []float64       { return fg.values }

func (fg *FloatGrid)Dy() int {
	if fg.stride == 0 {
		return 0
	}
	return len(fg.values) / fg.stride
}

func (g1 *FloatGrid)Copy() *FloatGrid {
	g2 := FloatGrid{stride: g1.stride, values:make([]float64, len(g1.values))}
	copy(g2.values, g1.values)
	return &g2
}

// reflectIndex folds an out-of-range index back into [0,n), mirroring
// about the edge of the outermost sample: (d c b a | a b c d | d c b a).
// This is scipy.ndimage's "reflect" mode.
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// windowIndices returns, for each of the n positions, the `size`
// reflected indices its window covers. The window spans offsets
// -size/2 .. size-1-size/2, so even sizes lean towards lower indices.
func windowIndices(n, size int) [][]int {
	lo := -size / 2
	idx := make([][]int, n)
	for i := 0; i < n; i++ {
		idx[i] = make([]int, size)
		for k := 0; k < size; k++ {
			idx[i][k] = reflectIndex(i+lo+k, n)
		}
	}
	return idx
}

// MedianFilter runs a size x size median filter over the grid and returns
// the result. It matches scipy.ndimage.median_filter(g, size=size): reflect
// boundary, and for even windows the element of rank size*size/2 (the upper
// of the two middle values; nothing is averaged).
func (g1 *FloatGrid)MedianFilter(size int) FloatGrid {
	g2 := g1.NewFromThis()
	if size <= 1 {
		copy(g2.values, g1.values)
		return g2
	}

	width, height := g1.Dx(), g1.Dy()
	xIdx := windowIndices(width, size)
	yIdx := windowIndices(height, size)
	rank := size * size / 2
	window := make([]float64, size*size)

	for y:=0; y<height; y++ {
		for x:=0; x<width; x++ {
			n := 0
			for _, wy := range yIdx[y] {
				for _, wx := range xIdx[x] {
					window[n] = g1.Get(wx, wy)
					n++
				}
			}
			sort.Float64s(window)
			g2.Set(x, y, window[rank])
		}
	}

	return g2
}

func (fg *FloatGrid)MinMax() (float64, float64) {
	min := math.MaxFloat64
	max := -1.0 * min

	for i:=0 ; i<len(fg.values) ; i++ {
		if fg.values[i] > max { max = fg.values[i] }
		if fg.values[i] < min { min = fg.values[i] }
	}
	return min, max
}

func (fg *FloatGrid)Stats() string {
	min, max := fg.MinMax()
	return fmt.Sprintf("fg[%dx%d, vals{%f,%f}]", fg.Dx(), fg.Dy(), min, max)
}

// ToImg saves a simple grayscale, based on the range of values in the grid, and gamma scaling the
// gray to look normal for human vision. The title is drawn in the top left.
func (fg *FloatGrid)ToImg(title, filename string) error {
	min, max := fg.MinMax()
	span := max - min
	if span <= 0 {
		span = 1.0
	}

	img := image.NewRGBA64(image.Rectangle{Max:image.Point{fg.Dx(), fg.Dy()}})
	for x:=0; x<fg.Dx(); x++ {
		for y:=0; y<fg.Dy(); y++ {
			lum := fg.Get(x,y)
			gray := GammaExpand_F64 ((lum - min) / span)
			col := color.RGBA64{uint16(gray * 65535.0), uint16(gray * 65535.0), uint16(gray * 65535.0), 0xFFFF}
			img.Set(x, y, col)
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1,0.2,0.2)
	dc.DrawString(title, 20, 30)
	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("ToImg, save '%s': %w", filename, err)
	}
	return nil
}
