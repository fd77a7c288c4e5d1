package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grayImage(t *testing.T, intensities [][]uint8) *image.Gray {
	t.Helper()
	h := len(intensities)
	require.NotZero(t, h)
	w := len(intensities[0])
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y, row := range intensities {
		for x, v := range row {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func TestRecolorClassification(t *testing.T) {
	img := grayImage(t, [][]uint8{
		{255, 201, 200},
		{199, 0, 100},
	})
	opts := RecolorOptions{Threshold: 200, BackgroundAlpha: 178}
	out := Recolor(img, opts)

	white := color.NRGBA{255, 255, 255, 255}
	back := color.NRGBA{0, 0, 0, 178}

	assert.Equal(t, white, out.NRGBAAt(0, 0)) // 255 > 200
	assert.Equal(t, white, out.NRGBAAt(1, 0)) // 201 > 200
	assert.Equal(t, back, out.NRGBAAt(2, 0))  // boundary: 200 is not > 200
	assert.Equal(t, back, out.NRGBAAt(0, 1))
	assert.Equal(t, back, out.NRGBAAt(1, 1))
	assert.Equal(t, back, out.NRGBAAt(2, 1))
}

func TestRecolorSoftEdge(t *testing.T) {
	img := grayImage(t, [][]uint8{{210, 150, 100, 50}})
	opts := RecolorOptions{Threshold: 200, BackgroundAlpha: 178, SoftEdge: true}
	out := Recolor(img, opts)

	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{255, 255, 255, 150}, out.NRGBAAt(1, 0)) // mid band keeps intensity as alpha
	assert.Equal(t, color.NRGBA{0, 0, 0, 178}, out.NRGBAAt(2, 0))      // floor is strict
	assert.Equal(t, color.NRGBA{0, 0, 0, 178}, out.NRGBAAt(3, 0))
}

func TestRecolorIdempotent(t *testing.T) {
	img := grayImage(t, [][]uint8{
		{250, 180, 10},
		{220, 30, 205},
	})
	opts := DefaultRecolorOptions()

	once := Recolor(img, opts)
	twice := Recolor(once, opts)

	assert.Equal(t, once.Pix, twice.Pix)
}

func TestRecolorColorInput(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{255, 255, 255, 255})
	out := Recolor(img, RecolorOptions{Threshold: 200, BackgroundAlpha: 128})
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, out.NRGBAAt(0, 0))
}

func TestGrayscaleLuminance(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{255, 255, 255, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 0, 0, 255})
	g := Grayscale(img)
	assert.Equal(t, uint8(255), g.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), g.GrayAt(1, 0).Y)
}

func TestGrayscalePassthrough(t *testing.T) {
	g := grayImage(t, [][]uint8{{7}})
	assert.Same(t, g, Grayscale(g))
}

func TestAdjustContrastIdentity(t *testing.T) {
	g := grayImage(t, [][]uint8{{10, 200}})
	assert.Same(t, g, AdjustContrast(g, 1.0))
}

func TestAdjustContrastSpreads(t *testing.T) {
	g := grayImage(t, [][]uint8{{100, 150}}) // mean 125
	out := AdjustContrast(g, 2.0)
	assert.Equal(t, uint8(75), out.GrayAt(0, 0).Y)  // 125 + 2*(100-125)
	assert.Equal(t, uint8(175), out.GrayAt(1, 0).Y) // 125 + 2*(150-125)
}

func TestAdjustContrastClamps(t *testing.T) {
	g := grayImage(t, [][]uint8{{0, 255}})
	out := AdjustContrast(g, 3.0)
	assert.Equal(t, uint8(0), out.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), out.GrayAt(1, 0).Y)
}
