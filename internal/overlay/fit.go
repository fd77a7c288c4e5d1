package overlay

import (
	"image"
	"image/png"
	"os"

	"github.com/rotisserie/eris"
	xdraw "golang.org/x/image/draw"
)

// FitToFrame scales src to occupy at most scale of the frame width and
// height, preserving aspect ratio. scale is a fraction in (0,1]; values out
// of range fall back to 1.
func FitToFrame(src image.Image, frameW, frameH int, scale float64) *image.NRGBA {
	if scale <= 0 || scale > 1 {
		scale = 1
	}
	maxW := int(float64(frameW) * scale)
	maxH := int(float64(frameH) * scale)

	b := src.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}

	ratio := float64(maxW) / float64(srcW)
	if r := float64(maxH) / float64(srcH); r < ratio {
		ratio = r
	}
	if ratio > 1 {
		ratio = 1 // never upscale page rasters
	}

	dstW := int(float64(srcW) * ratio)
	dstH := int(float64(srcH) * ratio)
	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "overlay: create %s", path)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return eris.Wrapf(err, "overlay: encode %s", path)
	}
	return nil
}
