// Package overlay builds the RGBA overlay images composited onto the
// background clip: threshold-recolored page rasters and rendered text cards.
package overlay

import (
	"image"
	"image/color"
)

// softFloor is the lower bound of the optional soft-edge band: intensities
// in (softFloor, Threshold] keep white but scale alpha with intensity.
const softFloor = 100

// RecolorOptions controls the luminance-threshold classifier.
type RecolorOptions struct {
	// Threshold T: intensities strictly above T are foreground text.
	Threshold uint8

	// BackgroundAlpha is the alpha of background (non-text) pixels.
	BackgroundAlpha uint8

	// SoftEdge enables the mid-tone band: 100 < I <= T renders white with
	// alpha equal to the intensity instead of the background color.
	SoftEdge bool
}

// DefaultRecolorOptions matches the classic page-image look: bright pixels
// become text, the rest a 70%-opaque black backdrop.
func DefaultRecolorOptions() RecolorOptions {
	return RecolorOptions{Threshold: 200, BackgroundAlpha: 178}
}

// Recolor classifies every pixel of src by luminance and produces an
// NRGBA overlay of identical dimensions:
//
//	I > T            -> (255,255,255,255)
//	softFloor < I<=T -> (255,255,255,I)  when SoftEdge is set
//	otherwise        -> (0,0,0,BackgroundAlpha)
//
// Pixels are classified independently; the boundary I == T takes the
// background branch. The transform is total over 8-bit input and idempotent
// on an already-binary image at the same threshold.
func Recolor(src image.Image, opts RecolorOptions) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)

	white := color.NRGBA{255, 255, 255, 255}
	back := color.NRGBA{0, 0, 0, opts.BackgroundAlpha}

	gray, isGray := src.(*image.Gray)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var intensity uint8
			if isGray {
				intensity = gray.GrayAt(x, y).Y
			} else {
				intensity = luminance(src.At(x, y))
			}

			switch {
			case intensity > opts.Threshold:
				dst.SetNRGBA(x, y, white)
			case opts.SoftEdge && intensity > softFloor:
				dst.SetNRGBA(x, y, color.NRGBA{255, 255, 255, intensity})
			default:
				dst.SetNRGBA(x, y, back)
			}
		}
	}
	return dst
}

// Grayscale converts src to an 8-bit grayscale image using Rec.601
// luminance weights.
func Grayscale(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	bounds := src.Bounds()
	dst := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.SetGray(x, y, color.Gray{Y: luminance(src.At(x, y))})
		}
	}
	return dst
}

// AdjustContrast scales intensities away from the image mean by factor:
// 1.0 leaves the image unchanged, 2.0 doubles the distance from the mean.
func AdjustContrast(src *image.Gray, factor float64) *image.Gray {
	if factor == 1.0 {
		return src
	}
	bounds := src.Bounds()

	var sum, n uint64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sum += uint64(src.GrayAt(x, y).Y)
			n++
		}
	}
	if n == 0 {
		return src
	}
	mean := float64(sum) / float64(n)

	dst := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := mean + factor*(float64(src.GrayAt(x, y).Y)-mean)
			dst.SetGray(x, y, color.Gray{Y: clamp8(v)})
		}
	}
	return dst
}

func luminance(c color.Color) uint8 {
	r, g, b, _ := c.RGBA()
	// 16-bit channels; Rec.601 weights.
	y := (299*uint32(r>>8) + 587*uint32(g>>8) + 114*uint32(b>>8)) / 1000
	return uint8(y)
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
