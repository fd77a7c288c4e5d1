package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/rotisserie/eris"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// CardOptions controls text-card rendering.
type CardOptions struct {
	Width       int     // card width in pixels
	FontSize    float64 // point size at 72 DPI
	FontPath    string  // optional TTF file; Go Regular when empty
	TextColor   color.NRGBA
	BoxColor    color.NRGBA // includes the card's background alpha
	Padding     int
	LineSpacing float64 // multiple of the font size, e.g. 1.4
}

// DefaultCardOptions returns the classic caption card: white text on a
// 70%-opaque black box.
func DefaultCardOptions(width int) CardOptions {
	return CardOptions{
		Width:       width,
		FontSize:    24,
		TextColor:   color.NRGBA{255, 255, 255, 255},
		BoxColor:    color.NRGBA{0, 0, 0, 178},
		Padding:     50,
		LineSpacing: 1.4,
	}
}

// RenderTextCard draws the wrapped lines onto a new card image sized to fit
// them. The card height follows the line count; the caller scales the card
// into the output frame.
func RenderTextCard(lines []string, opts CardOptions) (*image.NRGBA, error) {
	if opts.Width <= 0 {
		return nil, eris.New("overlay: card width must be positive")
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 24
	}
	if opts.LineSpacing <= 0 {
		opts.LineSpacing = 1.4
	}

	fnt, err := loadFont(opts.FontPath)
	if err != nil {
		return nil, err
	}

	lineHeight := int(opts.FontSize * opts.LineSpacing)
	height := 2*opts.Padding + lineHeight*len(lines)
	if len(lines) == 0 {
		height = 2*opts.Padding + lineHeight
	}

	card := image.NewNRGBA(image.Rect(0, 0, opts.Width, height))
	draw.Draw(card, card.Bounds(), image.NewUniform(opts.BoxColor), image.Point{}, draw.Src)

	face := truetype.NewFace(fnt, &truetype.Options{Size: opts.FontSize, DPI: 72})
	defer face.Close()
	measurer := &font.Drawer{Face: face}

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(fnt)
	ctx.SetFontSize(opts.FontSize)
	ctx.SetClip(card.Bounds())
	ctx.SetDst(card)
	ctx.SetSrc(image.NewUniform(opts.TextColor))

	baseline := opts.Padding + int(opts.FontSize)
	for _, line := range lines {
		width := measurer.MeasureString(line).Ceil()
		x := (opts.Width - width) / 2
		if x < opts.Padding {
			x = opts.Padding
		}
		if _, err := ctx.DrawString(line, freetype.Pt(x, baseline)); err != nil {
			return nil, eris.Wrap(err, "overlay: draw text")
		}
		baseline += lineHeight
	}

	return card, nil
}

func loadFont(path string) (*truetype.Font, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "overlay: read font %s", path)
		}
		data = b
	}
	fnt, err := truetype.Parse(data)
	if err != nil {
		return nil, eris.Wrap(err, "overlay: parse font")
	}
	return fnt, nil
}
