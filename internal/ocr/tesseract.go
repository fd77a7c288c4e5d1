package ocr

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/rotisserie/eris"
)

// Tesseract recognizes text from rasterized page images using the system
// Tesseract installation via gosseract. A fresh client is created per page;
// pages are infrequent enough that amortizing one is not worth the shared
// state.
type Tesseract struct {
	languages []string
}

// NewTesseract creates a Tesseract engine. languages is a comma-separated
// list of Tesseract language codes; empty means "eng".
func NewTesseract(languages string) *Tesseract {
	langs := []string{"eng"}
	if languages != "" {
		langs = strings.Split(languages, ",")
		for i := range langs {
			langs[i] = strings.TrimSpace(langs[i])
		}
	}
	return &Tesseract{languages: langs}
}

func (t *Tesseract) Name() string { return "tesseract" }

// PageText runs OCR over the rasterized page image.
func (t *Tesseract) PageText(ctx context.Context, pdfPath string, page int, imagePath string) (string, error) {
	if imagePath == "" {
		return "", eris.Errorf("ocr: tesseract needs a rasterized image for page %d", page)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return "", eris.Wrap(err, "ocr: set language")
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", eris.Wrapf(err, "ocr: set image %s", imagePath)
	}

	text, err := client.Text()
	if err != nil {
		return "", eris.Wrapf(err, "ocr: recognize page %d", page)
	}
	return strings.TrimSpace(text), nil
}
