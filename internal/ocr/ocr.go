// Package ocr recovers text from pages whose PDF text layer is empty.
// It is an optional feature: when the configured engine is unavailable the
// pipeline degrades to image-only rendering instead of failing.
package ocr

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Cytla24/poemtok/internal/config"
)

// Engine extracts text for a single page. Engines receive both the source
// PDF location and the rasterized page image so that image-based and
// tool-based implementations can each use what they need.
type Engine interface {
	Name() string

	// PageText returns recognized text for the 1-indexed page. An empty
	// string with nil error means the engine found nothing.
	PageText(ctx context.Context, pdfPath string, page int, imagePath string) (string, error)
}

// NewEngine creates an Engine based on config.
func NewEngine(cfg config.OCRConfig) (Engine, error) {
	switch cfg.Provider {
	case "tesseract", "":
		return NewTesseract(cfg.Languages), nil
	case "pdftotext":
		return NewPdfToText(cfg.PdfToTextPath), nil
	case "off":
		return Disabled{}, nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}

// Disabled is the engine used when OCR is turned off or unavailable.
type Disabled struct{}

func (Disabled) Name() string { return "off" }

// PageText always reports no text.
func (Disabled) PageText(ctx context.Context, pdfPath string, page int, imagePath string) (string, error) {
	return "", nil
}

// Degrade logs one warning and returns the disabled engine. Used when an
// engine fails in a way that indicates it is missing rather than that the
// page is unreadable.
func Degrade(engine Engine, err error) Engine {
	zap.L().Warn("ocr unavailable, disabling",
		zap.String("engine", engine.Name()),
		zap.Error(err),
	)
	return Disabled{}
}
