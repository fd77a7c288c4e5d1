package model

// RenderMode selects how a page becomes an overlay on the background clip.
type RenderMode string

const (
	// ModePageImage rasterizes the page and threshold-recolors it into a
	// white-text/translucent-black overlay image.
	ModePageImage RenderMode = "page-image"

	// ModeTextCard draws the extracted page text onto a styled card image.
	ModeTextCard RenderMode = "text-card"

	// ModeDrawtext renders the text with ffmpeg drawbox+drawtext filters,
	// with no intermediate image.
	ModeDrawtext RenderMode = "drawtext"

	// ModeSubtitles burns the text in as styled subtitles.
	ModeSubtitles RenderMode = "subtitles"
)

// Valid reports whether m is a known render mode.
func (m RenderMode) Valid() bool {
	switch m {
	case ModePageImage, ModeTextCard, ModeDrawtext, ModeSubtitles:
		return true
	}
	return false
}

// RenderJob describes one batch render request: a PDF, a background clip,
// and the page range and style to apply.
type RenderJob struct {
	PDFPath   string     `json:"pdf_path"`
	VideoPath string     `json:"video_path"`
	OutputDir string     `json:"output_dir"`
	Mode      RenderMode `json:"mode"`
	StartPage int        `json:"start_page"`
	EndPage   int        `json:"end_page"` // 0 = last page
	Duration  float64    `json:"duration"` // seconds per output video
	StyleName string     `json:"style,omitempty"`
	FontPath  string     `json:"font_path,omitempty"`
	DPI       int        `json:"dpi,omitempty"`
	OCR       bool       `json:"ocr,omitempty"`
	Workers   int        `json:"workers,omitempty"`
}
