// Package subtitle writes the SRT files and ASS style strings used by the
// subtitle burn-in compositor strategy.
package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/Cytla24/poemtok/internal/overlay"
)

// WriteSRT writes a single-cue SRT covering [0, duration) with the page text
// wrapped at wrapCol characters. Lines are joined with ASS hard breaks so
// the renderer keeps the wrapping.
func WriteSRT(path, text string, duration float64, wrapCol int) error {
	lines := overlay.WrapText(text, wrapCol)
	if len(lines) == 0 {
		lines = []string{""}
	}

	var b strings.Builder
	b.WriteString("1\n")
	fmt.Fprintf(&b, "%s --> %s\n", FormatTimestamp(0), FormatTimestamp(duration))
	b.WriteString(strings.Join(lines, `\N`))
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return eris.Wrapf(err, "subtitle: write %s", path)
	}
	return nil
}

// FormatTimestamp renders seconds as an SRT timestamp (HH:MM:SS,mmm).
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := int(seconds / 3600)
	minutes := int(seconds/60) % 60
	secs := int(seconds) % 60
	millis := int((seconds - float64(int(seconds))) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// Style holds the ASS style fields exposed to the subtitles filter.
type Style struct {
	FontName     string
	FontSize     int
	PrimaryColor string // ASS &HBBGGRR form
	BackColor    string
	Alignment    int // numpad alignment; 10 centers on screen
	Bold         bool
	Outline      int
}

// DefaultStyle matches the classic caption look.
func DefaultStyle() Style {
	return Style{
		FontSize:     24,
		PrimaryColor: "&HFFFFFF",
		BackColor:    "&H000000",
		Alignment:    10,
	}
}

// ForceStyle renders the style as a force_style value for the subtitles
// filter. Zero-valued fields are omitted.
func (s Style) ForceStyle() string {
	var parts []string
	if s.FontName != "" {
		parts = append(parts, "FontName="+s.FontName)
	}
	if s.FontSize > 0 {
		parts = append(parts, fmt.Sprintf("FontSize=%d", s.FontSize))
	}
	if s.PrimaryColor != "" {
		parts = append(parts, "PrimaryColour="+s.PrimaryColor)
	}
	if s.BackColor != "" {
		parts = append(parts, "BackColour="+s.BackColor)
	}
	if s.Alignment > 0 {
		parts = append(parts, fmt.Sprintf("Alignment=%d", s.Alignment))
	}
	if s.Bold {
		parts = append(parts, "Bold=1")
	}
	if s.Outline > 0 {
		parts = append(parts, fmt.Sprintf("Outline=%d", s.Outline))
	}
	return strings.Join(parts, ",")
}

// Filter builds the subtitles video-filter string for the given SRT path.
func (s Style) Filter(srtPath string) string {
	escaped := filepath.ToSlash(srtPath)
	force := s.ForceStyle()
	if force == "" {
		return fmt.Sprintf("subtitles='%s'", escaped)
	}
	return fmt.Sprintf("subtitles='%s':force_style='%s'", escaped, force)
}
