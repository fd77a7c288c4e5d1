package ocr

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"

	"github.com/rotisserie/eris"
)

// PdfToText extracts page text using the pdftotext CLI tool. It reads the
// source PDF directly, so it also serves documents whose text layer the
// pure-Go extractor cannot decode.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText engine. If binPath is empty, "pdftotext"
// is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

func (p *PdfToText) Name() string { return "pdftotext" }

// PageText runs pdftotext -layout limited to the given page and returns
// stdout.
func (p *PdfToText) PageText(ctx context.Context, pdfPath string, page int, imagePath string) (string, error) {
	cmd := exec.CommandContext(ctx, p.binPath,
		"-layout",
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		pdfPath, "-",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "ocr: pdftotext failed for %s page %d: %s", pdfPath, page, stderr.String())
	}

	return stdout.String(), nil
}
