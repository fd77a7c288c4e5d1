package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cytla24/poemtok/internal/config"
)

func TestNewEngineTesseract(t *testing.T) {
	eng, err := NewEngine(config.OCRConfig{Provider: "tesseract", Languages: "eng"})
	require.NoError(t, err)
	assert.IsType(t, &Tesseract{}, eng)
}

func TestNewEngineDefault(t *testing.T) {
	eng, err := NewEngine(config.OCRConfig{})
	require.NoError(t, err)
	assert.IsType(t, &Tesseract{}, eng)
}

func TestNewEnginePdfToText(t *testing.T) {
	eng, err := NewEngine(config.OCRConfig{Provider: "pdftotext", PdfToTextPath: "/usr/bin/pdftotext"})
	require.NoError(t, err)
	assert.IsType(t, &PdfToText{}, eng)
}

func TestNewEngineOff(t *testing.T) {
	eng, err := NewEngine(config.OCRConfig{Provider: "off"})
	require.NoError(t, err)
	assert.IsType(t, Disabled{}, eng)
}

func TestNewEngineUnknown(t *testing.T) {
	_, err := NewEngine(config.OCRConfig{Provider: "abbyy"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "abbyy"`)
}

func TestTesseractLanguages(t *testing.T) {
	eng := NewTesseract("")
	assert.Equal(t, []string{"eng"}, eng.languages)

	eng = NewTesseract("eng, deu,fra")
	assert.Equal(t, []string{"eng", "deu", "fra"}, eng.languages)
}

func TestTesseractRequiresImage(t *testing.T) {
	eng := NewTesseract("eng")
	_, err := eng.PageText(context.Background(), "book.pdf", 1, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a rasterized image")
}

func TestPdfToTextBinPath(t *testing.T) {
	p := NewPdfToText("")
	assert.Equal(t, "pdftotext", p.binPath)

	p = NewPdfToText("/custom/pdftotext")
	assert.Equal(t, "/custom/pdftotext", p.binPath)
}

func TestDisabledPageText(t *testing.T) {
	text, err := Disabled{}.PageText(context.Background(), "book.pdf", 3, "page.png")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestDegradeReturnsDisabled(t *testing.T) {
	eng := Degrade(NewTesseract("eng"), errors.New("libtesseract not found"))
	assert.IsType(t, Disabled{}, eng)
}
