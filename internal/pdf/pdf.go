// Package pdf provides page-oriented access to a source PDF: text-layer
// extraction, page rasterization, and page counting. All parsing is
// delegated to third-party libraries; nothing here touches PDF internals.
package pdf

import (
	"image"
	"os"
	"sync"

	"github.com/gen2brain/go-fitz"
	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// PageSource is what the render pipeline needs from a document. Pages are
// 1-indexed throughout.
type PageSource interface {
	PageCount() int
	ExtractText(page int) (string, error)
	RenderImage(page int, dpi float64) (image.Image, error)
	Close() error
}

// Source implements PageSource over a PDF file on disk. The text layer is
// read with ledongthuc/pdf; rasterization goes through go-fitz (MuPDF) and
// is opened lazily since text-only modes never need it.
type Source struct {
	path      string
	pageCount int
	file      *os.File
	reader    *lpdf.Reader

	// rasterMu guards the lazy init and every ImageDPI call: a fitz.Document
	// is not safe for concurrent use, and the pipeline shares one Source
	// across page workers.
	rasterMu sync.Mutex
	raster   *fitz.Document
}

var _ PageSource = (*Source)(nil)

// Open validates the document, counts its pages, and prepares the text
// layer reader.
func Open(path string) (*Source, error) {
	count, err := api.PageCountFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pdf: page count %s", path)
	}
	if count < 1 {
		return nil, eris.Errorf("pdf: %s has no pages", path)
	}

	f, r, err := lpdf.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pdf: open %s", path)
	}

	zap.L().Debug("pdf opened",
		zap.String("path", path),
		zap.Int("pages", count),
	)

	return &Source{
		path:      path,
		pageCount: count,
		file:      f,
		reader:    r,
	}, nil
}

// PageCount returns the number of pages in the document.
func (s *Source) PageCount() int { return s.pageCount }

// ExtractText returns the cleaned text layer of the given 1-indexed page.
// A page with no text layer yields an empty string, not an error; callers
// decide whether to fall back to OCR.
func (s *Source) ExtractText(page int) (string, error) {
	if page < 1 || page > s.pageCount {
		return "", eris.Errorf("pdf: page %d out of range [1,%d]", page, s.pageCount)
	}

	p := s.reader.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", eris.Wrapf(err, "pdf: extract text page %d", page)
	}
	return NormalizeText(text), nil
}

// RenderImage rasterizes the given 1-indexed page at the requested DPI.
func (s *Source) RenderImage(page int, dpi float64) (image.Image, error) {
	if page < 1 || page > s.pageCount {
		return nil, eris.Errorf("pdf: page %d out of range [1,%d]", page, s.pageCount)
	}
	if dpi <= 0 {
		dpi = 150
	}

	s.rasterMu.Lock()
	defer s.rasterMu.Unlock()

	if s.raster == nil {
		doc, err := fitz.New(s.path)
		if err != nil {
			return nil, eris.Wrapf(err, "pdf: open raster %s", s.path)
		}
		s.raster = doc
	}

	// go-fitz pages are 0-indexed.
	img, err := s.raster.ImageDPI(page-1, dpi)
	if err != nil {
		return nil, eris.Wrapf(err, "pdf: rasterize page %d", page)
	}
	return img, nil
}

// Close releases the underlying file handles.
func (s *Source) Close() error {
	s.rasterMu.Lock()
	var rasterErr error
	if s.raster != nil {
		rasterErr = s.raster.Close()
		s.raster = nil
	}
	s.rasterMu.Unlock()
	if s.file != nil {
		if err := s.file.Close(); err != nil {
			return eris.Wrap(err, "pdf: close")
		}
		s.file = nil
	}
	if rasterErr != nil {
		return eris.Wrap(rasterErr, "pdf: close raster")
	}
	return nil
}
