package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/Cytla24/poemtok/internal/compose"
	"github.com/Cytla24/poemtok/internal/model"
	"github.com/Cytla24/poemtok/internal/ocr"
	"github.com/Cytla24/poemtok/internal/overlay"
	"github.com/Cytla24/poemtok/internal/pdf"
	"github.com/Cytla24/poemtok/internal/style"
	"github.com/Cytla24/poemtok/internal/subtitle"
)

// buildOverlay produces the per-mode inputs for one page: a recolored page
// image, a rendered text card, or text files for the filter-based modes.
func (p *Pipeline) buildOverlay(ctx context.Context, src pdf.PageSource, job model.RenderJob, st style.Style, rc renderContext, in *compose.Inputs) error {
	switch job.Mode {
	case model.ModePageImage:
		return p.buildPageImage(src, job, st, rc, in)
	case model.ModeTextCard:
		return p.buildTextCard(ctx, src, st, rc, in)
	case model.ModeDrawtext:
		return p.buildTextFiles(ctx, src, rc, in, true)
	case model.ModeSubtitles:
		return p.buildTextFiles(ctx, src, rc, in, false)
	}
	return eris.Errorf("pipeline: no overlay builder for mode %q", job.Mode)
}

func (p *Pipeline) buildPageImage(src pdf.PageSource, job model.RenderJob, st style.Style, rc renderContext, in *compose.Inputs) error {
	img, err := src.RenderImage(rc.page, p.dpi(job))
	if err != nil {
		return err
	}

	gray := overlay.Grayscale(img)
	gray = overlay.AdjustContrast(gray, st.Contrast)

	opts := overlay.RecolorOptions{
		Threshold:       uint8(st.Threshold),
		BackgroundAlpha: uint8(st.BoxOpacity*255 + 0.5),
		SoftEdge:        st.SoftEdge,
	}
	recolored := overlay.Recolor(gray, opts)

	fitted := overlay.FitToFrame(recolored, p.cfg.Video.Width, p.cfg.Video.Height, 1.0)

	in.OverlayPath = filepath.Join(rc.scratch, fmt.Sprintf("page_%03d.png", rc.page))
	return overlay.WritePNG(in.OverlayPath, fitted)
}

func (p *Pipeline) buildTextCard(ctx context.Context, src pdf.PageSource, st style.Style, rc renderContext, in *compose.Inputs) error {
	text, err := p.pageText(ctx, src, rc)
	if err != nil {
		return err
	}

	lines := overlay.WrapText(text, p.wrapColumn())

	textColor, err := style.ParseColor(st.FontColor)
	if err != nil {
		return err
	}
	boxColor, err := style.ParseColor(st.BoxColor)
	if err != nil {
		return err
	}

	opts := overlay.CardOptions{
		Width:       int(float64(p.cfg.Video.Width) * st.Scale),
		FontSize:    float64(st.FontSize),
		FontPath:    st.FontPath,
		TextColor:   textColor,
		BoxColor:    style.WithAlpha(boxColor, st.BoxOpacity),
		Padding:     50,
		LineSpacing: 1.4,
	}
	card, err := overlay.RenderTextCard(lines, opts)
	if err != nil {
		return err
	}

	in.OverlayPath = filepath.Join(rc.scratch, fmt.Sprintf("page_%03d.png", rc.page))
	return overlay.WritePNG(in.OverlayPath, card)
}

// buildTextFiles writes the caption file and, for drawtext mode, the plain
// text file its filter reads. Drawtext gets both because its fallback
// strategy burns the caption file instead.
func (p *Pipeline) buildTextFiles(ctx context.Context, src pdf.PageSource, rc renderContext, in *compose.Inputs, withTextFile bool) error {
	text, err := p.pageText(ctx, src, rc)
	if err != nil {
		return err
	}

	in.SRTPath = filepath.Join(rc.scratch, fmt.Sprintf("page_%03d.srt", rc.page))
	if err := subtitle.WriteSRT(in.SRTPath, text, in.Duration, p.wrapColumn()); err != nil {
		return err
	}

	if withTextFile {
		lines := overlay.WrapText(text, p.wrapColumn())
		in.TextFile = filepath.Join(rc.scratch, fmt.Sprintf("page_%03d.txt", rc.page))
		if err := os.WriteFile(in.TextFile, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
			return eris.Wrapf(err, "pipeline: write text file for page %d", rc.page)
		}
	}
	return nil
}

// ocrState holds one run's OCR engine. It lives on the run, not the
// Pipeline, so concurrent runs cannot see each other's engine; pages within
// a run share it so a degrade sticks for the rest of that run only.
type ocrState struct {
	mu     sync.Mutex
	engine ocr.Engine
}

func newOCRState(engine ocr.Engine) *ocrState {
	return &ocrState{engine: engine}
}

func (s *ocrState) current() ocr.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine
}

// degrade swaps in the disabled engine after a failure. Concurrent pages may
// all fail before the swap lands; only the first one logs.
func (s *ocrState) degrade(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, off := s.engine.(ocr.Disabled); off {
		return
	}
	s.engine = ocr.Degrade(s.engine, err)
}

// pageText extracts the page's text layer, falling back to OCR when the
// layer is empty. An OCR engine failure disables OCR for the rest of the run
// rather than failing the page.
func (p *Pipeline) pageText(ctx context.Context, src pdf.PageSource, rc renderContext) (string, error) {
	text, err := src.ExtractText(rc.page)
	if err != nil {
		return "", err
	}
	if text != "" {
		return text, nil
	}

	engine := rc.ocr.current()
	if _, disabled := engine.(ocr.Disabled); disabled {
		return "", nil
	}

	imagePath, err := p.ocrImage(src, rc)
	if err != nil {
		return "", err
	}

	recognized, err := engine.PageText(ctx, rc.pdfPath, rc.page, imagePath)
	if err != nil {
		rc.ocr.degrade(err)
		return "", nil
	}
	return pdf.NormalizeText(recognized), nil
}

// ocrImage rasterizes the page for the OCR engine.
func (p *Pipeline) ocrImage(src pdf.PageSource, rc renderContext) (string, error) {
	img, err := src.RenderImage(rc.page, float64(p.cfg.Render.DPI))
	if err != nil {
		return "", err
	}
	path := filepath.Join(rc.scratch, fmt.Sprintf("ocr_%03d.png", rc.page))
	if err := overlay.WritePNG(path, img); err != nil {
		return "", err
	}
	return path, nil
}

func (p *Pipeline) wrapColumn() int {
	if p.cfg.Render.WrapColumn > 0 {
		return p.cfg.Render.WrapColumn
	}
	return 40
}
