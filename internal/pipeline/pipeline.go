// Package pipeline orchestrates a render run: stage inputs, open the PDF,
// build one overlay per page, and composite each onto the background clip.
// Page failures are recorded without aborting the run.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Cytla24/poemtok/internal/compose"
	"github.com/Cytla24/poemtok/internal/config"
	"github.com/Cytla24/poemtok/internal/fetcher"
	"github.com/Cytla24/poemtok/internal/ffmpeg"
	"github.com/Cytla24/poemtok/internal/model"
	"github.com/Cytla24/poemtok/internal/ocr"
	"github.com/Cytla24/poemtok/internal/pdf"
	"github.com/Cytla24/poemtok/internal/resilience"
	"github.com/Cytla24/poemtok/internal/store"
	"github.com/Cytla24/poemtok/internal/style"
)

// Composer renders one page's inputs into a finished video and returns the
// name of the strategy that produced it.
type Composer interface {
	Render(ctx context.Context, in compose.Inputs) (string, error)
}

// Pipeline runs render jobs. It holds no per-run state, so one Pipeline can
// serve concurrent runs.
type Pipeline struct {
	cfg    *config.Config
	store  store.Store
	stager *fetcher.Stager
	runner ffmpeg.Runner
	prober ffmpeg.Prober

	// Test seams; nil means use the real implementations.
	openSource  func(path string) (pdf.PageSource, error)
	newComposer func(mode model.RenderMode, st style.Style) (Composer, error)
}

// New creates a Pipeline with all dependencies.
func New(cfg *config.Config, st store.Store, stager *fetcher.Stager, runner ffmpeg.Runner, prober ffmpeg.Prober) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		store:  st,
		stager: stager,
		runner: runner,
		prober: prober,
	}
}

func (p *Pipeline) open(path string) (pdf.PageSource, error) {
	if p.openSource != nil {
		return p.openSource(path)
	}
	return pdf.Open(path)
}

func (p *Pipeline) composer(mode model.RenderMode, st style.Style) (Composer, error) {
	if p.newComposer != nil {
		return p.newComposer(mode, st)
	}
	strategies, err := compose.ForMode(mode, st, p.cfg.Video)
	if err != nil {
		return nil, err
	}
	return compose.NewChain(p.runner, p.prober, p.cfg.Video.MinSecs, strategies...), nil
}

// Run executes one render job end to end and returns the completed run
// record. Fatal errors (bad inputs, unreadable PDF) fail the whole run;
// per-page errors are recorded in the result and the run continues.
func (p *Pipeline) Run(ctx context.Context, job model.RenderJob) (*model.Run, error) {
	log := zap.L().With(
		zap.String("pdf", job.PDFPath),
		zap.String("video", job.VideoPath),
		zap.String("mode", string(job.Mode)),
	)
	log.Info("pipeline: starting run")

	if !job.Mode.Valid() {
		return nil, eris.Errorf("pipeline: invalid mode %q", job.Mode)
	}

	run, err := p.store.CreateRun(ctx, job)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}

	setStatus := func(status model.RunStatus) {
		if statusErr := p.store.UpdateRunStatus(ctx, run.ID, status); statusErr != nil {
			log.Warn("pipeline: failed to update status", zap.Error(statusErr))
		}
		run.Status = status
	}

	fail := func(cause error, msg string) (*model.Run, error) {
		wrapped := eris.Wrap(cause, msg)
		result := &model.RunResult{Error: wrapped.Error()}
		if err := p.store.CompleteRun(ctx, run.ID, model.RunStatusFailed, result); err != nil {
			log.Warn("pipeline: failed to record failure", zap.Error(err))
		}
		run.Status = model.RunStatusFailed
		run.Result = result
		return run, wrapped
	}

	scratch, cleanup, err := NewScratch(p.cfg.Render.ScratchDir, p.cfg.Render.KeepScratch)
	if err != nil {
		return fail(err, "pipeline: scratch dir")
	}
	defer cleanup()

	// Stage inputs.
	setStatus(model.RunStatusFetching)
	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.OnRetry = resilience.RetryLogger("pipeline", "stage input")

	var pdfPath, videoPath string
	err = resilience.Do(ctx, retryCfg, func(ctx context.Context) error {
		var stageErr error
		pdfPath, stageErr = p.stager.Stage(ctx, job.PDFPath, scratch)
		return stageErr
	})
	if err != nil {
		return fail(err, "pipeline: stage pdf")
	}
	err = resilience.Do(ctx, retryCfg, func(ctx context.Context) error {
		var stageErr error
		videoPath, stageErr = p.stager.Stage(ctx, job.VideoPath, scratch)
		return stageErr
	})
	if err != nil {
		return fail(err, "pipeline: stage background video")
	}

	// Open the document and resolve the page range.
	setStatus(model.RunStatusExtracting)
	src, err := p.open(pdfPath)
	if err != nil {
		return fail(err, "pipeline: open pdf")
	}
	defer src.Close() //nolint:errcheck

	pages := model.ClampRange(job.StartPage, job.EndPage, src.PageCount())
	result := &model.RunResult{PagesRequested: pages.Count()}

	if pages.Empty() {
		log.Info("pipeline: empty page range, nothing to render")
		if err := p.store.CompleteRun(ctx, run.ID, model.RunStatusComplete, result); err != nil {
			log.Warn("pipeline: failed to complete run", zap.Error(err))
		}
		run.Status = model.RunStatusComplete
		run.Result = result
		return run, nil
	}

	// Resolve style and the OCR engine.
	st, err := style.Resolve(job.StyleName, p.cfg.Style)
	if err != nil {
		return fail(err, "pipeline: resolve style")
	}
	if job.FontPath != "" {
		st.FontPath = job.FontPath
	}

	pageOCR := newOCRState(ocr.Disabled{})
	if job.OCR {
		engine, ocrErr := ocr.NewEngine(p.cfg.OCR)
		if ocrErr != nil {
			return fail(ocrErr, "pipeline: ocr engine")
		}
		pageOCR = newOCRState(engine)
	}

	composer, err := p.composer(job.Mode, st)
	if err != nil {
		return fail(err, "pipeline: build compositor")
	}

	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return fail(err, "pipeline: create output dir")
	}

	// Render pages.
	setStatus(model.RunStatusRendering)
	workers := job.Workers
	if workers <= 0 {
		workers = p.cfg.Render.Workers
	}
	if workers <= 0 {
		workers = 1
	}

	launchRate := p.cfg.Render.LaunchPerSec
	if launchRate <= 0 {
		launchRate = 1
	}
	limiter := rate.NewLimiter(rate.Limit(launchRate), 1)

	var mu sync.Mutex
	pageResults := make([]model.PageResult, 0, pages.Count())

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	stem := pdfStem(pdfPath)
	for _, page := range pages.Pages() {
		if err := limiter.Wait(gCtx); err != nil {
			break
		}
		g.Go(func() error {
			pr := p.renderPage(gCtx, src, composer, job, st, renderContext{
				page:      page,
				pdfPath:   pdfPath,
				videoPath: videoPath,
				scratch:   scratch,
				stem:      stem,
				ocr:       pageOCR,
			})
			mu.Lock()
			pageResults = append(pageResults, pr)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	// Finalize.
	sortPageResults(pageResults)
	for _, pr := range pageResults {
		result.Pages = append(result.Pages, pr)
		switch pr.Status {
		case model.PageStatusRendered:
			result.PagesRendered++
			result.Outputs = append(result.Outputs, pr.OutputPath)
		case model.PageStatusFailed:
			result.PagesFailed++
		}
	}

	status := model.RunStatusComplete
	if result.PagesRendered == 0 && result.PagesRequested > 0 {
		status = model.RunStatusFailed
		result.Error = "no pages rendered"
	}

	if err := p.store.RecordPages(ctx, run.ID, pageResults); err != nil {
		log.Warn("pipeline: failed to record pages", zap.Error(err))
	}
	if err := p.store.CompleteRun(ctx, run.ID, status, result); err != nil {
		log.Warn("pipeline: failed to complete run", zap.Error(err))
	}
	run.Status = status
	run.Result = result

	log.Info("pipeline: run finished",
		zap.String("run_id", run.ID),
		zap.String("status", string(status)),
		zap.Int("rendered", result.PagesRendered),
		zap.Int("failed", result.PagesFailed),
	)
	return run, nil
}

func pdfStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func sortPageResults(prs []model.PageResult) {
	sort.Slice(prs, func(i, j int) bool { return prs[i].Page < prs[j].Page })
}

// renderContext carries the per-page inputs plus the run's shared OCR state.
type renderContext struct {
	page      int
	pdfPath   string
	videoPath string
	scratch   string
	stem      string
	ocr       *ocrState
}

func (p *Pipeline) renderPage(ctx context.Context, src pdf.PageSource, composer Composer, job model.RenderJob, st style.Style, rc renderContext) model.PageResult {
	start := time.Now()
	pr := model.PageResult{Page: rc.page}

	outputPath := filepath.Join(job.OutputDir, fmt.Sprintf("%s_page_%03d.mp4", rc.stem, rc.page))

	in := compose.Inputs{
		VideoPath:  rc.videoPath,
		OutputPath: outputPath,
		Duration:   p.duration(job),
		ScratchDir: rc.scratch,
	}

	if err := p.buildOverlay(ctx, src, job, st, rc, &in); err != nil {
		pr.Status = model.PageStatusFailed
		pr.Error = err.Error()
		pr.DurationMS = time.Since(start).Milliseconds()
		zap.L().Error("page overlay failed",
			zap.Int("page", rc.page),
			zap.Error(err),
		)
		return pr
	}

	strategy, err := composer.Render(ctx, in)
	pr.DurationMS = time.Since(start).Milliseconds()
	if err != nil {
		pr.Status = model.PageStatusFailed
		pr.Error = err.Error()
		zap.L().Error("page render failed",
			zap.Int("page", rc.page),
			zap.Error(err),
		)
		return pr
	}

	pr.Status = model.PageStatusRendered
	pr.OutputPath = outputPath
	pr.Strategy = strategy
	zap.L().Info("page rendered",
		zap.Int("page", rc.page),
		zap.String("strategy", strategy),
		zap.Int64("duration_ms", pr.DurationMS),
	)
	return pr
}

func (p *Pipeline) duration(job model.RenderJob) float64 {
	if job.Duration > 0 {
		return job.Duration
	}
	if p.cfg.Render.DurationSecs > 0 {
		return p.cfg.Render.DurationSecs
	}
	return 5
}

func (p *Pipeline) dpi(job model.RenderJob) float64 {
	if job.DPI > 0 {
		return float64(job.DPI)
	}
	if p.cfg.Render.DPI > 0 {
		return float64(p.cfg.Render.DPI)
	}
	return 150
}
