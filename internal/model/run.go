package model

import "time"

// RunStatus represents the current state of a render run.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusFetching   RunStatus = "fetching"
	RunStatusExtracting RunStatus = "extracting"
	RunStatusRendering  RunStatus = "rendering"
	RunStatusComplete   RunStatus = "complete"
	RunStatusFailed     RunStatus = "failed"
)

// Run represents a single render run over one PDF/background pair.
type Run struct {
	ID        string     `json:"id"`
	Job       RenderJob  `json:"job"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult holds the final outcome of a run.
type RunResult struct {
	PagesRequested int          `json:"pages_requested"`
	PagesRendered  int          `json:"pages_rendered"`
	PagesFailed    int          `json:"pages_failed"`
	Outputs        []string     `json:"outputs"`
	Pages          []PageResult `json:"pages"`
	Error          string       `json:"error,omitempty"`
}

// PageStatus is the terminal state of a single page render.
type PageStatus string

const (
	PageStatusRendered PageStatus = "rendered"
	PageStatusFailed   PageStatus = "failed"
	PageStatusSkipped  PageStatus = "skipped"
)

// PageResult records the outcome of rendering one page.
type PageResult struct {
	Page       int        `json:"page"`
	Status     PageStatus `json:"status"`
	OutputPath string     `json:"output_path,omitempty"`
	Strategy   string     `json:"strategy,omitempty"` // compositor strategy that succeeded
	DurationMS int64      `json:"duration_ms"`
	Error      string     `json:"error,omitempty"`
}
