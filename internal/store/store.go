// Package store persists render runs and their per-page outcomes, with
// SQLite and PostgreSQL backends.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/Cytla24/poemtok/internal/config"
	"github.com/Cytla24/poemtok/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status       model.RunStatus `json:"status,omitempty"`
	PDFPath      string          `json:"pdf_path,omitempty"`
	CreatedAfter time.Time       `json:"created_after,omitempty"`
	Limit        int             `json:"limit,omitempty"`
	Offset       int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the render pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, job model.RenderJob) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, result *model.RunResult) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Pages
	RecordPages(ctx context.Context, runID string, pages []model.PageResult) error
	ListPages(ctx context.Context, runID string) ([]model.PageResult, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates the configured backend.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return NewSQLite(cfg.Path)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, nil)
	}
	return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
}
