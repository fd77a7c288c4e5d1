package main

import (
	"context"

	"github.com/Cytla24/poemtok/internal/fetcher"
	"github.com/Cytla24/poemtok/internal/ffmpeg"
	"github.com/Cytla24/poemtok/internal/pipeline"
	"github.com/Cytla24/poemtok/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, cfg.Store)
}

// renderEnv bundles the pipeline with the store it writes to, so commands
// can close both together.
type renderEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

func (e *renderEnv) Close() {
	_ = e.Store.Close()
}

func initPipeline(ctx context.Context) (*renderEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}

	p := pipeline.New(
		cfg,
		st,
		fetcher.NewStager(cfg.Fetch),
		ffmpeg.NewExecRunner(cfg.FFmpeg.BinPath),
		ffmpeg.NewFFProbe(cfg.FFmpeg.ProbePath),
	)

	return &renderEnv{Store: st, Pipeline: p}, nil
}
