package monitoring

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cytla24/poemtok/internal/model"
	"github.com/Cytla24/poemtok/internal/store"
)

func seedStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "mon.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func finishRun(t *testing.T, s store.Store, status model.RunStatus, result *model.RunResult) {
	t.Helper()
	ctx := context.Background()
	run, err := s.CreateRun(ctx, model.RenderJob{PDFPath: "/in.pdf", VideoPath: "/bg.mp4", Mode: model.ModePageImage})
	require.NoError(t, err)
	require.NoError(t, s.CompleteRun(ctx, run.ID, status, result))
}

func TestCollectEmptyStore(t *testing.T) {
	c := NewCollector(seedStore(t))
	snap, err := c.Collect(context.Background(), 24)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.RunsTotal)
	assert.Zero(t, snap.RunFailRate)
	assert.Equal(t, 24, snap.LookbackHours)
}

func TestCollectAggregates(t *testing.T) {
	s := seedStore(t)

	finishRun(t, s, model.RunStatusComplete, &model.RunResult{
		PagesRequested: 2,
		PagesRendered:  2,
		Pages: []model.PageResult{
			{Page: 1, Status: model.PageStatusRendered, Strategy: "filter-overlay", DurationMS: 1000},
			{Page: 2, Status: model.PageStatusRendered, Strategy: "loop-image", DurationMS: 3000},
		},
	})
	finishRun(t, s, model.RunStatusFailed, &model.RunResult{
		PagesRequested: 1,
		PagesFailed:    1,
		Pages: []model.PageResult{
			{Page: 1, Status: model.PageStatusFailed, Error: "encode failed"},
		},
	})

	snap, err := NewCollector(s).Collect(context.Background(), 24)
	require.NoError(t, err)

	assert.Equal(t, 2, snap.RunsTotal)
	assert.Equal(t, 1, snap.RunsComplete)
	assert.Equal(t, 1, snap.RunsFailed)
	assert.InDelta(t, 0.5, snap.RunFailRate, 1e-9)

	assert.Equal(t, 2, snap.PagesRendered)
	assert.Equal(t, 1, snap.PagesFailed)
	assert.InDelta(t, 1.0/3.0, snap.PageFailRate, 1e-9)
	assert.Equal(t, int64(2000), snap.AvgPageMS)

	assert.Equal(t, 1, snap.StrategyCounts["filter-overlay"])
	assert.Equal(t, 1, snap.StrategyCounts["loop-image"])
}
