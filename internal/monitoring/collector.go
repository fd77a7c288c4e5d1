// Package monitoring gathers render health metrics and raises webhook alerts
// when failure rates climb. It only runs in serve mode.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/Cytla24/poemtok/internal/model"
	"github.com/Cytla24/poemtok/internal/store"
)

// MetricsSnapshot holds a point-in-time view of render health.
type MetricsSnapshot struct {
	// Run metrics (within lookback window).
	RunsTotal    int     `json:"runs_total"`
	RunsComplete int     `json:"runs_complete"`
	RunsFailed   int     `json:"runs_failed"`
	RunsQueued   int     `json:"runs_queued"`
	RunFailRate  float64 `json:"run_fail_rate"`

	// Page metrics aggregated across run results.
	PagesRendered int     `json:"pages_rendered"`
	PagesFailed   int     `json:"pages_failed"`
	PageFailRate  float64 `json:"page_fail_rate"`
	AvgPageMS     int64   `json:"avg_page_ms"`

	// StrategyCounts tracks which compositor strategy produced each page.
	// A high share of late-chain strategies means the primary path is sick.
	StrategyCounts map[string]int `json:"strategy_counts,omitempty"`

	// Metadata.
	LookbackHours int       `json:"lookback_hours"`
	CollectedAt   time.Time `json:"collected_at"`
}

// Collector gathers metrics from the run store.
type Collector struct {
	store store.Store
}

// NewCollector creates a new metrics collector.
func NewCollector(st store.Store) *Collector {
	return &Collector{store: st}
}

// Collect gathers a snapshot of render metrics over the given lookback window.
func (c *Collector) Collect(ctx context.Context, lookbackHours int) (*MetricsSnapshot, error) {
	snap := &MetricsSnapshot{
		LookbackHours:  lookbackHours,
		CollectedAt:    time.Now().UTC(),
		StrategyCounts: map[string]int{},
	}

	cutoff := time.Now().UTC().Add(-time.Duration(lookbackHours) * time.Hour)

	runs, err := c.store.ListRuns(ctx, store.RunFilter{
		CreatedAfter: cutoff,
		Limit:        10000,
	})
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list runs")
	}

	snap.RunsTotal = len(runs)
	var totalPageMS int64
	var timedPages int64

	for _, r := range runs {
		switch r.Status {
		case model.RunStatusComplete:
			snap.RunsComplete++
		case model.RunStatusFailed:
			snap.RunsFailed++
		case model.RunStatusQueued:
			snap.RunsQueued++
		}
		if r.Result == nil {
			continue
		}
		snap.PagesRendered += r.Result.PagesRendered
		snap.PagesFailed += r.Result.PagesFailed
		for _, p := range r.Result.Pages {
			if p.Strategy != "" {
				snap.StrategyCounts[p.Strategy]++
			}
			if p.DurationMS > 0 {
				totalPageMS += p.DurationMS
				timedPages++
			}
		}
	}

	finished := snap.RunsComplete + snap.RunsFailed
	if finished > 0 {
		snap.RunFailRate = float64(snap.RunsFailed) / float64(finished)
	}
	pagesDone := snap.PagesRendered + snap.PagesFailed
	if pagesDone > 0 {
		snap.PageFailRate = float64(snap.PagesFailed) / float64(pagesDone)
	}
	if timedPages > 0 {
		snap.AvgPageMS = totalPageMS / timedPages
	}

	return snap, nil
}
