package monitoring

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Cytla24/poemtok/internal/config"
)

// Checker sweeps render history on a timer and pushes webhook alerts when
// failure thresholds trip. One checker runs per serve process.
type Checker struct {
	collector *Collector
	alerter   *Alerter
	cfg       config.MonitoringConfig
}

// NewChecker creates a background render-health checker.
func NewChecker(collector *Collector, alerter *Alerter, cfg config.MonitoringConfig) *Checker {
	return &Checker{
		collector: collector,
		alerter:   alerter,
		cfg:       cfg,
	}
}

// Run blocks until ctx is cancelled, sweeping once per configured interval.
func (c *Checker) Run(ctx context.Context) {
	interval := time.Duration(c.cfg.CheckIntervalSecs) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	log := zap.L().With(zap.String("component", "monitoring.checker"))
	log.Info("watching render health",
		zap.Duration("interval", interval),
		zap.Int("lookback_hours", c.cfg.LookbackWindowHours),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("render health watch stopped")
			return
		case <-ticker.C:
			c.sweep(ctx, log)
		}
	}
}

// sweep collects one snapshot, logs the render health it saw, and sends
// whatever alerts the thresholds produce.
func (c *Checker) sweep(ctx context.Context, log *zap.Logger) {
	snap, err := c.collector.Collect(ctx, c.cfg.LookbackWindowHours)
	if err != nil {
		log.Error("collect render metrics", zap.Error(err))
		return
	}

	log.Debug("render health",
		zap.Int("runs", snap.RunsTotal),
		zap.Int("runs_failed", snap.RunsFailed),
		zap.Int("pages_rendered", snap.PagesRendered),
		zap.Int("pages_failed", snap.PagesFailed),
		zap.Int64("avg_page_ms", snap.AvgPageMS),
	)

	alerts := c.alerter.Evaluate(snap)
	if len(alerts) == 0 {
		return
	}

	sent := c.alerter.SendAlerts(ctx, alerts)
	log.Warn("render health alerts",
		zap.Int("triggered", len(alerts)),
		zap.Int("sent", sent),
		zap.Float64("run_fail_rate", snap.RunFailRate),
		zap.Float64("page_fail_rate", snap.PageFailRate),
	)
}
