package monitoring

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Cytla24/poemtok/internal/config"
)

func TestCheckerSweepQuietStore(t *testing.T) {
	cfg := monCfg("")
	checker := NewChecker(NewCollector(seedStore(t)), NewAlerter(cfg), cfg)

	// A healthy history produces no alerts; the sweep must come back quietly.
	checker.sweep(context.Background(), zap.NewNop())
}

func TestCheckerStopsOnCancel(t *testing.T) {
	checker := NewChecker(NewCollector(seedStore(t)), NewAlerter(monCfg("")), monCfg(""))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		checker.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("checker did not stop after cancel")
	}
}

func TestCheckerDefaultInterval(t *testing.T) {
	cfg := config.MonitoringConfig{CheckIntervalSecs: 0}
	checker := NewChecker(NewCollector(seedStore(t)), NewAlerter(cfg), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	checker.Run(ctx) // returns immediately on cancelled context
}
