// Package compose turns a page overlay and a background clip into a finished
// vertical video. Each render mode has an ordered list of encoder strategies;
// the chain runs them in order and accepts the first one whose output survives
// a probe check.
package compose

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Cytla24/poemtok/internal/ffmpeg"
)

// Inputs names everything a strategy may consume. Strategies ignore the
// fields their mode does not use.
type Inputs struct {
	VideoPath   string  // background clip
	OverlayPath string  // recolored page or text card PNG
	TextFile    string  // plain text for the drawtext filter
	SRTPath     string  // caption file for subtitle burn-in
	OutputPath  string
	Duration    float64 // seconds of output
	ScratchDir  string  // for intermediate files
}

// Strategy builds the ffmpeg command lines for one way of compositing.
// Commands are executed in order; all must succeed.
type Strategy interface {
	Name() string
	Commands(in Inputs) ([][]string, error)
}

// Chain tries strategies in order until one produces a valid output.
type Chain struct {
	Runner     ffmpeg.Runner
	Prober     ffmpeg.Prober
	MinSecs    float64 // outputs shorter than this are treated as encoder failures
	Strategies []Strategy
}

// NewChain builds a chain over the given tool wrappers.
func NewChain(runner ffmpeg.Runner, prober ffmpeg.Prober, minSecs float64, strategies ...Strategy) *Chain {
	return &Chain{
		Runner:     runner,
		Prober:     prober,
		MinSecs:    minSecs,
		Strategies: strategies,
	}
}

// Render runs the chain for in and returns the name of the strategy that
// produced the accepted output. A strategy fails by returning bad commands,
// by a non-zero encoder exit, or by writing an output the probe rejects; the
// chain then moves on to the next one.
func (c *Chain) Render(ctx context.Context, in Inputs) (string, error) {
	if len(c.Strategies) == 0 {
		return "", eris.New("compose: no strategies configured")
	}
	if in.OutputPath == "" {
		return "", eris.New("compose: missing output path")
	}

	var lastErr error
	for _, s := range c.Strategies {
		if err := ctx.Err(); err != nil {
			return "", eris.Wrap(err, "compose: canceled")
		}

		if err := c.attempt(ctx, s, in); err != nil {
			lastErr = err
			zap.L().Warn("compose strategy failed",
				zap.String("strategy", s.Name()),
				zap.String("output", in.OutputPath),
				zap.Error(err),
			)
			continue
		}

		zap.L().Info("compose strategy succeeded",
			zap.String("strategy", s.Name()),
			zap.String("output", in.OutputPath),
		)
		return s.Name(), nil
	}

	return "", eris.Wrapf(lastErr, "compose: all %d strategies failed for %s", len(c.Strategies), in.OutputPath)
}

func (c *Chain) attempt(ctx context.Context, s Strategy, in Inputs) error {
	cmds, err := s.Commands(in)
	if err != nil {
		return err
	}
	for _, args := range cmds {
		if err := c.Runner.Run(ctx, args); err != nil {
			return err
		}
	}

	d, err := c.Prober.Duration(ctx, in.OutputPath)
	if err != nil {
		return eris.Wrap(err, "compose: probe output")
	}
	if d < c.MinSecs {
		return eris.Errorf("compose: output duration %.3fs below floor %.3fs", d, c.MinSecs)
	}
	return nil
}
