// Package ffmpeg wraps the external encoding tools: synchronous ffmpeg
// invocations and ffprobe duration checks. Filter graphs are built by the
// compose package; this one only executes them.
package ffmpeg

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Runner executes one ffmpeg command line and reports only success or
// failure. Each invocation is independent; there is no pooling or retry at
// this level.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// ExecRunner runs the ffmpeg binary via os/exec.
type ExecRunner struct {
	binPath string
}

// NewExecRunner creates a runner for the given ffmpeg binary. If binPath is
// empty, "ffmpeg" is used.
func NewExecRunner(binPath string) *ExecRunner {
	if binPath == "" {
		binPath = "ffmpeg"
	}
	return &ExecRunner{binPath: binPath}
}

// Run executes ffmpeg synchronously, blocking until the tool exits. On a
// non-zero exit the tail of stderr is attached to the error so the caller
// can log what the encoder complained about.
func (r *ExecRunner) Run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, r.binPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	zap.L().Debug("ffmpeg invoke",
		zap.String("bin", r.binPath),
		zap.Strings("args", args),
	)

	err := cmd.Run()

	zap.L().Debug("ffmpeg done",
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("ok", err == nil),
	)

	if err != nil {
		return eris.Wrapf(err, "ffmpeg: %s", stderrTail(stderr.String()))
	}
	return nil
}

// stderrTail keeps the last few lines of encoder output; the prelude is
// banner noise.
func stderrTail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.Join(lines, " | ")
}
