package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strconv"

	"github.com/rotisserie/eris"
	ffmpeggo "github.com/u2takey/ffmpeg-go"
)

// Prober inspects rendered media after the fact.
type Prober interface {
	// Duration returns the container duration of path in seconds.
	Duration(ctx context.Context, path string) (float64, error)

	// Inspect returns the parsed probe report.
	Inspect(ctx context.Context, path string) (*ProbeReport, error)
}

// ProbeReport is the subset of ffprobe output the tool cares about.
type ProbeReport struct {
	Format  ProbeFormat   `json:"format"`
	Streams []ProbeStream `json:"streams"`
}

// ProbeFormat holds container-level fields.
type ProbeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
}

// ProbeStream holds per-stream fields.
type ProbeStream struct {
	Index     int    `json:"index"`
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// DurationSeconds parses the container duration.
func (r *ProbeReport) DurationSeconds() (float64, error) {
	if r.Format.Duration == "" {
		return 0, eris.New("ffmpeg: probe report has no duration")
	}
	d, err := strconv.ParseFloat(r.Format.Duration, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "ffmpeg: parse duration %q", r.Format.Duration)
	}
	return d, nil
}

// FFProbe implements Prober with the ffprobe tool.
type FFProbe struct {
	binPath string
}

// NewFFProbe creates a prober. An empty binPath uses the default ffprobe
// on PATH (via ffmpeg-go); anything else is executed directly.
func NewFFProbe(binPath string) *FFProbe {
	if binPath == "ffprobe" {
		binPath = ""
	}
	return &FFProbe{binPath: binPath}
}

// Inspect probes path and parses the JSON report.
func (p *FFProbe) Inspect(ctx context.Context, path string) (*ProbeReport, error) {
	raw, err := p.raw(ctx, path)
	if err != nil {
		return nil, eris.Wrapf(err, "ffmpeg: probe %s", path)
	}

	var report ProbeReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, eris.Wrapf(err, "ffmpeg: parse probe output for %s", path)
	}
	return &report, nil
}

// Duration probes path and returns the container duration in seconds.
func (p *FFProbe) Duration(ctx context.Context, path string) (float64, error) {
	report, err := p.Inspect(ctx, path)
	if err != nil {
		return 0, err
	}
	return report.DurationSeconds()
}

func (p *FFProbe) raw(ctx context.Context, path string) ([]byte, error) {
	if p.binPath == "" {
		out, err := ffmpeggo.Probe(path)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	}

	cmd := exec.CommandContext(ctx, p.binPath,
		"-v", "error",
		"-show_format", "-show_streams",
		"-of", "json",
		path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, eris.Wrap(err, stderrTail(stderr.String()))
	}
	return stdout.Bytes(), nil
}
