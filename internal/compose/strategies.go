package compose

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/rotisserie/eris"
	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"github.com/Cytla24/poemtok/internal/config"
	"github.com/Cytla24/poemtok/internal/model"
	"github.com/Cytla24/poemtok/internal/style"
	"github.com/Cytla24/poemtok/internal/subtitle"
)

// ForMode returns the ordered strategy chain for a render mode. Overlay modes
// fall back from the full filter graph to cruder composites; drawtext falls
// back to subtitle burn-in, which reads the caption file written alongside
// the text file.
func ForMode(mode model.RenderMode, st style.Style, video config.VideoConfig) ([]Strategy, error) {
	switch mode {
	case model.ModePageImage, model.ModeTextCard:
		return []Strategy{
			NewFilterOverlay(st, video),
			NewLoopImage(st, video),
			NewDirectOverlay(video),
		}, nil
	case model.ModeDrawtext:
		return []Strategy{
			NewDrawtextBox(st, video),
			NewSubtitleBurn(st, video),
		}, nil
	case model.ModeSubtitles:
		return []Strategy{
			NewSubtitleBurn(st, video),
		}, nil
	}
	return nil, eris.Errorf("compose: no strategies for mode %q", mode)
}

// outputArgs are the encoding settings shared by every final-output command.
func outputArgs(v config.VideoConfig, duration float64) ffmpeggo.KwArgs {
	return ffmpeggo.KwArgs{
		"t":       fmt.Sprintf("%.3f", duration),
		"r":       v.FPS,
		"c:v":     v.Codec,
		"preset":  v.Preset,
		"crf":     v.CRF,
		"pix_fmt": v.PixFmt,
		"c:a":     v.Audio,
	}
}

// evenScale scales to a fraction of the input width with both dimensions
// forced even, which yuv420p requires.
func evenScale(scale float64) ffmpeggo.Args {
	return ffmpeggo.Args{fmt.Sprintf("trunc(iw*%g/2)*2", scale), "-2"}
}

// FilterOverlay is the primary composite: scale the overlay, mix its alpha,
// and center it on the looping background in one filter graph.
type FilterOverlay struct {
	style style.Style
	video config.VideoConfig
}

func NewFilterOverlay(st style.Style, video config.VideoConfig) *FilterOverlay {
	return &FilterOverlay{style: st, video: video}
}

func (s *FilterOverlay) Name() string { return "filter-overlay" }

func (s *FilterOverlay) Commands(in Inputs) ([][]string, error) {
	if in.OverlayPath == "" {
		return nil, eris.New("compose: filter-overlay needs an overlay image")
	}

	bg := ffmpeggo.Input(in.VideoPath, ffmpeggo.KwArgs{"stream_loop": -1})
	ov := ffmpeggo.Input(in.OverlayPath).
		Filter("scale", evenScale(s.style.Scale)).
		Filter("format", ffmpeggo.Args{"rgba"}).
		Filter("colorchannelmixer", ffmpeggo.Args{}, ffmpeggo.KwArgs{"aa": s.style.Opacity})

	args := bg.Overlay(ov, "", ffmpeggo.KwArgs{
		"x":        "(W-w)/2",
		"y":        "(H-h)/2",
		"shortest": 1,
	}).
		Output(in.OutputPath, outputArgs(s.video, in.Duration)).
		OverWriteOutput().
		GetArgs()

	return [][]string{args}, nil
}

// LoopImage is the two-pass fallback: render the overlay into a short opaque
// clip first, then composite that clip. It trades the alpha mix for a filter
// graph some builds handle better.
type LoopImage struct {
	style style.Style
	video config.VideoConfig
}

func NewLoopImage(st style.Style, video config.VideoConfig) *LoopImage {
	return &LoopImage{style: st, video: video}
}

func (s *LoopImage) Name() string { return "loop-image" }

func (s *LoopImage) Commands(in Inputs) ([][]string, error) {
	if in.OverlayPath == "" {
		return nil, eris.New("compose: loop-image needs an overlay image")
	}
	if in.ScratchDir == "" {
		return nil, eris.New("compose: loop-image needs a scratch dir")
	}
	clipPath := filepath.Join(in.ScratchDir, "overlay_loop.mp4")

	still := ffmpeggo.Input(in.OverlayPath, ffmpeggo.KwArgs{"loop": 1, "framerate": s.video.FPS}).
		Filter("scale", evenScale(s.style.Scale)).
		Output(clipPath, ffmpeggo.KwArgs{
			"t":       fmt.Sprintf("%.3f", in.Duration),
			"c:v":     s.video.Codec,
			"preset":  s.video.Preset,
			"pix_fmt": "yuv420p",
		}).
		OverWriteOutput().
		GetArgs()

	bg := ffmpeggo.Input(in.VideoPath, ffmpeggo.KwArgs{"stream_loop": -1})
	clip := ffmpeggo.Input(clipPath)
	composite := bg.Overlay(clip, "", ffmpeggo.KwArgs{
		"x":        "(W-w)/2",
		"y":        "(H-h)/2",
		"shortest": 1,
	}).
		Output(in.OutputPath, outputArgs(s.video, in.Duration)).
		OverWriteOutput().
		GetArgs()

	return [][]string{still, composite}, nil
}

// DirectOverlay is the last resort for overlay modes: no scaling, no alpha
// mix, just the raw image pinned over the clip for the page window.
type DirectOverlay struct {
	video config.VideoConfig
}

func NewDirectOverlay(video config.VideoConfig) *DirectOverlay {
	return &DirectOverlay{video: video}
}

func (s *DirectOverlay) Name() string { return "direct-overlay" }

func (s *DirectOverlay) Commands(in Inputs) ([][]string, error) {
	if in.OverlayPath == "" {
		return nil, eris.New("compose: direct-overlay needs an overlay image")
	}

	bg := ffmpeggo.Input(in.VideoPath)
	ov := ffmpeggo.Input(in.OverlayPath)
	args := bg.Overlay(ov, "", ffmpeggo.KwArgs{
		"x":      "(W-w)/2",
		"y":      "(H-h)/2",
		"enable": fmt.Sprintf("between(t,0,%g)", in.Duration),
	}).
		Output(in.OutputPath, outputArgs(s.video, in.Duration)).
		OverWriteOutput().
		GetArgs()

	return [][]string{args}, nil
}

// DrawtextBox skips raster overlays entirely: a translucent band drawn over
// the middle of the frame with the page text rendered by ffmpeg itself.
type DrawtextBox struct {
	style style.Style
	video config.VideoConfig
}

func NewDrawtextBox(st style.Style, video config.VideoConfig) *DrawtextBox {
	return &DrawtextBox{style: st, video: video}
}

func (s *DrawtextBox) Name() string { return "drawtext-box" }

func (s *DrawtextBox) Commands(in Inputs) ([][]string, error) {
	if in.TextFile == "" {
		return nil, eris.New("compose: drawtext-box needs a text file")
	}

	args := ffmpeggo.Input(in.VideoPath, ffmpeggo.KwArgs{"stream_loop": -1}).
		Filter("drawbox", ffmpeggo.Args{}, ffmpeggo.KwArgs{
			"x":     0,
			"y":     "ih*0.35",
			"w":     "iw",
			"h":     "ih*0.3",
			"color": style.FFmpegColor(s.style.BoxColor, s.style.BoxOpacity),
			"t":     "fill",
		}).
		Filter("drawtext", ffmpeggo.Args{}, ffmpeggo.KwArgs{
			"textfile":     filepath.ToSlash(in.TextFile),
			"fontsize":     s.style.FontSize,
			"fontcolor":    s.style.FontColor,
			"x":            "(w-text_w)/2",
			"y":            "(h-text_h)/2",
			"line_spacing": s.style.FontSize / 3,
		}).
		Output(in.OutputPath, outputArgs(s.video, in.Duration)).
		OverWriteOutput().
		GetArgs()

	return [][]string{args}, nil
}

// SubtitleBurn renders the caption file onto the clip with the subtitles
// filter, styled to match the preset.
type SubtitleBurn struct {
	style style.Style
	video config.VideoConfig
}

func NewSubtitleBurn(st style.Style, video config.VideoConfig) *SubtitleBurn {
	return &SubtitleBurn{style: st, video: video}
}

func (s *SubtitleBurn) Name() string { return "subtitle-burn" }

func (s *SubtitleBurn) Commands(in Inputs) ([][]string, error) {
	if in.SRTPath == "" {
		return nil, eris.New("compose: subtitle-burn needs a caption file")
	}

	sub := subtitle.Style{
		FontSize:     s.style.FontSize,
		PrimaryColor: assColor(s.style.FontColor),
		BackColor:    assColor(s.style.BoxColor),
		Alignment:    10,
	}

	out := outputArgs(s.video, in.Duration)
	out["vf"] = sub.Filter(in.SRTPath)

	args := ffmpeggo.Input(in.VideoPath, ffmpeggo.KwArgs{"stream_loop": -1}).
		Output(in.OutputPath, out).
		OverWriteOutput().
		GetArgs()

	return [][]string{args}, nil
}

// assColor converts a preset color into the ASS &HBBGGRR form. Unparseable
// colors fall back to white.
func assColor(name string) string {
	c, err := style.ParseColor(name)
	if err != nil {
		c = color.NRGBA{255, 255, 255, 255}
	}
	return fmt.Sprintf("&H%02X%02X%02X", c.B, c.G, c.R)
}
