// Package style resolves named overlay presets into concrete rendering
// parameters. Built-in presets cover the common looks; a YAML preset file can
// add or override them.
package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/Cytla24/poemtok/internal/config"
)

// Style holds every knob the overlay and compositor stages read.
type Style struct {
	Name       string  `yaml:"name"`
	FontSize   int     `yaml:"font_size"`
	FontColor  string  `yaml:"font_color"`
	BoxColor   string  `yaml:"box_color"`
	BoxOpacity float64 `yaml:"box_opacity"`
	Scale      float64 `yaml:"scale"`   // overlay width as a fraction of frame width
	Opacity    float64 `yaml:"opacity"` // overlay alpha applied by the compositor
	Threshold  int     `yaml:"threshold"`
	Contrast   float64 `yaml:"contrast"`
	SoftEdge   bool    `yaml:"soft_edge"`
	FontPath   string  `yaml:"font_path"`
}

// builtins are the presets shipped with the tool. "classic" matches the
// defaults in config; the others shift opacity and geometry for different
// background footage.
func builtins() map[string]Style {
	return map[string]Style{
		"classic": {
			Name:       "classic",
			FontSize:   24,
			FontColor:  "white",
			BoxColor:   "black",
			BoxOpacity: 0.7,
			Scale:      0.7,
			Opacity:    0.9,
			Threshold:  200,
			Contrast:   2.0,
		},
		"boxed": {
			Name:       "boxed",
			FontSize:   28,
			FontColor:  "white",
			BoxColor:   "black",
			BoxOpacity: 0.85,
			Scale:      0.8,
			Opacity:    1.0,
			Threshold:  200,
			Contrast:   2.0,
		},
		"caption": {
			Name:       "caption",
			FontSize:   24,
			FontColor:  "white",
			BoxColor:   "black",
			BoxOpacity: 0.6,
			Scale:      0.9,
			Opacity:    1.0,
			Threshold:  200,
			Contrast:   1.0,
		},
		"ghost": {
			Name:       "ghost",
			FontSize:   24,
			FontColor:  "white",
			BoxColor:   "black",
			BoxOpacity: 0.4,
			Scale:      0.6,
			Opacity:    0.7,
			Threshold:  170,
			Contrast:   2.5,
			SoftEdge:   true,
		},
	}
}

// Names lists the built-in preset names.
func Names() []string {
	m := builtins()
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names
}

// Resolve looks up the named preset, layering user presets from the optional
// preset file over the built-ins, then applies per-field overrides from cfg.
// An empty name resolves cfg.Preset.
func Resolve(name string, cfg config.StyleConfig) (Style, error) {
	if name == "" {
		name = cfg.Preset
	}

	presets := builtins()
	if cfg.PresetFile != "" {
		user, err := LoadPresetFile(cfg.PresetFile)
		if err != nil {
			return Style{}, err
		}
		for key, s := range user {
			presets[key] = s
		}
	}

	s, ok := presets[name]
	if !ok {
		return Style{}, eris.Errorf("style: unknown preset %q", name)
	}
	applyOverrides(&s, cfg)
	return s, nil
}

// applyOverrides copies config values over the preset. A key listed in
// cfg.Explicit always wins, even when its value equals the stock default;
// other fields win only when they differ from the defaults, so a preset
// keeps its own look unless the user asked for something specific.
func applyOverrides(s *Style, cfg config.StyleConfig) {
	explicit := make(map[string]bool, len(cfg.Explicit))
	for _, key := range cfg.Explicit {
		explicit[key] = true
	}

	if explicit["font_size"] || (cfg.FontSize != 0 && cfg.FontSize != 24) {
		s.FontSize = cfg.FontSize
	}
	if explicit["font_color"] || (cfg.FontColor != "" && cfg.FontColor != "white") {
		s.FontColor = cfg.FontColor
	}
	if explicit["box_color"] || (cfg.BoxColor != "" && cfg.BoxColor != "black") {
		s.BoxColor = cfg.BoxColor
	}
	if explicit["box_opacity"] || (cfg.BoxOpacity != 0 && cfg.BoxOpacity != 0.7) {
		s.BoxOpacity = cfg.BoxOpacity
	}
	if explicit["scale"] || (cfg.Scale != 0 && cfg.Scale != 0.7) {
		s.Scale = cfg.Scale
	}
	if explicit["opacity"] || (cfg.Opacity != 0 && cfg.Opacity != 0.9) {
		s.Opacity = cfg.Opacity
	}
	if explicit["threshold"] || (cfg.Threshold != 0 && cfg.Threshold != 200) {
		s.Threshold = cfg.Threshold
	}
	if explicit["contrast"] || (cfg.Contrast != 0 && cfg.Contrast != 2.0) {
		s.Contrast = cfg.Contrast
	}
	if explicit["soft_edge"] {
		s.SoftEdge = cfg.SoftEdge
	} else if cfg.SoftEdge {
		s.SoftEdge = true
	}
}

// namedColors is the palette accepted in presets and flags. Values are sRGB.
var namedColors = map[string]color.NRGBA{
	"white":  {255, 255, 255, 255},
	"black":  {0, 0, 0, 255},
	"red":    {255, 0, 0, 255},
	"green":  {0, 128, 0, 255},
	"blue":   {0, 0, 255, 255},
	"yellow": {255, 255, 0, 255},
	"gray":   {128, 128, 128, 255},
	"grey":   {128, 128, 128, 255},
}

// ParseColor accepts a named color or a #RRGGBB hex value.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return color.NRGBA{}, eris.Wrapf(err, "style: parse color %q", s)
		}
		return color.NRGBA{
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
			A: 255,
		}, nil
	}
	return color.NRGBA{}, eris.Errorf("style: unknown color %q", s)
}

// WithAlpha returns c with its alpha replaced by opacity in [0,1].
func WithAlpha(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(opacity*255 + 0.5)
	return c
}

// FFmpegColor renders a color and opacity in the form filter arguments take,
// e.g. "black@0.7".
func FFmpegColor(name string, opacity float64) string {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return fmt.Sprintf("%s@%s", name, strconv.FormatFloat(opacity, 'g', 3, 64))
}
