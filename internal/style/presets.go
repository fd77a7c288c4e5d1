package style

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// presetSpec mirrors Style with optional fields so a file can set zero
// values (opacity 0, soft_edge false) and absent keys still inherit.
type presetSpec struct {
	FontSize   *int     `yaml:"font_size"`
	FontColor  *string  `yaml:"font_color"`
	BoxColor   *string  `yaml:"box_color"`
	BoxOpacity *float64 `yaml:"box_opacity"`
	Scale      *float64 `yaml:"scale"`
	Opacity    *float64 `yaml:"opacity"`
	Threshold  *int     `yaml:"threshold"`
	Contrast   *float64 `yaml:"contrast"`
	SoftEdge   *bool    `yaml:"soft_edge"`
	FontPath   *string  `yaml:"font_path"`
}

// LoadPresetFile reads user presets from a YAML file. The file has a
// top-level "presets" key mapping names to styles:
//
//	presets:
//	  neon:
//	    font_color: "#00ffcc"
//	    box_opacity: 0.5
//
// Keys left out of a preset fall back to the classic preset so a file only
// has to state what differs.
func LoadPresetFile(path string) (map[string]Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "style: read preset file %s", path)
	}

	var wrapper struct {
		Presets map[string]presetSpec `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrapf(err, "style: parse preset file %s", path)
	}

	base := builtins()["classic"]
	out := make(map[string]Style, len(wrapper.Presets))
	for name, spec := range wrapper.Presets {
		merged := base
		merged.Name = name
		if spec.FontSize != nil {
			merged.FontSize = *spec.FontSize
		}
		if spec.FontColor != nil {
			merged.FontColor = *spec.FontColor
		}
		if spec.BoxColor != nil {
			merged.BoxColor = *spec.BoxColor
		}
		if spec.BoxOpacity != nil {
			merged.BoxOpacity = *spec.BoxOpacity
		}
		if spec.Scale != nil {
			merged.Scale = *spec.Scale
		}
		if spec.Opacity != nil {
			merged.Opacity = *spec.Opacity
		}
		if spec.Threshold != nil {
			merged.Threshold = *spec.Threshold
		}
		if spec.Contrast != nil {
			merged.Contrast = *spec.Contrast
		}
		if spec.SoftEdge != nil {
			merged.SoftEdge = *spec.SoftEdge
		}
		if spec.FontPath != nil {
			merged.FontPath = *spec.FontPath
		}
		out[name] = merged
	}
	return out, nil
}
