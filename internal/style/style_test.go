package style

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cytla24/poemtok/internal/config"
)

func TestResolveBuiltins(t *testing.T) {
	for _, name := range Names() {
		s, err := Resolve(name, config.StyleConfig{})
		require.NoError(t, err, name)
		assert.Equal(t, name, s.Name)
		assert.Positive(t, s.FontSize)
		assert.Positive(t, s.Scale)
	}
}

func TestResolveUnknownPreset(t *testing.T) {
	_, err := Resolve("vaporwave", config.StyleConfig{})
	assert.ErrorContains(t, err, "unknown preset")
}

func TestResolveEmptyNameUsesConfigPreset(t *testing.T) {
	s, err := Resolve("", config.StyleConfig{Preset: "boxed"})
	require.NoError(t, err)
	assert.Equal(t, "boxed", s.Name)
}

func TestResolveConfigOverrides(t *testing.T) {
	s, err := Resolve("classic", config.StyleConfig{
		Threshold: 180,
		Scale:     0.5,
		SoftEdge:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 180, s.Threshold)
	assert.Equal(t, 0.5, s.Scale)
	assert.True(t, s.SoftEdge)
	// Untouched fields keep the preset values.
	assert.Equal(t, 24, s.FontSize)
	assert.Equal(t, 0.9, s.Opacity)
}

func TestResolveDefaultValuedConfigKeepsPreset(t *testing.T) {
	// Config carrying the stock defaults must not clobber a preset that
	// deliberately diverges from them.
	s, err := Resolve("ghost", config.StyleConfig{
		FontSize:   24,
		BoxOpacity: 0.7,
		Scale:      0.7,
		Opacity:    0.9,
		Threshold:  200,
		Contrast:   2.0,
	})
	require.NoError(t, err)
	assert.Equal(t, 170, s.Threshold)
	assert.Equal(t, 0.6, s.Scale)
	assert.Equal(t, 0.7, s.Opacity)
}

func TestResolveExplicitOverrideEqualsDefault(t *testing.T) {
	// A value the user passed explicitly wins over the preset even when it
	// matches the stock default, e.g. asking ghost for box_opacity 0.7.
	s, err := Resolve("ghost", config.StyleConfig{
		BoxOpacity: 0.7,
		Threshold:  200,
		Explicit:   []string{"box_opacity", "threshold"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.7, s.BoxOpacity)
	assert.Equal(t, 200, s.Threshold)
	// Fields not asked for keep the preset values.
	assert.Equal(t, 0.6, s.Scale)
	assert.Equal(t, 0.7, s.Opacity)
}

func TestResolveExplicitSoftEdgeOff(t *testing.T) {
	s, err := Resolve("ghost", config.StyleConfig{
		SoftEdge: false,
		Explicit: []string{"soft_edge"},
	})
	require.NoError(t, err)
	assert.False(t, s.SoftEdge)
}

func TestLoadPresetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
presets:
  neon:
    font_color: "#00ffcc"
    box_opacity: 0.5
  plain:
    threshold: 150
`), 0o644))

	presets, err := LoadPresetFile(path)
	require.NoError(t, err)
	require.Len(t, presets, 2)

	neon := presets["neon"]
	assert.Equal(t, "neon", neon.Name)
	assert.Equal(t, "#00ffcc", neon.FontColor)
	assert.Equal(t, 0.5, neon.BoxOpacity)
	// Unstated fields inherit the classic base.
	assert.Equal(t, 200, neon.Threshold)
	assert.Equal(t, 0.7, neon.Scale)

	assert.Equal(t, 150, presets["plain"].Threshold)
}

func TestLoadPresetFileZeroValues(t *testing.T) {
	// Zero values stated in the file are real settings, not absent keys.
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
presets:
  invisible:
    opacity: 0
    box_opacity: 0
    soft_edge: false
`), 0o644))

	presets, err := LoadPresetFile(path)
	require.NoError(t, err)

	s := presets["invisible"]
	assert.Equal(t, 0.0, s.Opacity)
	assert.Equal(t, 0.0, s.BoxOpacity)
	assert.False(t, s.SoftEdge)
	// Absent keys still inherit the classic base.
	assert.Equal(t, 24, s.FontSize)
}

func TestLoadPresetFileMissing(t *testing.T) {
	_, err := LoadPresetFile("/nonexistent/presets.yaml")
	assert.Error(t, err)
}

func TestResolveUserPresetFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("presets:\n  neon:\n    opacity: 1.0\n"), 0o644))

	s, err := Resolve("neon", config.StyleConfig{PresetFile: path})
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Opacity)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("white")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, c)

	c, err = ParseColor("#FF8000")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{255, 128, 0, 255}, c)

	_, err = ParseColor("chartreuse")
	assert.Error(t, err)

	_, err = ParseColor("#zzzzzz")
	assert.Error(t, err)
}

func TestWithAlpha(t *testing.T) {
	c := WithAlpha(color.NRGBA{10, 20, 30, 255}, 0.7)
	assert.Equal(t, uint8(179), c.A)
	assert.Equal(t, uint8(0), WithAlpha(c, -1).A)
	assert.Equal(t, uint8(255), WithAlpha(c, 2).A)
}

func TestFFmpegColor(t *testing.T) {
	assert.Equal(t, "black@0.7", FFmpegColor("black", 0.7))
	assert.Equal(t, "white@1", FFmpegColor("white", 1.0))
	assert.Equal(t, "black@0", FFmpegColor("black", -0.5))
}
