package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cytla24/poemtok/internal/config"
)

func TestStyleConfigFromFlags(t *testing.T) {
	flags := renderCmd.Flags()
	require.NoError(t, flags.Parse([]string{"--threshold", "180", "--scale", "0.5"}))

	base := config.StyleConfig{
		Preset:    "classic",
		FontSize:  30,
		Threshold: 200,
		Scale:     0.7,
		Contrast:  2.0,
	}
	out := styleConfigFromFlags(flags, base)

	assert.Equal(t, 180, out.Threshold)
	assert.Equal(t, 0.5, out.Scale)
	assert.ElementsMatch(t, []string{"threshold", "scale"}, out.Explicit)

	// Flags left unset keep the configured values.
	assert.Equal(t, 30, out.FontSize)
	assert.Equal(t, 2.0, out.Contrast)
}

func TestStyleConfigFromFlagsExplicitDefault(t *testing.T) {
	// Passing a flag at its default value still marks the key explicit, so
	// it beats preset values downstream.
	flags := renderCmd.Flags()
	require.NoError(t, flags.Parse([]string{"--bg-opacity", "0.7"}))

	out := styleConfigFromFlags(flags, config.StyleConfig{})
	assert.Equal(t, 0.7, out.BoxOpacity)
	assert.Contains(t, out.Explicit, "box_opacity")
}

func TestStyleConfigFromFlagsPresetFile(t *testing.T) {
	renderStyleFile = "presets.yaml"
	defer func() { renderStyleFile = "" }()

	out := styleConfigFromFlags(renderCmd.Flags(), config.StyleConfig{})
	assert.Equal(t, "presets.yaml", out.PresetFile)
}
