package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "poemtok.db", cfg.Store.Path)
	assert.Equal(t, 1080, cfg.Video.Width)
	assert.Equal(t, 1920, cfg.Video.Height)
	assert.Equal(t, "libx264", cfg.Video.Codec)
	assert.InDelta(t, 0.1, cfg.Video.MinSecs, 1e-9)
	assert.Equal(t, 200, cfg.Style.Threshold)
	assert.InDelta(t, 0.7, cfg.Style.BoxOpacity, 1e-9)
	assert.Equal(t, "tesseract", cfg.OCR.Provider)
	assert.Equal(t, "ffmpeg", cfg.FFmpeg.BinPath)
	assert.Equal(t, "ffprobe", cfg.FFmpeg.ProbePath)
	assert.Equal(t, 1, cfg.Render.Workers)
	assert.Equal(t, 40, cfg.Render.WrapColumn)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	os.Setenv("POEMTOK_VIDEO_WIDTH", "720")
	os.Setenv("POEMTOK_OCR_PROVIDER", "off")
	defer os.Unsetenv("POEMTOK_VIDEO_WIDTH")
	defer os.Unsetenv("POEMTOK_OCR_PROVIDER")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 720, cfg.Video.Width)
	assert.Equal(t, "off", cfg.OCR.Provider)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	assert.NoError(t, err)
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	assert.NoError(t, err)
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
