package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Video      VideoConfig      `yaml:"video" mapstructure:"video"`
	Style      StyleConfig      `yaml:"style" mapstructure:"style"`
	OCR        OCRConfig        `yaml:"ocr" mapstructure:"ocr"`
	FFmpeg     FFmpegConfig     `yaml:"ffmpeg" mapstructure:"ffmpeg"`
	Fetch      FetchConfig      `yaml:"fetch" mapstructure:"fetch"`
	Render     RenderConfig     `yaml:"render" mapstructure:"render"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite or postgres
	Path        string `yaml:"path" mapstructure:"path"`     // sqlite database file
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// VideoConfig configures output encoding geometry and codecs.
type VideoConfig struct {
	Width   int    `yaml:"width" mapstructure:"width"`
	Height  int    `yaml:"height" mapstructure:"height"`
	FPS     int    `yaml:"fps" mapstructure:"fps"`
	Codec   string `yaml:"codec" mapstructure:"codec"`
	Audio   string `yaml:"audio" mapstructure:"audio"`
	Preset  string `yaml:"preset" mapstructure:"preset"`
	CRF     int    `yaml:"crf" mapstructure:"crf"`
	PixFmt  string `yaml:"pix_fmt" mapstructure:"pix_fmt"`
	MinSecs float64 `yaml:"min_duration_secs" mapstructure:"min_duration_secs"` // probe floor for a valid output
}

// StyleConfig holds default overlay styling; named presets can override it.
type StyleConfig struct {
	Preset     string  `yaml:"preset" mapstructure:"preset"`
	PresetFile string  `yaml:"preset_file" mapstructure:"preset_file"`
	FontSize   int     `yaml:"font_size" mapstructure:"font_size"`
	FontColor  string  `yaml:"font_color" mapstructure:"font_color"`
	BoxColor   string  `yaml:"box_color" mapstructure:"box_color"`
	BoxOpacity float64 `yaml:"box_opacity" mapstructure:"box_opacity"`
	Scale      float64 `yaml:"scale" mapstructure:"scale"`
	Opacity    float64 `yaml:"opacity" mapstructure:"opacity"`
	Threshold  int     `yaml:"threshold" mapstructure:"threshold"`
	Contrast   float64 `yaml:"contrast" mapstructure:"contrast"`
	SoftEdge   bool    `yaml:"soft_edge" mapstructure:"soft_edge"`

	// Explicit lists field keys the user set on the command line. Explicit
	// values override preset values even when they equal the defaults above.
	Explicit []string `yaml:"-" mapstructure:"-"`
}

// OCRConfig configures the optional OCR fallback for image-only pages.
type OCRConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"` // tesseract, pdftotext, off
	Languages     string `yaml:"languages" mapstructure:"languages"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
}

// FFmpegConfig locates the external encoding tools.
type FFmpegConfig struct {
	BinPath   string `yaml:"bin_path" mapstructure:"bin_path"`
	ProbePath string `yaml:"probe_path" mapstructure:"probe_path"`
}

// FetchConfig configures remote input downloads.
type FetchConfig struct {
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// RenderConfig configures batch behavior.
type RenderConfig struct {
	Workers          int     `yaml:"workers" mapstructure:"workers"`
	LaunchPerSec     float64 `yaml:"launch_per_sec" mapstructure:"launch_per_sec"`
	DurationSecs     float64 `yaml:"duration_secs" mapstructure:"duration_secs"`
	DPI              int     `yaml:"dpi" mapstructure:"dpi"`
	KeepScratch      bool    `yaml:"keep_scratch" mapstructure:"keep_scratch"`
	ScratchDir       string  `yaml:"scratch_dir" mapstructure:"scratch_dir"`
	WrapColumn       int     `yaml:"wrap_column" mapstructure:"wrap_column"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// MonitoringConfig configures background alerting in serve mode.
type MonitoringConfig struct {
	Enabled             bool    `yaml:"enabled" mapstructure:"enabled"`
	WebhookURL          string  `yaml:"webhook_url" mapstructure:"webhook_url"`
	CheckIntervalSecs   int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
	LookbackWindowHours int     `yaml:"lookback_window_hours" mapstructure:"lookback_window_hours"`
	FailureRateAlert    float64 `yaml:"failure_rate_alert" mapstructure:"failure_rate_alert"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("POEMTOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "poemtok.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("video.width", 1080)
	v.SetDefault("video.height", 1920)
	v.SetDefault("video.fps", 30)
	v.SetDefault("video.codec", "libx264")
	v.SetDefault("video.audio", "aac")
	v.SetDefault("video.preset", "fast")
	v.SetDefault("video.crf", 23)
	v.SetDefault("video.pix_fmt", "yuv420p")
	v.SetDefault("video.min_duration_secs", 0.1)
	v.SetDefault("style.preset", "classic")
	v.SetDefault("style.font_size", 24)
	v.SetDefault("style.font_color", "white")
	v.SetDefault("style.box_color", "black")
	v.SetDefault("style.box_opacity", 0.7)
	v.SetDefault("style.scale", 0.7)
	v.SetDefault("style.opacity", 0.9)
	v.SetDefault("style.threshold", 200)
	v.SetDefault("style.contrast", 2.0)
	v.SetDefault("ocr.provider", "tesseract")
	v.SetDefault("ocr.languages", "eng")
	v.SetDefault("ocr.pdftotext_path", "pdftotext")
	v.SetDefault("ffmpeg.bin_path", "ffmpeg")
	v.SetDefault("ffmpeg.probe_path", "ffprobe")
	v.SetDefault("fetch.user_agent", "poemtok/1.0")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.rate_per_sec", 2.0)
	v.SetDefault("render.workers", 1)
	v.SetDefault("render.launch_per_sec", 1.0)
	v.SetDefault("render.duration_secs", 5)
	v.SetDefault("render.dpi", 150)
	v.SetDefault("render.wrap_column", 40)
	v.SetDefault("monitoring.check_interval_secs", 300)
	v.SetDefault("monitoring.lookback_window_hours", 24)
	v.SetDefault("monitoring.failure_rate_alert", 0.5)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
