package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Cytla24/poemtok/internal/config"
	"github.com/Cytla24/poemtok/internal/model"
)

var (
	renderOut       string
	renderStart     int
	renderEnd       int
	renderDuration  float64
	renderMode      string
	renderStyle     string
	renderStyleFile string
	renderScale     float64
	renderOpacity   float64
	renderThreshold int
	renderContrast  float64
	renderBgOpacity float64
	renderFont      string
	renderFontSize  int
	renderFontColor string
	renderBoxColor  string
	renderDPI       int
	renderOCR       bool
	renderWorkers   int
	renderKeep      bool
)

var renderCmd = &cobra.Command{
	Use:   "render <pdf> <video>",
	Short: "Render one video per PDF page",
	Long:  "Composites each selected page of the PDF onto the looping background clip, producing one short vertical video per page.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg.Style = styleConfigFromFlags(cmd.Flags(), cfg.Style)
		if renderKeep {
			cfg.Render.KeepScratch = true
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		job := model.RenderJob{
			PDFPath:   args[0],
			VideoPath: args[1],
			OutputDir: renderOut,
			Mode:      model.RenderMode(renderMode),
			StartPage: renderStart,
			EndPage:   renderEnd,
			Duration:  renderDuration,
			StyleName: renderStyle,
			FontPath:  renderFont,
			DPI:       renderDPI,
			OCR:       renderOCR,
			Workers:   renderWorkers,
		}

		run, err := env.Pipeline.Run(ctx, job)
		if err != nil {
			return eris.Wrap(err, "render")
		}

		zap.L().Info("render finished",
			zap.String("run_id", run.ID),
			zap.String("status", string(run.Status)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "out", "directory for finished videos")
	renderCmd.Flags().IntVarP(&renderStart, "start", "s", 1, "first page")
	renderCmd.Flags().IntVarP(&renderEnd, "end", "e", 0, "last page (0 = last page of document)")
	renderCmd.Flags().Float64VarP(&renderDuration, "duration", "d", 0, "seconds per output video (default from config)")
	renderCmd.Flags().StringVar(&renderMode, "mode", string(model.ModePageImage), "overlay mode: page-image, text-card, drawtext, subtitles")
	renderCmd.Flags().StringVar(&renderStyle, "style", "", "style preset name")
	renderCmd.Flags().StringVar(&renderStyleFile, "style-file", "", "YAML file with extra style presets")
	renderCmd.Flags().Float64Var(&renderScale, "scale", 0.7, "overlay width as a fraction of the frame")
	renderCmd.Flags().Float64Var(&renderOpacity, "opacity", 0.9, "overlay opacity")
	renderCmd.Flags().IntVar(&renderThreshold, "threshold", 200, "recolor threshold (0-255)")
	renderCmd.Flags().Float64Var(&renderContrast, "contrast", 2.0, "contrast boost before recoloring")
	renderCmd.Flags().Float64Var(&renderBgOpacity, "bg-opacity", 0.7, "overlay background opacity")
	renderCmd.Flags().StringVar(&renderFont, "font", "", "TTF font file for text cards")
	renderCmd.Flags().IntVar(&renderFontSize, "font-size", 24, "font size for text modes")
	renderCmd.Flags().StringVar(&renderFontColor, "font-color", "white", "font color for text modes")
	renderCmd.Flags().StringVar(&renderBoxColor, "box-color", "black", "box color for text modes")
	renderCmd.Flags().IntVar(&renderDPI, "dpi", 0, "rasterization DPI (default from config)")
	renderCmd.Flags().BoolVar(&renderOCR, "ocr", false, "OCR pages with no text layer")
	renderCmd.Flags().IntVar(&renderWorkers, "workers", 0, "concurrent page renders (default from config)")
	renderCmd.Flags().BoolVar(&renderKeep, "keep-scratch", false, "keep the scratch directory for debugging")
	rootCmd.AddCommand(renderCmd)
}

// styleConfigFromFlags layers explicitly-set render flags over the configured
// style defaults. Flags the user did not pass leave the config values alone;
// passed flags are recorded as explicit so they beat preset values even when
// they equal the defaults.
func styleConfigFromFlags(flags *pflag.FlagSet, base config.StyleConfig) config.StyleConfig {
	if renderStyleFile != "" {
		base.PresetFile = renderStyleFile
	}
	if flags.Changed("font-size") {
		base.FontSize = renderFontSize
		base.Explicit = append(base.Explicit, "font_size")
	}
	if flags.Changed("font-color") {
		base.FontColor = renderFontColor
		base.Explicit = append(base.Explicit, "font_color")
	}
	if flags.Changed("box-color") {
		base.BoxColor = renderBoxColor
		base.Explicit = append(base.Explicit, "box_color")
	}
	if flags.Changed("bg-opacity") {
		base.BoxOpacity = renderBgOpacity
		base.Explicit = append(base.Explicit, "box_opacity")
	}
	if flags.Changed("scale") {
		base.Scale = renderScale
		base.Explicit = append(base.Explicit, "scale")
	}
	if flags.Changed("opacity") {
		base.Opacity = renderOpacity
		base.Explicit = append(base.Explicit, "opacity")
	}
	if flags.Changed("threshold") {
		base.Threshold = renderThreshold
		base.Explicit = append(base.Explicit, "threshold")
	}
	if flags.Changed("contrast") {
		base.Contrast = renderContrast
		base.Explicit = append(base.Explicit, "contrast")
	}
	return base
}
