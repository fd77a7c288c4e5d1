package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Cytla24/poemtok/internal/compose"
	"github.com/Cytla24/poemtok/internal/ffmpeg"
	"github.com/Cytla24/poemtok/internal/model"
	"github.com/Cytla24/poemtok/internal/pipeline"
	"github.com/Cytla24/poemtok/internal/style"
)

var (
	overlayOut      string
	overlayDuration float64
	overlayScale    float64
	overlayOpacity  float64
)

// overlayCmd composites a single prepared image onto a background clip,
// skipping the PDF stages entirely.
var overlayCmd = &cobra.Command{
	Use:   "overlay <image> <video>",
	Short: "Composite one overlay image onto a background clip",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := style.Resolve("", cfg.Style)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("scale") {
			st.Scale = overlayScale
		}
		if cmd.Flags().Changed("opacity") {
			st.Opacity = overlayOpacity
		}

		strategies, err := compose.ForMode(model.ModePageImage, st, cfg.Video)
		if err != nil {
			return err
		}
		chain := compose.NewChain(
			ffmpeg.NewExecRunner(cfg.FFmpeg.BinPath),
			ffmpeg.NewFFProbe(cfg.FFmpeg.ProbePath),
			cfg.Video.MinSecs,
			strategies...,
		)

		scratch, cleanup, err := pipeline.NewScratch(cfg.Render.ScratchDir, cfg.Render.KeepScratch)
		if err != nil {
			return err
		}
		defer cleanup()

		strategy, err := chain.Render(ctx, compose.Inputs{
			VideoPath:   args[1],
			OverlayPath: args[0],
			OutputPath:  overlayOut,
			Duration:    overlayDuration,
			ScratchDir:  scratch,
		})
		if err != nil {
			return eris.Wrap(err, "overlay")
		}

		zap.L().Info("overlay composited",
			zap.String("output", overlayOut),
			zap.String("strategy", strategy),
		)
		return nil
	},
}

func init() {
	overlayCmd.Flags().StringVarP(&overlayOut, "output", "o", "overlay.mp4", "output video path")
	overlayCmd.Flags().Float64VarP(&overlayDuration, "duration", "d", 5, "output duration in seconds")
	overlayCmd.Flags().Float64Var(&overlayScale, "scale", 0.7, "overlay width as a fraction of the frame")
	overlayCmd.Flags().Float64Var(&overlayOpacity, "opacity", 0.9, "overlay opacity")
	rootCmd.AddCommand(overlayCmd)
}
