package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Cytla24/poemtok/internal/ffmpeg"
)

var probeJSON bool

var probeCmd = &cobra.Command{
	Use:   "probe <media-file>",
	Short: "Inspect a media file with ffprobe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prober := ffmpeg.NewFFProbe(cfg.FFmpeg.ProbePath)

		report, err := prober.Inspect(cmd.Context(), args[0])
		if err != nil {
			return eris.Wrap(err, "probe")
		}

		if probeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		dur, err := report.DurationSeconds()
		if err != nil {
			return eris.Wrap(err, "probe")
		}
		cmd.Printf("format: %s\n", report.Format.FormatName)
		cmd.Printf("duration: %.3fs\n", dur)
		for _, s := range report.Streams {
			if s.CodecType == "video" {
				cmd.Printf("stream %d: %s %s %dx%d\n", s.Index, s.CodecType, s.CodecName, s.Width, s.Height)
			} else {
				cmd.Printf("stream %d: %s %s\n", s.Index, s.CodecType, s.CodecName)
			}
		}
		return nil
	},
}

func init() {
	probeCmd.Flags().BoolVar(&probeJSON, "json", false, "print the raw probe report as JSON")
	rootCmd.AddCommand(probeCmd)
}
