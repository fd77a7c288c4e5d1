package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Cytla24/poemtok/internal/model"
	"github.com/Cytla24/poemtok/internal/overlay"
	"github.com/Cytla24/poemtok/internal/pdf"
	"github.com/Cytla24/poemtok/internal/style"
)

var (
	pagesOut     string
	pagesStart   int
	pagesEnd     int
	pagesDPI     int
	pagesText    bool
	pagesRecolor bool
)

var pagesCmd = &cobra.Command{
	Use:   "pages <pdf>",
	Short: "Dump page rasters and text to a directory",
	Long:  "Writes each selected page as a PNG (optionally threshold-recolored) and, with --text, its extracted text alongside.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := pdf.Open(args[0])
		if err != nil {
			return eris.Wrap(err, "pages")
		}
		defer src.Close() //nolint:errcheck

		pages := model.ClampRange(pagesStart, pagesEnd, src.PageCount())
		if pages.Empty() {
			fmt.Fprintln(os.Stderr, "Empty page range, nothing to do.")
			return nil
		}

		if err := os.MkdirAll(pagesOut, 0o755); err != nil {
			return eris.Wrap(err, "pages: create output dir")
		}

		st, err := style.Resolve("", cfg.Style)
		if err != nil {
			return err
		}

		dpi := float64(pagesDPI)
		if dpi <= 0 {
			dpi = float64(cfg.Render.DPI)
		}

		for _, page := range pages.Pages() {
			if err := dumpPage(src, st, page, dpi); err != nil {
				return eris.Wrapf(err, "pages: page %d", page)
			}
		}

		zap.L().Info("pages dumped",
			zap.Int("count", pages.Count()),
			zap.String("dir", pagesOut),
		)
		return nil
	},
}

func init() {
	pagesCmd.Flags().StringVarP(&pagesOut, "output", "o", "pages", "output directory")
	pagesCmd.Flags().IntVarP(&pagesStart, "start", "s", 1, "first page")
	pagesCmd.Flags().IntVarP(&pagesEnd, "end", "e", 0, "last page (0 = last page of document)")
	pagesCmd.Flags().IntVar(&pagesDPI, "dpi", 0, "rasterization DPI (default from config)")
	pagesCmd.Flags().BoolVar(&pagesText, "text", false, "also write each page's extracted text")
	pagesCmd.Flags().BoolVar(&pagesRecolor, "recolor", false, "threshold-recolor the rasters like the render overlay")
	rootCmd.AddCommand(pagesCmd)
}

func dumpPage(src pdf.PageSource, st style.Style, page int, dpi float64) error {
	img, err := src.RenderImage(page, dpi)
	if err != nil {
		return err
	}

	out := img
	if pagesRecolor {
		gray := overlay.Grayscale(img)
		gray = overlay.AdjustContrast(gray, st.Contrast)
		out = overlay.Recolor(gray, overlay.RecolorOptions{
			Threshold:       uint8(st.Threshold),
			BackgroundAlpha: uint8(st.BoxOpacity*255 + 0.5),
			SoftEdge:        st.SoftEdge,
		})
	}

	if err := overlay.WritePNG(filepath.Join(pagesOut, fmt.Sprintf("page_%03d.png", page)), out); err != nil {
		return err
	}

	if pagesText {
		text, err := src.ExtractText(page)
		if err != nil {
			return err
		}
		txtPath := filepath.Join(pagesOut, fmt.Sprintf("page_%03d.txt", page))
		if err := os.WriteFile(txtPath, []byte(text), 0o644); err != nil {
			return eris.Wrap(err, "write text")
		}
	}
	return nil
}
