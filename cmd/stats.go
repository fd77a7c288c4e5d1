package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Cytla24/poemtok/internal/monitoring"
)

var (
	statsHours int
	statsJSON  bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate render health metrics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		snap, err := monitoring.NewCollector(st).Collect(ctx, statsHours)
		if err != nil {
			return eris.Wrap(err, "stats")
		}

		if statsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}

		formatSnapshot(os.Stdout, snap)
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsHours, "hours", 24, "lookback window in hours")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print the snapshot as JSON")
	rootCmd.AddCommand(statsCmd)
}

func formatSnapshot(out io.Writer, snap *monitoring.MetricsSnapshot) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Window:\t%dh\n", snap.LookbackHours)
	_, _ = fmt.Fprintf(w, "Runs:\t%d (%d complete, %d failed, %d queued)\n",
		snap.RunsTotal, snap.RunsComplete, snap.RunsFailed, snap.RunsQueued)
	_, _ = fmt.Fprintf(w, "Run fail rate:\t%.1f%%\n", snap.RunFailRate*100)
	_, _ = fmt.Fprintf(w, "Pages:\t%d rendered, %d failed\n", snap.PagesRendered, snap.PagesFailed)
	_, _ = fmt.Fprintf(w, "Page fail rate:\t%.1f%%\n", snap.PageFailRate*100)
	if snap.AvgPageMS > 0 {
		_, _ = fmt.Fprintf(w, "Avg page time:\t%dms\n", snap.AvgPageMS)
	}

	if len(snap.StrategyCounts) > 0 {
		names := make([]string, 0, len(snap.StrategyCounts))
		for name := range snap.StrategyCounts {
			names = append(names, name)
		}
		sort.Strings(names)
		_, _ = fmt.Fprintln(w, "Strategies:")
		for _, name := range names {
			_, _ = fmt.Fprintf(w, "  %s:\t%d\n", name, snap.StrategyCounts[name])
		}
	}
	_ = w.Flush()
}
