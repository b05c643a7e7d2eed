package cli

import (
	"fmt"
	"io"

	"github.com/existflow/timeline/internal/ledger"
	"github.com/spf13/cobra"
)

var durationsCmd = &cobra.Command{
	Use:     "durations",
	Aliases: []string{"spans"},
	Short:   "List named durations",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession()
		if err != nil {
			return err
		}
		printDurations(cmd.OutOrStdout(), ledger.SortedSpans(session.Durations()))
		return nil
	},
}

func printDurations(w io.Writer, spans []ledger.Span) {
	if len(spans) == 0 {
		fmt.Fprintln(w, `No durations. Tag events with "#start name" and "#stop name".`)
		return
	}

	const layout = "Jan 2, 2006"
	for _, s := range spans {
		start, stop := "…", "…"
		if s.Start != nil {
			start = s.Start.Format(layout)
		}
		if s.Stop != nil {
			stop = s.Stop.Format(layout)
		}

		line := fmt.Sprintf("  %-20s  %-12s → %-12s", s.Name, start, stop)
		if s.Complete() {
			if years := ledger.YearsBetween(*s.Start, *s.Stop); years != 0 {
				line += fmt.Sprintf("  %d yrs", years)
			}
			if !s.Chronological() {
				line += "  (stop before start)"
			}
		}
		fmt.Fprintln(w, line)
	}
}
