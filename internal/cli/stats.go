package cli

import (
	"fmt"
	"io"

	"github.com/existflow/timeline/internal/ledger"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [query]",
	Short: "Summarize the timeline",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession()
		if err != nil {
			return err
		}
		f := ledger.Filter{}
		if len(args) == 1 {
			f.Query = args[0]
		}
		printStats(cmd.OutOrStdout(), session.Stats(f))
		return nil
	},
}

func printStats(w io.Writer, st ledger.Stats) {
	fmt.Fprintf(w, "Events:  %d\n", st.Total)
	fmt.Fprintf(w, "Pinned:  %d\n", st.Pinned)
	if st.First != nil && st.Last != nil {
		fmt.Fprintf(w, "First:   %s\n", st.First.Format("January 2, 2006"))
		fmt.Fprintf(w, "Last:    %s\n", st.Last.Format("January 2, 2006"))
		fmt.Fprintf(w, "Spans:   %d years\n", st.Years)
	}
}
