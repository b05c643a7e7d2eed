package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/existflow/timeline/internal/ledger"
	"github.com/existflow/timeline/internal/model"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list [query]",
	Aliases: []string{"ls"},
	Short:   "List events",
	Long: `List events in chronological order, optionally filtered.

Words must all match; '+' separates alternatives. Pinned events are always
shown unless --pins is set.

Examples:
  timeline list
  timeline list "fred born"
  timeline list "@marie+wedding" --from 1990-01-01
  timeline list --pins`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

var (
	listPins  bool
	listFrom  string
	listTo    string
	listToday bool
)

func init() {
	listCmd.Flags().BoolVarP(&listPins, "pins", "p", false, "Only pinned events")
	listCmd.Flags().StringVar(&listFrom, "from", "", "Earliest date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTo, "to", "", "Latest date (YYYY-MM-DD)")
	listCmd.Flags().BoolVar(&listToday, "today", true, "Show the today marker")
}

func runList(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}

	f := ledger.Filter{PinsOnly: listPins}
	if len(args) == 1 {
		f.Query = args[0]
	}
	loc := session.Now().Location()
	if listFrom != "" {
		t, err := ledger.ParseTimestamp(listFrom, loc)
		if err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
		f.From = &t
	}
	if listTo != "" {
		t, err := ledger.ParseRangeEnd(listTo, loc)
		if err != nil {
			return fmt.Errorf("invalid --to: %w", err)
		}
		f.To = &t
	}

	events := session.View(f)
	if len(events) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No events found.")
		return nil
	}
	if listToday && f.From == nil && f.To == nil {
		events = session.Display(f)
	}

	printEvents(cmd.OutOrStdout(), events)
	return nil
}

func printEvents(w io.Writer, events []model.Event) {
	fmt.Fprintln(w)
	for _, ev := range events {
		printEvent(w, ev)
	}
	fmt.Fprintln(w)
}

func printEvent(w io.Writer, ev model.Event) {
	if ev.Today {
		fmt.Fprintf(w, "  ── %-26s  %s\n", ev.DisplayDate(), "Today "+strings.Repeat("─", 30))
		return
	}

	pin := "  "
	if ev.Pinned {
		pin = "★ "
	}

	// Truncate text if too long
	text := ev.Text
	if r := []rune(text); len(r) > 50 {
		text = string(r[:47]) + "..."
	}

	line := fmt.Sprintf("%s%-28s  %s", pin, ev.DisplayDate(), text)
	if len(ev.Tags) > 0 {
		line += "  [" + strings.Join(ev.Tags, ", ") + "]"
	}
	fmt.Fprintln(w, line)
}
