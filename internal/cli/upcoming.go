package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/existflow/timeline/internal/ledger"
	"github.com/spf13/cobra"
)

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Show upcoming anniversaries and events",
	Long: `Show the next yearly anniversaries of past events and the events
happening in the next 30 days.

Examples:
  timeline upcoming
  timeline upcoming --sort absolute`,
	RunE: runUpcoming,
}

func runUpcoming(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	printUpcoming(cmd.OutOrStdout(), session.Upcoming())
	return nil
}

func printUpcoming(w io.Writer, up ledger.Upcoming) {
	fmt.Fprintf(w, "\n🎂 Anniversaries (%s)\n", up.Mode.Label())
	if len(up.Past) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, p := range up.Past {
		fmt.Fprintf(w, "  %-10s  %-16s  %s\n", p.Next.Format("Jan 2"), anniversaryWhen(p), p.Event.Text)
	}

	fmt.Fprintln(w, "\n📅 Coming up")
	if len(up.Future) == 0 {
		fmt.Fprintln(w, "  nothing in the next 30 days")
	}
	for _, p := range up.Future {
		fmt.Fprintf(w, "  %-10s  %-16s  %s\n", p.Next.Format("Jan 2"), daysLabel(p.DaysUntil), p.Event.Text)
	}
	fmt.Fprintln(w)
}

// anniversaryWhen renders e.g. "58th, in 109 days"
func anniversaryWhen(p ledger.Projection) string {
	if p.Years <= 0 {
		return daysLabel(p.DaysUntil)
	}
	return humanize.Ordinal(p.Years) + ", " + daysLabel(p.DaysUntil)
}

func daysLabel(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	}
	return fmt.Sprintf("in %d days", days)
}
