package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/existflow/timeline/internal/calendar"
	"github.com/existflow/timeline/internal/ledger"
	"github.com/existflow/timeline/internal/logger"
	"github.com/existflow/timeline/internal/seed"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the timeline",
	Long: `Export the timeline as an iCalendar file of yearly anniversaries and
durations, or as YAML that can be loaded again with --seed.

Examples:
  timeline export > timeline.ics
  timeline export --format yaml -o timeline.yaml`,
	RunE: runExport,
}

var (
	exportFormat string
	exportOutput string
)

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "ics", "Output format (ics, yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		w = f
	}

	if err := writeExport(w, session, exportFormat); err != nil {
		return err
	}
	logger.Info("Timeline exported", logger.F("format", exportFormat), logger.F("output", exportOutput))
	return nil
}

func writeExport(w io.Writer, session *ledger.Session, format string) error {
	switch format {
	case "ics", "ical":
		return calendar.Export(w, session, session.Now())
	case "yaml", "yml":
		data, err := seed.Marshal(session.Events())
		if err != nil {
			return fmt.Errorf("failed to marshal timeline: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q (want ics or yaml)", format)
	}
}
