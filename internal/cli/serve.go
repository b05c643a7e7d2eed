package cli

import (
	"fmt"

	"github.com/existflow/timeline/internal/logger"
	"github.com/existflow/timeline/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the timeline over HTTP",
	RunE:  runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server_addr from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	session, err := openSession()
	if err != nil {
		return err
	}

	addr := cfg.ServerAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	logger.Info("Timeline server starting", logger.F("addr", addr))
	fmt.Fprintf(cmd.OutOrStdout(), "Timeline server listening on %s\n", addr)
	if err := server.New(session).Start(addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
