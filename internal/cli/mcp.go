package cli

import (
	"github.com/existflow/timeline/internal/mcpserver"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the timeline to MCP clients over stdio",
	Long: `Serve the timeline as MCP tools on stdin/stdout, for use from
assistants such as desktop MCP hosts. Console logging goes to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession()
		if err != nil {
			return err
		}
		return mcpserver.New(session, Version).ServeStdio()
	},
}
