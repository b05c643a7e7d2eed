package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List every tag in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession()
		if err != nil {
			return err
		}
		for _, t := range session.Tags() {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return nil
	},
}
