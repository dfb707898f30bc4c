package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newEnvsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "envs",
		Short: "List registered environment links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return c.app.Envs(asJSON, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Bool("json", false, "Emit the environment list as JSON")
	return cmd
}
