package commands

import (
	"fmt"

	"github.com/benv-dev/benv/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <lockfile>",
		Short: "Compose an environment from a resolved lockfile",
		Long: "Compose an environment from a resolved lockfile. The argument is either " +
			"a path to a lockfile or the lockfile content itself.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outLink, _ := cmd.Flags().GetString("out-link")
			withContainer, _ := cmd.Flags().GetBool("container")

			out, err := c.app.Build(cmd.Context(), args[0], app.BuildOptions{
				OutLink:   outLink,
				Container: withContainer,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), out.Path)
			if out.ContainerBuilder != "" {
				fmt.Fprintln(cmd.OutOrStdout(), out.ContainerBuilder)
			}
			return nil
		},
	}
	cmd.Flags().StringP("out-link", "o", app.DefaultOutLink, "Where to place the environment symlink")
	cmd.Flags().Bool("container", false, "Also emit a container builder script inside the environment")
	return cmd
}
