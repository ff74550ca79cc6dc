package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "Show the project and inherited metadata of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Get(cmd.Context(), c.opts, args[0])
		},
	}
}

func (c *CLI) newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [paths...]",
		Short: "Show the project data of several files",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if len(args) == 0 && !all {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			return c.app.Batch(cmd.Context(), c.opts, args, all)
		},
	}
	cmd.Flags().BoolP("all", "a", false, "Include every markdown file in the vault")
	return cmd
}
