package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/tasklens/internal/core/domain"
)

func (c *CLI) newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [paths...]",
		Short: "List the tasks found in files",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if len(args) == 0 && !all {
				_ = cmd.Help()
				return nil
			}
			priority, _ := cmd.Flags().GetString("priority")
			return c.app.Parse(cmd.Context(), c.opts, args, all, domain.ParsePriority(priority))
		},
	}
	cmd.Flags().BoolP("all", "a", false, "Include every markdown file in the vault")
	cmd.Flags().StringP("priority", "p", "normal", "Worker queue priority: high, normal or low")
	return cmd
}
