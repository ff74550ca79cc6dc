package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/tasklens/internal/app"
)

func (c *CLI) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Compute every file and print cache and worker statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Stats(cmd.Context(), c.opts)
		},
	}
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the cache in sync with the vault and serve metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("metrics-addr")
			return c.app.Watch(cmd.Context(), app.WatchOptions{
				Options:        c.opts,
				MetricsAddress: addr,
			})
		},
	}
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9464")
	return cmd
}
