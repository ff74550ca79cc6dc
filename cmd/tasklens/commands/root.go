// Package commands implements the CLI commands for tasklens.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/tasklens/internal/app"
	"go.trai.ch/tasklens/internal/build"
	"go.trai.ch/tasklens/internal/core/domain"
)

// CLI represents the command line interface for tasklens.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	opts    app.Options
}

// Application represents the application logic interface.
type Application interface {
	Get(ctx context.Context, opts app.Options, file string) error
	Batch(ctx context.Context, opts app.Options, files []string, all bool) error
	Parse(ctx context.Context, opts app.Options, files []string, all bool, priority domain.Priority) error
	Stats(ctx context.Context, opts app.Options) error
	Watch(ctx context.Context, opts app.WatchOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "tasklens",
		Short:         "Project-aware task and metadata lookups for markdown vaults",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.opts.ConfigPath, "config", "c", "", "Settings file (default: ./"+domain.SettingsFileName+")")
	flags.StringVar(&c.opts.VaultRoot, "vault", "", "Vault root, overriding the settings file")
	flags.BoolVar(&c.opts.NoWorkers, "no-workers", false, "Run every operation on the calling goroutine")
	flags.StringVarP(&c.opts.Format, "output", "o", app.FormatJSON, "Output format: json or table")

	rootCmd.AddCommand(c.newGetCmd())
	rootCmd.AddCommand(c.newBatchCmd())
	rootCmd.AddCommand(c.newParseCmd())
	rootCmd.AddCommand(c.newStatsCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
