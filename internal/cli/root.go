package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute builds the command tree and runs it with args from os.Args.
//
// Logging goes to stderr at info level, or debug level with --verbose (-v).
// The config file is loaded before any subcommand runs.
func Execute(ctx context.Context) error {
	return newRoot(New(os.Stderr, LogInfo)).ExecuteContext(ctx)
}

// newRoot wires the --verbose flag into c's root command.
func newRoot(c *CLI) *cobra.Command {
	var verbose bool
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(LogDebug)
		}
		return loadConfig(cmd, args)
	}
	return root
}
