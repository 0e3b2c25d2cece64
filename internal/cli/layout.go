package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	ftio "github.com/matzehuels/familytree/pkg/io"
	"github.com/matzehuels/familytree/pkg/layout"
)

// layoutCommand creates the layout command for computing tree layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		geom    layout.Options
	)

	cmd := &cobra.Command{
		Use:   "layout [tree]",
		Short: "Compute the layout of a family tree",
		Long: `Compute the layout of a family tree.

The tree may be a .json, .toml, .yaml or .ged file. The output is a
layout.json file (same format as 'render -f json') holding every person box
and line in drawing coordinates.

Results are cached, so running the command again on an unchanged tree is
instant.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTreeFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, geom, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")
	addLayoutFlags(cmd, &geom)

	return cmd
}

// runLayout loads the tree, computes the layout, and writes it out.
func (c *CLI) runLayout(ctx context.Context, input, output string, geom layout.Options, noCache, refresh bool) error {
	t, err := readTree(input)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	opts := c.pipelineOptions(geom)
	opts.Refresh = refresh
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	spinner := newSpinner(ctx, "Computing layout...")
	spinner.Start()
	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, t, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	if err := ftio.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(t.Persons), l.Generations, l.Crossings, cacheHit)
	for _, w := range l.Warnings {
		printWarning("%s", w)
	}
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}
