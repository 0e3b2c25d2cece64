package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file (single format) or base path
	formats  string // comma-separated: svg, dot, json
	style    string // svg style: simple, warm
	vizType  string // layered or nodelink
	detailed bool   // ids and life spans in nodelink labels
	noCache  bool
	refresh  bool
	geom     layout.Options
}

// renderCommand creates the render command for drawing family trees.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [tree]",
		Short: "Draw a family tree as SVG, DOT or layout JSON",
		Long: `Draw a family tree.

Formats (-f, comma-separated):
  svg   picture of the computed layout (default)
  dot   Graphviz source
  json  the computed layout

With --viz nodelink the SVG is drawn by Graphviz instead of the layered
layout engine, which is useful for comparison.

Output files are named after the input (smith.json gives smith.svg,
smith.dot and smith.layout.json) unless -o is given.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTreeFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.style, "style", "", "svg style: simple (default), warm")
	cmd.Flags().StringVarP(&opts.vizType, "viz", "t", "", "visualization: layered (default), nodelink")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show IDs and life spans (nodelink)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if cached")
	addLayoutFlags(cmd, &opts.geom)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, ro renderOpts) error {
	prog := newProgress(c.Logger)
	t, err := readTree(input)
	if err != nil {
		return err
	}

	opts := c.pipelineOptions(ro.geom)
	opts.Formats = parseFormats(ro.formats)
	opts.VizType = ro.vizType
	opts.Detailed = ro.detailed
	opts.Refresh = ro.refresh
	if ro.style != "" {
		opts.Style = ro.style
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner := c.newRunner(ctx, ro.noCache)
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", t.Name))
	spinner.Start()
	res, err := runner.Execute(ctx, t, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(ro.output, input, opts.Formats)
	for _, format := range opts.Formats {
		if err := writeOutput(paths[format], res.Artifacts[format]); err != nil {
			return err
		}
	}
	prog.done("rendered", "tree", t.Name, "formats", len(opts.Formats))

	printSuccess("Rendered %s", t.Name)
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(res.Stats.Persons, res.Stats.Generations, res.Stats.Crossings, res.CacheInfo.LayoutHit)
	return nil
}

// outputPaths maps each format to its output file. A single format with an
// explicit output goes exactly there; otherwise files are named after the
// base path. Layout JSON gets a .layout.json suffix so it never overwrites
// a JSON tree file.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		if f == pipeline.FormatJSON {
			paths[f] = base + ".layout.json"
			continue
		}
		paths[f] = base + "." + f
	}
	return paths
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
