// Package cli implements the familytree command-line interface.
//
// # Commands
//
//   - layout: Compute a layout and write it as <tree>.layout.json
//   - render: Draw a tree as SVG, Graphviz DOT or layout JSON
//   - import: Convert a GEDCOM file into a JSON, TOML or YAML tree
//   - validate: Check a tree file and report layout warnings
//   - browse: Page through a tree generation by generation
//   - serve: Run the HTTP API
//   - cache: Manage the layout cache
//
// Settings come from the TOML file named by --config (default
// $XDG_CONFIG_HOME/familytree/config.toml); command flags win over it.
// --verbose (-v) switches logging to debug level.
package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/buildinfo"
	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/config"
	"github.com/matzehuels/familytree/pkg/family"
	ftio "github.com/matzehuels/familytree/pkg/io"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/pipeline"
)

// appName is the application name used for display.
const appName = "familytree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The config file is read when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Familytree lays out and draws family trees",
		Long:         `Familytree computes readable layouts for family trees: couples side by side, one row per generation, children in birth order under their parents. Layouts can be drawn as SVG, exported as DOT or JSON, or served over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/familytree/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner over the configured cache. A cache
// that cannot be opened is logged and replaced by no cache at all.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger)
	}
	cc, err := c.Config.Cache.OpenCache(ctx)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without it", "backend", c.Config.Cache.Backend, "err", err)
		cc = cache.NewNullCache()
	}
	return pipeline.NewRunner(cc, c.Config.Cache.Keyer(), c.Logger)
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions returns the configured defaults with the non-zero
// geometry flags in over applied.
func (c *CLI) pipelineOptions(over layout.Options) pipeline.Options {
	return pipeline.Options{
		Layout: mergeLayout(c.Config.Layout, over),
		Style:  c.Config.Render.Style,
	}
}

// addLayoutFlags registers the geometry flags. Zero means "use the config
// file or the built-in default".
func addLayoutFlags(cmd *cobra.Command, o *layout.Options) {
	cmd.Flags().Float64Var(&o.NodeWidth, "node-width", 0, "person box width")
	cmd.Flags().Float64Var(&o.NodeHeight, "node-height", 0, "person box height")
	cmd.Flags().Float64Var(&o.SiblingGap, "sibling-gap", 0, "horizontal gap between families")
	cmd.Flags().Float64Var(&o.RankSep, "rank-sep", 0, "vertical gap between generations")
	cmd.Flags().IntVar(&o.Passes, "passes", 0, "crossing reduction sweeps")
}

// mergeLayout overrides every non-zero field of over onto base.
func mergeLayout(base, over layout.Options) layout.Options {
	pick := func(b *float64, o float64) {
		if o != 0 {
			*b = o
		}
	}
	pick(&base.NodeWidth, over.NodeWidth)
	pick(&base.NodeHeight, over.NodeHeight)
	pick(&base.SpouseGap, over.SpouseGap)
	pick(&base.SiblingGap, over.SiblingGap)
	pick(&base.DummyGap, over.DummyGap)
	pick(&base.RankSep, over.RankSep)
	pick(&base.Margin, over.Margin)
	if over.Passes != 0 {
		base.Passes = over.Passes
	}
	if over.Iterations != 0 {
		base.Iterations = over.Iterations
	}
	return base
}

// readTree loads and validates a tree file of any supported format.
func readTree(path string) (*family.Tree, error) {
	t, err := ftio.ImportTree(path)
	if err != nil {
		return nil, err
	}
	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return t, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. A known artifact
// extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	for _, f := range pipeline.ValidFormats {
		if strings.TrimPrefix(ext, ".") == f {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}
