package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/layout"
)

// browseCommand opens an interactive generation browser.
func (c *CLI) browseCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:               "browse [tree]",
		Short:             "Browse a family tree generation by generation",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTreeFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, input string, noCache bool) error {
	t, err := readTree(input)
	if err != nil {
		return err
	}

	runner := c.newRunner(ctx, noCache)
	defer runner.Close()

	opts := c.pipelineOptions(layout.Options{})
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	l, err := runner.Layout(ctx, t, opts)
	if err != nil {
		return err
	}
	if l.Generations == 0 {
		printInfo("%s has no persons", t.Name)
		return nil
	}

	p := tea.NewProgram(NewGenerationModel(t, l), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}
