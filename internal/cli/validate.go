package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/pipeline"
)

// validateCommand checks a tree file without writing anything.
func (c *CLI) validateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [tree]",
		Short: "Check a tree file for errors and layout warnings",
		Long: `Check a tree file.

Errors (unknown persons in relations, duplicate IDs, bad dates) make the
command fail. Problems the layout can work around, such as a person who is
their own ancestor, are printed as warnings; --strict turns them into a
failure too.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTreeFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args[0], strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail on layout warnings")

	return cmd
}

func (c *CLI) runValidate(input string, strict bool) error {
	t, err := readTree(input)
	if err != nil {
		printError("%s is not a valid tree", input)
		return err
	}

	opts := c.pipelineOptions(layout.Options{})
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	l, err := pipeline.GenerateLayout(t, opts)
	if err != nil {
		return err
	}

	printKeyValue("Tree", t.Name)
	printKeyValue("Persons", fmt.Sprint(len(t.Persons)))
	printKeyValue("Relations", fmt.Sprint(len(t.Relations)))
	printKeyValue("Generations", fmt.Sprint(l.Generations))
	printKeyValue("Crossings", fmt.Sprint(l.Crossings))
	for _, w := range l.Warnings {
		printWarning("%s", w)
	}

	if strict && len(l.Warnings) > 0 {
		return errors.New(errors.ErrCodeInvalidTree, "%s: %d layout warnings", input, len(l.Warnings))
	}
	printSuccess("%s is valid", input)
	return nil
}
