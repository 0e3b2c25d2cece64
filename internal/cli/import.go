package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/errors"
	ftio "github.com/matzehuels/familytree/pkg/io"
)

// importCommand converts between tree file formats, most usefully from
// GEDCOM exports of genealogy programs.
func (c *CLI) importCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Convert a GEDCOM (or any tree) file to JSON, TOML or YAML",
		Long: `Convert a tree file to another format.

The input format is taken from the extension: .ged, .json, .toml, .yaml.
The output format is taken from the extension of -o (default: <input>.json).

From GEDCOM, individuals become persons and families become spouse and
parent relations. Dates such as "ABT 1850" keep only what can be placed on
a calendar.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTreeFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.json)")

	return cmd
}

func (c *CLI) runImport(input, output string) error {
	prog := newProgress(c.Logger)
	t, err := readTree(input)
	if err != nil {
		return err
	}
	if output == "" {
		output = basePath("", input) + ".json"
	}
	if output == input {
		return errors.New(errors.ErrCodeInvalidInput, "output %s would overwrite the input", output)
	}
	if err := ftio.ExportTree(t, output); err != nil {
		return err
	}
	prog.done("imported tree", "persons", len(t.Persons), "relations", len(t.Relations))

	printSuccess("Imported %s", t.Name)
	printFile(output)
	printDetail("%d persons, %d relations", len(t.Persons), len(t.Relations))
	printNewline()
	printNextStep("Render", appName+" render "+output)
	return nil
}
