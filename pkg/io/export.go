package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// WriteTree encodes t in the given format. The output can be read back
// with [ReadTree]. GEDCOM is import only.
func WriteTree(t *family.Tree, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(t); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	case FormatGEDCOM:
		return errors.New(errors.ErrCodeUnsupported, "writing GEDCOM is not supported")
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown tree format %q", format)
	}
	return nil
}

// ExportTree writes t to path, choosing the format from the extension.
func ExportTree(t *family.Tree, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteTree(t, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
