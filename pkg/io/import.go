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

// ReadTree decodes a tree in the given format from r and validates it.
//
// JSON, TOML and YAML share one schema:
//
//	{
//	  "name": "Smith",
//	  "persons": [{"id": "ann", "name": "Ann", "birth": "1921-04-02"}],
//	  "relations": [{"type": "parent", "from": "ann", "to": "carl"}]
//	}
//
// ReadTree does not close r.
func ReadTree(r io.Reader, format Format) (*family.Tree, error) {
	var t family.Tree
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&t); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&t)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "decode toml: unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&t); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
		}
	case FormatGEDCOM:
		return ReadGEDCOM(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown tree format %q", format)
	}

	t.ClearUnknownDates()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// ImportTree reads the tree file at path, choosing the format from the
// extension.
func ImportTree(path string) (*family.Tree, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadTree(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
