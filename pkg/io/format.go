package io

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/familytree/pkg/errors"
)

// Format is a tree file encoding.
type Format string

const (
	FormatJSON   Format = "json"
	FormatTOML   Format = "toml"
	FormatYAML   Format = "yaml"
	FormatGEDCOM Format = "gedcom"
)

var extFormats = map[string]Format{
	".json": FormatJSON,
	".toml": FormatTOML,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".ged":  FormatGEDCOM,
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown tree file extension %q (want .json, .toml, .yaml or .ged)", ext)
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatTOML, FormatYAML, FormatGEDCOM:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "ged":
		return FormatGEDCOM, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown tree format %q", s)
}
