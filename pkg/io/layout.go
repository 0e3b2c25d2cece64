package io

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/layout"
)

// MarshalLayout serializes a layout to pretty-printed JSON.
func MarshalLayout(l *layout.Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout decodes a layout and checks that every edge refers to a
// node or a unit of the layout.
func UnmarshalLayout(data []byte) (*layout.Layout, error) {
	var l layout.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "unmarshal layout")
	}

	known := make(map[string]bool, 2*len(l.Nodes))
	for _, n := range l.Nodes {
		known[n.ID] = true
		known[n.Unit] = true
	}
	for _, e := range l.Edges {
		if !known[e.Source] || !known[e.Target] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "layout edge %s refers to an unknown node", e.ID)
		}
		if len(e.Points) < 2 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "layout edge %s has fewer than two points", e.ID)
		}
	}
	return &l, nil
}

// WriteLayoutFile writes a layout as JSON to path.
func WriteLayoutFile(l *layout.Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a layout written by [WriteLayoutFile].
func ReadLayoutFile(path string) (*layout.Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
