package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/io"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/render/nodelink"
	"github.com/matzehuels/familytree/pkg/render/svg"
)

// RenderArtifacts renders every requested format without caching. The
// tree is needed for DOT and Graphviz output, the layout for everything
// else.
func RenderArtifacts(ctx context.Context, t *family.Tree, l *layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, t, l, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, t *family.Tree, l *layout.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		if opts.IsNodelink() {
			return nodelink.RenderSVG(ctx, toDOT(t, opts))
		}
		if l == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "svg output needs a layout")
		}
		style, err := svg.StyleByName(opts.Style)
		if err != nil {
			return nil, err
		}
		return svg.RenderSVG(l, svg.WithStyle(style), svg.WithTitle(t.Name)), nil
	case FormatDOT:
		return []byte(toDOT(t, opts)), nil
	case FormatJSON:
		if l == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "json output needs a layout")
		}
		return io.MarshalLayout(l)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "format %q", format)
}

func toDOT(t *family.Tree, opts Options) string {
	return nodelink.ToDOT(t, nodelink.Options{Detailed: opts.Detailed})
}
