// Package pipeline runs the layout → render pipeline for familytree.
//
// The CLI and the HTTP server both go through a [Runner], so caching,
// logging and observability hooks behave the same on every entry point.
//
// # Stages
//
//  1. Layout: collapse spouses, rank generations and place every person
//     ([layout.Compute])
//  2. Render: produce artifacts from the layout (SVG, DOT, JSON)
//
// Each stage is cached by the content hash of its input plus every option
// that changes its output.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, tree, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	    Style:   "warm",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run a single stage:
//
//	l, err := runner.Layout(ctx, tree, opts)
//	artifacts, err := runner.Render(ctx, tree, l, opts)
package pipeline

import (
	"time"

	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/render/svg"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Output formats.
const (
	FormatSVG  = "svg"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// Visualization types.
const (
	// VizTypeLayered draws the computed layout natively.
	VizTypeLayered = "layered"
	// VizTypeNodelink hands the tree to Graphviz.
	VizTypeNodelink = "nodelink"
)

// Defaults applied by ValidateAndSetDefaults.
const (
	DefaultStyle   = "simple"
	DefaultVizType = VizTypeLayered
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatSVG, FormatDOT, FormatJSON}

// ValidVizTypes lists the supported visualization types.
var ValidVizTypes = []string{VizTypeLayered, VizTypeNodelink}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It decodes from API request bodies.
type Options struct {
	// Layout geometry and effort. Zero fields take layout defaults.
	Layout layout.Options `json:"layout"`

	// Render options
	VizType  string   `json:"viz_type,omitempty"`
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // ID and life span in Graphviz labels

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`
}

// Result holds the outputs of a pipeline run.
type Result struct {
	// TreeHash is the content hash of the input tree.
	TreeHash string

	Layout *layout.Layout

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds pipeline timing and size information.
type Stats struct {
	Persons     int
	Relations   int
	Generations int
	Crossings   int
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // every requested artifact came from the cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults fills empty fields and validates the result.
// Calling it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	o.Layout = o.Layout.WithDefaults()
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	return o.validateRender()
}

func (o *Options) validateRender() error {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if err := errors.ValidateFormat(o.VizType, ValidVizTypes...); err != nil {
		return err
	}
	for _, f := range o.Formats {
		if err := errors.ValidateFormat(f, ValidFormats...); err != nil {
			return err
		}
	}
	_, err := svg.StyleByName(o.Style)
	return err
}

// IsNodelink reports whether SVG output goes through Graphviz.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizTypeNodelink
}

// LayoutKeyOpts returns the cache key options of the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	l := o.Layout.WithDefaults()
	return cache.LayoutKeyOpts{
		NodeWidth:  l.NodeWidth,
		NodeHeight: l.NodeHeight,
		SpouseGap:  l.SpouseGap,
		SiblingGap: l.SiblingGap,
		DummyGap:   l.DummyGap,
		RankSep:    l.RankSep,
		Margin:     l.Margin,
		Passes:     l.Passes,
		Iterations: l.Iterations,
	}
}

// ArtifactKeyOpts returns the cache key options of one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.Style = o.Style
		if o.IsNodelink() {
			k.Style = VizTypeNodelink
			k.Detailed = o.Detailed
		}
	case FormatDOT:
		k.Detailed = o.Detailed
	}
	return k
}
