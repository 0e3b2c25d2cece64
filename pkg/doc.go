// Package pkg holds the familytree libraries.
//
// # Overview
//
// Familytree draws family trees the way people expect to read them: one
// row per generation, partners side by side, children in birth order under
// their parents. The pkg directory is organized as:
//
//  1. [family] - Data model (persons, relations, dates, sharing roles)
//  2. [dag] and [layout] - Layered graph and the layout engine
//  3. [render] - SVG and Graphviz output
//  4. [io] - Tree files (JSON, TOML, YAML, GEDCOM) and layout files
//  5. [pipeline] - Orchestration (layout → render) through a [cache]
//  6. [store] - Shared trees in memory, on disk or in MongoDB
//  7. [config], [errors], [httputil], [observability], [buildinfo] - Ambient plumbing
//
// # Architecture
//
// The typical data flow:
//
//	tree file / HTTP body / store
//	         ↓
//	    [family] package (validate)
//	         ↓
//	    [layout] package (spouse units → layered [dag] → positions)
//	         ↓
//	    [render] packages
//	         ↓
//	    SVG / DOT / layout JSON
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/familytree/pkg/io"
//	    "github.com/matzehuels/familytree/pkg/layout"
//	    "github.com/matzehuels/familytree/pkg/render/svg"
//	)
//
//	t, err := io.ImportTree("smith.json")
//	if err != nil {
//	    return err
//	}
//	l, err := layout.Compute(t, layout.Options{})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("smith.svg", svg.RenderSVG(l), 0o644)
//
// [family]: github.com/matzehuels/familytree/pkg/family
// [dag]: github.com/matzehuels/familytree/pkg/dag
// [layout]: github.com/matzehuels/familytree/pkg/layout
// [render]: github.com/matzehuels/familytree/pkg/render
// [io]: github.com/matzehuels/familytree/pkg/io
// [pipeline]: github.com/matzehuels/familytree/pkg/pipeline
// [cache]: github.com/matzehuels/familytree/pkg/cache
// [store]: github.com/matzehuels/familytree/pkg/store
// [config]: github.com/matzehuels/familytree/pkg/config
// [errors]: github.com/matzehuels/familytree/pkg/errors
// [httputil]: github.com/matzehuels/familytree/pkg/httputil
// [observability]: github.com/matzehuels/familytree/pkg/observability
// [buildinfo]: github.com/matzehuels/familytree/pkg/buildinfo
package pkg
