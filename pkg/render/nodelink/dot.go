package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/familytree/pkg/family"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the person ID and life span to node labels.
	// When false, only the name is shown.
	Detailed bool
}

// ToDOT converts a family tree to Graphviz DOT.
//
// Every spouse pair gets a small union point placed on the partners' rank
// (a rank=same subgraph). Children of both partners hang off that point;
// any other parent relation is drawn directly from parent to child.
func ToDOT(t *family.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, p := range t.Persons {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", p.ID, fmtLabel(p, opts.Detailed))
	}

	rels := t.UniqueRelations()
	unionOf := make(map[[2]string]string)
	buf.WriteString("\n")
	for _, r := range rels {
		if r.Type != family.RelationSpouse {
			continue
		}
		u := unionID(r.From, r.To)
		unionOf[[2]string{r.From, r.To}] = u
		unionOf[[2]string{r.To, r.From}] = u
		fmt.Fprintf(&buf, "  %q [shape=point, width=0.08, label=\"\"];\n", u)
		fmt.Fprintf(&buf, "  { rank=same; %q; %q; %q; }\n", r.From, u, r.To)
		fmt.Fprintf(&buf, "  %q -> %q [weight=10];\n", r.From, u)
		fmt.Fprintf(&buf, "  %q -> %q [weight=10];\n", u, r.To)
	}

	buf.WriteString("\n")
	done := make(map[[2]string]bool)
	for _, r := range rels {
		if r.Type != family.RelationParent || done[[2]string{r.From, r.To}] {
			continue
		}
		if u, other := union(t, unionOf, r); u != "" {
			done[[2]string{other, r.To}] = true
			fmt.Fprintf(&buf, "  %q -> %q;\n", u, r.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", r.From, r.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// union returns the union point of r's parent with another recorded parent
// of the same child, and that other parent.
func union(t *family.Tree, unionOf map[[2]string]string, r family.Relation) (string, string) {
	for _, other := range t.Parents(r.To) {
		if u, ok := unionOf[[2]string{r.From, other}]; ok {
			return u, other
		}
	}
	return "", ""
}

func unionID(a, b string) string {
	return "union:" + a + "+" + b
}

func fmtLabel(p family.Person, detailed bool) string {
	if !detailed {
		return p.DisplayName()
	}
	parts := []string{p.DisplayName(), p.ID}
	if s := p.Lifespan(); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel-sized one so the output scales like the native renderer's.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
