package svg

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/render"
)

// Option configures RenderSVG.
type Option func(*renderer)

type renderer struct {
	style Style
	title string
}

func WithStyle(s Style) Option      { return func(r *renderer) { r.style = s } }
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }

// RenderSVG draws l. Lines are drawn first so boxes cover their ends.
func RenderSVG(l *layout.Layout, opts ...Option) []byte {
	r := renderer{style: Simple{}}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", render.EscapeXML(r.title))
	}
	r.style.RenderDefs(&buf)

	for _, e := range l.Edges {
		r.style.RenderLine(&buf, Line{ID: e.ID, Spouse: e.Kind == layout.EdgeSpouse, Points: points(e.Points)})
	}
	boxes := make([]Box, len(l.Nodes))
	for i, n := range l.Nodes {
		c := n.Center()
		boxes[i] = Box{
			ID: n.ID, Label: n.Label, Detail: n.Detail, Gender: n.Gender,
			X: n.X, Y: n.Y, W: n.Width, H: n.Height,
			CX: c.X, CY: c.Y,
		}
		r.style.RenderBox(&buf, boxes[i])
	}
	for _, b := range boxes {
		r.style.RenderText(&buf, b)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func points(pts []layout.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}
