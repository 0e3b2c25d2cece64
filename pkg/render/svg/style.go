package svg

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/render"
)

// Style defines the visual appearance of a rendered tree.
type Style interface {
	// Name is the identifier used on the command line and in the API.
	Name() string
	// RenderDefs writes SVG <defs> content (gradients, CSS).
	RenderDefs(buf *bytes.Buffer)
	// RenderBox writes the shape of one person box.
	RenderBox(buf *bytes.Buffer, b Box)
	// RenderLine writes one spouse or parent line.
	RenderLine(buf *bytes.Buffer, l Line)
	// RenderText writes the name and life span of a person.
	RenderText(buf *bytes.Buffer, b Box)
}

// Box contains what a style needs to draw one person.
type Box struct {
	ID         string
	Label      string
	Detail     string
	Gender     family.Gender
	X, Y, W, H float64
	CX, CY     float64
}

// Line is a polyline between two persons or from a couple to a child.
type Line struct {
	ID     string
	Spouse bool
	Points string // SVG points attribute, "x1,y1 x2,y2 ..."
}

// Styles lists the available style names.
var Styles = []string{"simple", "warm"}

// StyleByName returns the style registered under name.
func StyleByName(name string) (Style, error) {
	switch strings.ToLower(name) {
	case "", "simple":
		return Simple{}, nil
	case "warm":
		return Warm{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want one of %s)", name, strings.Join(Styles, ", "))
}

const (
	labelSize  = 14.0
	detailSize = 11.0
)

func writeText(buf *bytes.Buffer, b Box, font, color string) {
	label := render.EscapeXML(render.TruncateLabel(b.Label, b.W, labelSize))
	if b.Detail == "" {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family="%s" font-size="%.0f" fill="%s">%s</text>`+"\n",
			b.CX, b.CY, font, labelSize, color, label)
		return
	}
	detail := render.EscapeXML(render.TruncateLabel(b.Detail, b.W, detailSize))
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family="%s" font-size="%.0f" fill="%s">%s</text>`+"\n",
		b.CX, b.CY-8, font, labelSize, color, label)
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family="%s" font-size="%.0f" fill="%s" opacity="0.7">%s</text>`+"\n",
		b.CX, b.CY+11, font, detailSize, color, detail)
}

// Simple is a plain black on white style.
type Simple struct{}

func (Simple) Name() string { return "simple" }

func (Simple) RenderDefs(buf *bytes.Buffer) {}

func (Simple) RenderBox(buf *bytes.Buffer, b Box) {
	fmt.Fprintf(buf, `  <rect id="person-%s" class="person" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="white" stroke="#333" stroke-width="1.5"/>`+"\n",
		render.EscapeXML(b.ID), b.X, b.Y, b.W, b.H)
}

func (Simple) RenderLine(buf *bytes.Buffer, l Line) {
	dash := ""
	if l.Spouse {
		dash = ` stroke-dasharray="4 3"`
	}
	fmt.Fprintf(buf, `  <polyline id="%s" class="line" points="%s" fill="none" stroke="#333" stroke-width="1.5"%s/>`+"\n",
		render.EscapeXML(l.ID), l.Points, dash)
}

func (Simple) RenderText(buf *bytes.Buffer, b Box) {
	writeText(buf, b, "Helvetica, Arial, sans-serif", "#111")
}

// Warm tints boxes by gender on a parchment background.
type Warm struct{}

func (Warm) Name() string { return "warm" }

func (Warm) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <linearGradient id="paper" x1="0" y1="0" x2="0" y2="1">
      <stop offset="0" stop-color="#fdf6e3"/>
      <stop offset="1" stop-color="#f3e5c0"/>
    </linearGradient>
  </defs>
  <rect width="100%" height="100%" fill="url(#paper)"/>
`)
}

var warmFill = map[family.Gender]string{
	family.GenderFemale: "#f6d5cf",
	family.GenderMale:   "#cfdff0",
	family.GenderOther:  "#dcefd2",
}

func (Warm) RenderBox(buf *bytes.Buffer, b Box) {
	fill, ok := warmFill[b.Gender]
	if !ok {
		fill = "#efe8da"
	}
	fmt.Fprintf(buf, `  <rect id="person-%s" class="person" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="10" fill="%s" stroke="#8b5e3c" stroke-width="2"/>`+"\n",
		render.EscapeXML(b.ID), b.X, b.Y, b.W, b.H, fill)
}

func (Warm) RenderLine(buf *bytes.Buffer, l Line) {
	width := 2.0
	if l.Spouse {
		width = 3
	}
	fmt.Fprintf(buf, `  <polyline id="%s" class="line" points="%s" fill="none" stroke="#8b5e3c" stroke-width="%.0f" stroke-linejoin="round"/>`+"\n",
		render.EscapeXML(l.ID), l.Points, width)
}

func (Warm) RenderText(buf *bytes.Buffer, b Box) {
	writeText(buf, b, "Georgia, serif", "#4a3222")
}
