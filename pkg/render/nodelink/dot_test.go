package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/familytree/pkg/family"
)

func smiths() *family.Tree {
	return &family.Tree{
		Persons: []family.Person{
			{ID: "ann", Name: "Ann"}, {ID: "bob", Name: "Bob"},
			{ID: "carl", Name: "Carl"}, {ID: "dora"}, {ID: "eve"},
		},
		Relations: []family.Relation{
			{Type: family.RelationSpouse, From: "ann", To: "bob"},
			{Type: family.RelationParent, From: "ann", To: "carl"},
			{Type: family.RelationParent, From: "bob", To: "carl"},
			{Type: family.RelationParent, From: "bob", To: "dora"},
			{Type: family.RelationParent, From: "dora", To: "eve"},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(smiths(), Options{})
	for _, want := range []string{
		`"ann" [label="Ann"];`,
		`"dora" [label="dora"];`,
		`{ rank=same; "ann"; "union:ann+bob"; "bob"; }`,
		`"union:ann+bob" -> "carl";`,
		`"bob" -> "dora";`,
		`"dora" -> "eve";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"ann" -> "carl"`) || strings.Contains(dot, `"bob" -> "carl"`) {
		t.Errorf("child of a couple drawn from a single parent:\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	born := family.MustParseDate("1950")
	tr := &family.Tree{Persons: []family.Person{{ID: "carl", Name: "Carl", Birth: &born}}}
	dot := ToDOT(tr, Options{Detailed: true})
	if !strings.Contains(dot, `label="Carl\ncarl\nb. 1950"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	out, err := RenderSVG(context.Background(), ToDOT(smiths(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	s := string(out)
	if !strings.HasPrefix(strings.TrimSpace(s[strings.Index(s, "<svg"):]), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("root element not normalized:\n%.300s", s)
	}
	if !strings.Contains(s, "Carl") {
		t.Error("SVG missing node label")
	}
}

func TestRenderSVGInvalid(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("expected parse error")
	}
}
