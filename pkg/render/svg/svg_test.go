package svg

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/layout"
)

func sampleLayout(t *testing.T) *layout.Layout {
	t.Helper()
	born := family.MustParseDate("1950")
	tree := &family.Tree{
		Persons: []family.Person{
			{ID: "ann", Name: "Ann & Co", Gender: family.GenderFemale},
			{ID: "bob", Name: "Bob", Gender: family.GenderMale},
			{ID: "carl", Name: "Carl", Birth: &born},
		},
		Relations: []family.Relation{
			{Type: family.RelationSpouse, From: "ann", To: "bob"},
			{Type: family.RelationParent, From: "ann", To: "carl"},
			{Type: family.RelationParent, From: "bob", To: "carl"},
		},
	}
	l, err := layout.Compute(tree, layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestRenderSVGWellFormed(t *testing.T) {
	for _, name := range Styles {
		t.Run(name, func(t *testing.T) {
			style, err := StyleByName(name)
			if err != nil {
				t.Fatal(err)
			}
			out := RenderSVG(sampleLayout(t), WithStyle(style), WithTitle("Smith <family>"))

			dec := xml.NewDecoder(strings.NewReader(string(out)))
			for {
				_, err := dec.Token()
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("invalid XML: %v\n%s", err, out)
				}
			}

			s := string(out)
			if got := strings.Count(s, `class="person"`); got != 3 {
				t.Errorf("person boxes = %d, want 3", got)
			}
			if got := strings.Count(s, "<polyline"); got != 2 {
				t.Errorf("lines = %d, want 2", got)
			}
			for _, want := range []string{`id="person-carl"`, "Ann &amp; Co", "b. 1950", "<title>Smith &lt;family&gt;</title>"} {
				if !strings.Contains(s, want) {
					t.Errorf("output missing %q", want)
				}
			}
		})
	}
}

func TestRenderSVGSize(t *testing.T) {
	l := &layout.Layout{Width: 80, Height: 80}
	out := string(RenderSVG(l))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 80.0 80.0" width="80" height="80">`) {
		t.Errorf("header = %q", strings.SplitN(out, "\n", 2)[0])
	}
}

func TestWarmTintsByGender(t *testing.T) {
	out := string(RenderSVG(sampleLayout(t), WithStyle(Warm{})))
	for _, fill := range []string{warmFill[family.GenderFemale], warmFill[family.GenderMale], "#efe8da"} {
		if !strings.Contains(out, `fill="`+fill+`"`) {
			t.Errorf("missing fill %s", fill)
		}
	}
}

func TestStyleByName(t *testing.T) {
	if s, err := StyleByName("WARM"); err != nil || s.Name() != "warm" {
		t.Errorf("StyleByName(WARM) = %v, %v", s, err)
	}
	if s, err := StyleByName(""); err != nil || s.Name() != "simple" {
		t.Errorf("StyleByName(\"\") = %v, %v", s, err)
	}
	if _, err := StyleByName("handdrawn"); !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("StyleByName(handdrawn) = %v", err)
	}
}
