package io

import (
	"bytes"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"strings"
	"testing"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/layout"
)

func TestImportTreeFormatsAgree(t *testing.T) {
	want, err := ImportTree(filepath.Join("testdata", "smith.json"))
	if err != nil {
		t.Fatalf("ImportTree(json): %v", err)
	}
	if len(want.Persons) != 4 || len(want.Relations) != 5 {
		t.Fatalf("json tree has %d persons, %d relations", len(want.Persons), len(want.Relations))
	}
	if got := want.Persons[0].Birth.String(); got != "1921-04-02" {
		t.Errorf("ann birth = %s", got)
	}
	for _, name := range []string{"smith.toml", "smith.yaml"} {
		got, err := ImportTree(filepath.Join("testdata", name))
		if err != nil {
			t.Fatalf("ImportTree(%s): %v", name, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s differs from json:\n got %+v\nwant %+v", name, got, want)
		}
	}
}

func TestWriteTreeRoundTrip(t *testing.T) {
	src, err := ImportTree(filepath.Join("testdata", "smith.json"))
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range []Format{FormatJSON, FormatTOML, FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteTree(src, &buf, f); err != nil {
				t.Fatalf("WriteTree: %v", err)
			}
			got, err := ReadTree(&buf, f)
			if err != nil {
				t.Fatalf("ReadTree: %v\n%s", err, buf.String())
			}
			if !reflect.DeepEqual(got, src) {
				t.Errorf("round trip changed tree:\n got %+v\nwant %+v", got, src)
			}
		})
	}
}

func TestExportTree(t *testing.T) {
	tr := &family.Tree{Name: "x", Persons: []family.Person{{ID: "a"}}}
	path := filepath.Join(t.TempDir(), "tree.yml")
	if err := ExportTree(tr, path); err != nil {
		t.Fatalf("ExportTree: %v", err)
	}
	got, err := ImportTree(path)
	if err != nil {
		t.Fatalf("ImportTree: %v", err)
	}
	if got.Name != "x" || len(got.Persons) != 1 {
		t.Errorf("got %+v", got)
	}
	if err := ExportTree(tr, filepath.Join(t.TempDir(), "tree.ged")); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ExportTree(.ged) = %v, want UNSUPPORTED", err)
	}
}

func TestReadTreeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		code   errors.Code
	}{
		{"malformed json", FormatJSON, `{"persons": [`, errors.ErrCodeInvalidInput},
		{"unknown json field", FormatJSON, `{"persons": [{"id": "a", "nmae": "A"}]}`, errors.ErrCodeInvalidInput},
		{"unknown toml key", FormatTOML, "[[persons]]\nid = \"a\"\nnmae = \"A\"\n", errors.ErrCodeInvalidInput},
		{"unknown yaml field", FormatYAML, "persons:\n  - id: a\n    nmae: A\n", errors.ErrCodeInvalidInput},
		{"bad date", FormatYAML, "persons:\n  - id: a\n    birth: soon\n", errors.ErrCodeInvalidInput},
		{"dangling relation", FormatJSON, `{"persons": [{"id": "a"}], "relations": [{"type": "parent", "from": "a", "to": "b"}]}`, errors.ErrCodeInvalidTree},
		{"unknown format", Format("xml"), `<tree/>`, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTree(strings.NewReader(tt.input), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadTree() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestReadTreeEmptyDates(t *testing.T) {
	tests := []struct {
		format Format
		input  string
	}{
		{FormatJSON, `{"persons": [{"id": "a", "birth": "", "death": 0}]}`},
		{FormatTOML, "[[persons]]\nid = \"a\"\nbirth = \"\"\ndeath = 0\n"},
		{FormatYAML, "persons:\n  - id: a\n    birth: \"\"\n    death: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			tr, err := ReadTree(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("ReadTree: %v", err)
			}
			if p := tr.Persons[0]; p.Birth != nil || p.Death != nil {
				t.Errorf("birth %v, death %v, want both nil", p.Birth, p.Death)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"a.json":     FormatJSON,
		"dir/b.TOML": FormatTOML,
		"c.yml":      FormatYAML,
		"d.yaml":     FormatYAML,
		"export.GED": FormatGEDCOM,
	}
	for path, want := range tests {
		if got, err := FormatFromPath(path); err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
	if _, err := FormatFromPath("tree.txt"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("FormatFromPath(txt) = %v", err)
	}
	if f, err := ParseFormat("YML"); err != nil || f != FormatYAML {
		t.Errorf("ParseFormat(YML) = %q, %v", f, err)
	}
}

func TestReadGEDCOM(t *testing.T) {
	tr, err := ImportTree(filepath.Join("testdata", "smith.ged"))
	if err != nil {
		t.Fatalf("ImportTree: %v", err)
	}
	if tr.Name != "smith" {
		t.Errorf("name = %q", tr.Name)
	}
	ann, ok := tr.Person("I1")
	if !ok {
		t.Fatal("I1 missing")
	}
	if ann.Name != "Ann Smith" || ann.Gender != family.GenderFemale {
		t.Errorf("I1 = %+v", ann)
	}
	if ann.Birth.String() != "1921-04-02" || ann.Death.String() != "1999" {
		t.Errorf("I1 dates = %v %v", ann.Birth, ann.Death)
	}
	if bob, _ := tr.Person("I2"); bob.Birth.String() != "1919" || bob.Gender != family.GenderMale {
		t.Errorf("I2 = %+v", bob)
	}
	if carl, _ := tr.Person("I3"); carl.Birth.String() != "1950-03" {
		t.Errorf("I3 birth = %v", carl.Birth)
	}
	if dora, _ := tr.Person("I4"); dora.Note != "emigrated 1972" {
		t.Errorf("I4 note = %q", dora.Note)
	}

	want := []family.Relation{
		{Type: family.RelationSpouse, From: "I2", To: "I1"},
		{Type: family.RelationParent, From: "I2", To: "I3"},
		{Type: family.RelationParent, From: "I1", To: "I3"},
		{Type: family.RelationParent, From: "I2", To: "I4"},
		{Type: family.RelationParent, From: "I1", To: "I4"},
	}
	if !reflect.DeepEqual(tr.Relations, want) {
		t.Errorf("relations = %+v", tr.Relations)
	}
}

func TestReadGEDCOMMalformed(t *testing.T) {
	_, err := ReadGEDCOM(strings.NewReader("0 HEAD\nx INDI\n"))
	if !errors.Is(err, errors.ErrCodeInvalidInput) || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("ReadGEDCOM() error = %v", err)
	}
}

func TestParseGEDDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12 MAR 1950", "1950-03-12", true},
		{"MAR 1950", "1950-03", true},
		{"ABT 1919", "1919", true},
		{"BET 1900 AND 1905", "1900", true},
		{"unknown", "", false},
	}
	for _, tt := range tests {
		d, ok := parseGEDDate(tt.in)
		if ok != tt.ok || (ok && d.String() != tt.want) {
			t.Errorf("parseGEDDate(%q) = %v, %v; want %s, %v", tt.in, d, ok, tt.want, tt.ok)
		}
	}
}

func TestLayoutFile(t *testing.T) {
	tr, err := ImportTree(filepath.Join("testdata", "smith.json"))
	if err != nil {
		t.Fatal(err)
	}
	l, err := layout.Compute(tr, layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if !reflect.DeepEqual(got, l) {
		t.Error("layout changed on disk")
	}

	bad := []byte(`{"nodes": [{"id": "a", "unit": "a"}], "edges": [{"id": "e", "kind": "parent", "source": "a", "target": "zed", "points": [{"x":0,"y":0},{"x":1,"y":1}]}]}`)
	if _, err := UnmarshalLayout(bad); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("UnmarshalLayout(dangling edge) = %v", err)
	}
}

func TestExampleTrees(t *testing.T) {
	bach, err := ImportTree(filepath.Join("..", "..", "examples", "trees", "bach.json"))
	if err != nil {
		t.Fatal(err)
	}
	l, err := layout.Compute(bach, layout.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Nodes) != 10 || l.Generations != 3 || len(l.Warnings) != 0 {
		t.Fatalf("bach: %d nodes, %d generations, warnings %v", len(l.Nodes), l.Generations, l.Warnings)
	}

	row := l.Generation(1)
	sort.Slice(row, func(i, j int) bool { return row[i].X < row[j].X })
	var ids []string
	for _, n := range row {
		ids = append(ids, n.ID)
	}
	i := slices.Index(ids, "sebastian")
	if i < 1 || i > len(ids)-2 {
		t.Fatalf("sebastian not between his wives: %v", ids)
	}
	if wives := []string{ids[i-1], ids[i+1]}; !slices.Contains(wives, "barbara") || !slices.Contains(wives, "magdalena") {
		t.Errorf("sebastian's neighbours = %v", wives)
	}

	x := func(id string) float64 {
		n, _ := l.Node(id)
		return n.X
	}
	if x("friedemann") > x("emanuel") || x("friedrich") > x("christian") {
		t.Error("half-siblings not in birth order")
	}

	if _, err := ImportTree(filepath.Join("..", "..", "examples", "trees", "smith.ged")); err != nil {
		t.Errorf("smith.ged: %v", err)
	}
}
