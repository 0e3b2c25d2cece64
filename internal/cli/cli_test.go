package cli

import (
	"reflect"
	"testing"

	"github.com/matzehuels/familytree/pkg/layout"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,dot,json", []string{"svg", "dot", "json"}},
		{" svg , dot ,", []string{"svg", "dot"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "trees/smith.json", "trees/smith"},
		{"", "smith.ged", "smith"},
		{"out/smith.svg", "smith.json", "out/smith"},
		{"out/smith.dot", "smith.json", "out/smith"},
		{"out/smith", "smith.json", "out/smith"},
		{"out/smith.v2", "smith.json", "out/smith.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		want    map[string]string
	}{
		{"derived", "", []string{"svg", "json"}, map[string]string{"svg": "smith.svg", "json": "smith.layout.json"}},
		{"single explicit", "pic.svg", []string{"svg"}, map[string]string{"svg": "pic.svg"}},
		{"base path", "out/pic", []string{"svg", "dot"}, map[string]string{"svg": "out/pic.svg", "dot": "out/pic.dot"}},
		{"explicit with several formats", "pic.svg", []string{"svg", "dot"}, map[string]string{"svg": "pic.svg", "dot": "pic.dot"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPaths(tt.output, "smith.json", tt.formats); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeLayout(t *testing.T) {
	base := layout.Options{NodeWidth: 180, RankSep: 120, Passes: 4}
	got := mergeLayout(base, layout.Options{NodeWidth: 200, Iterations: 3})
	want := layout.Options{NodeWidth: 200, RankSep: 120, Passes: 4, Iterations: 3}
	if got != want {
		t.Errorf("mergeLayout = %+v, want %+v", got, want)
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 persons"},
		{1, "1 person"},
		{12, "12 persons"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, "person"); got != tt.want {
			t.Errorf("plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
