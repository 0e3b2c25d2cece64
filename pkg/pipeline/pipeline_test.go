package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/layout"
	"github.com/matzehuels/familytree/pkg/observability"
)

func smith() *family.Tree {
	return &family.Tree{
		Name: "Smith",
		Persons: []family.Person{
			{ID: "ann", Name: "Ann", Gender: family.GenderFemale},
			{ID: "bob", Name: "Bob", Gender: family.GenderMale},
			{ID: "carl", Name: "Carl"},
		},
		Relations: []family.Relation{
			{Type: family.RelationSpouse, From: "ann", To: "bob"},
			{Type: family.RelationParent, From: "ann", To: "carl"},
			{Type: family.RelationParent, From: "bob", To: "carl"},
		},
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.VizType != DefaultVizType {
		t.Errorf("VizType = %q, want %q", opts.VizType, DefaultVizType)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style = %q, want %q", opts.Style, DefaultStyle)
	}
	if opts.Layout.NodeWidth != layout.DefaultNodeWidth {
		t.Errorf("NodeWidth = %v, want %v", opts.Layout.NodeWidth, layout.DefaultNodeWidth)
	}

	before := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if opts.Style != before.Style || opts.VizType != before.VizType || opts.Layout != before.Layout {
		t.Error("second call changed options")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"valid", Options{Formats: []string{"svg", "dot", "json"}, Style: "warm"}, ""},
		{"nodelink", Options{VizType: VizTypeNodelink}, ""},
		{"bad format", Options{Formats: []string{"png"}}, errors.ErrCodeInvalidFormat},
		{"case sensitive format", Options{Formats: []string{"SVG"}}, errors.ErrCodeInvalidFormat},
		{"bad viz type", Options{VizType: "tower"}, errors.ErrCodeInvalidFormat},
		{"bad style", Options{Style: "handdrawn"}, errors.ErrCodeInvalidStyle},
		{"bad layout", Options{Layout: layout.Options{NodeWidth: -1}}, errors.ErrCodeInvalidOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Style: "warm", Detailed: true}
	if k := opts.ArtifactKeyOpts(FormatSVG); k.Style != "warm" || k.Detailed {
		t.Errorf("svg key = %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatDOT); k.Style != "" || !k.Detailed {
		t.Errorf("dot key = %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatJSON); k.Style != "" || k.Detailed {
		t.Errorf("json key = %+v", k)
	}
	opts.VizType = VizTypeNodelink
	if k := opts.ArtifactKeyOpts(FormatSVG); k.Style != VizTypeNodelink || !k.Detailed {
		t.Errorf("nodelink svg key = %+v", k)
	}
}

func TestLayoutKeyOptsDefaults(t *testing.T) {
	a := (&Options{}).LayoutKeyOpts()
	b := (&Options{Layout: layout.Options{NodeWidth: layout.DefaultNodeWidth}}).LayoutKeyOpts()
	if a != b {
		t.Errorf("explicit default changed key options: %+v vs %+v", a, b)
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), smith(), Options{Formats: []string{"svg", "dot", "json"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.Persons != 3 || res.Stats.Relations != 3 || res.Stats.Generations != 2 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.TreeHash == "" {
		t.Error("missing tree hash")
	}
	if len(res.Layout.Nodes) != 3 {
		t.Errorf("layout has %d nodes, want 3", len(res.Layout.Nodes))
	}
	if svg := string(res.Artifacts["svg"]); !strings.HasPrefix(svg, "<svg") || !strings.Contains(svg, "<title>Smith</title>") {
		t.Errorf("svg artifact = %.80q", svg)
	}
	if dot := string(res.Artifacts["dot"]); !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("dot artifact = %.80q", dot)
	}
	var decoded layout.Layout
	if err := json.Unmarshal(res.Artifacts["json"], &decoded); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if decoded.Width != res.Layout.Width || len(decoded.Edges) != len(res.Layout.Edges) {
		t.Error("json artifact does not match layout")
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("null cache reported hits: %+v", res.CacheInfo)
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, err := r.Execute(ctx, nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nil tree: %v", err)
	}
	if _, err := r.Execute(ctx, smith(), Options{Formats: []string{"pdf"}}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format: %v", err)
	}

	bad := smith()
	bad.Relations = append(bad.Relations, family.Relation{Type: family.RelationParent, From: "ann", To: "nobody"})
	if _, err := r.Execute(ctx, bad, Options{}); !errors.Is(err, errors.ErrCodeInvalidTree) {
		t.Errorf("invalid tree: %v", err)
	}
}

func TestRunnerCaching(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()
	opts := Options{Formats: []string{"svg", "json"}}

	first, err := r.Execute(ctx, smith(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Fatalf("first run hit the cache: %+v", first.CacheInfo)
	}

	second, err := r.Execute(ctx, smith(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run missed the cache: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts["svg"], second.Artifacts["svg"]) {
		t.Error("cached svg differs")
	}
	if second.TreeHash != first.TreeHash {
		t.Error("tree hash changed between runs")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, smith(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh hit the cache: %+v", third.CacheInfo)
	}

	// Other geometry is another cache entry.
	changed := Options{Formats: opts.Formats, Layout: layout.Options{NodeWidth: 200}}
	fourth, err := r.Execute(ctx, smith(), changed)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheInfo.LayoutHit {
		t.Error("different geometry hit the cached layout")
	}

	// A new style reuses the layout but renders again.
	styled := Options{Formats: opts.Formats, Style: "warm"}
	fifth, err := r.Execute(ctx, smith(), styled)
	if err != nil {
		t.Fatal(err)
	}
	if !fifth.CacheInfo.LayoutHit || fifth.CacheInfo.RenderHit {
		t.Errorf("style change cache info = %+v", fifth.CacheInfo)
	}
}

func TestRunnerCorruptCacheEntry(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	opts := Options{}

	hash, err := cache.HashJSON(smith())
	if err != nil {
		t.Fatal(err)
	}
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())
	if err := c.Set(ctx, key, []byte("not json"), time.Hour); err != nil {
		t.Fatal(err)
	}

	l, hit, err := r.LayoutWithCacheInfo(ctx, smith(), opts)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if hit || len(l.Nodes) != 3 {
		t.Errorf("hit = %v, nodes = %d", hit, len(l.Nodes))
	}
	if _, hit, _ := r.LayoutWithCacheInfo(ctx, smith(), opts); !hit {
		t.Error("recomputed layout was not cached")
	}
}

func TestRenderNeedsLayout(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	if _, err := r.Render(ctx, smith(), nil, Options{Formats: []string{"svg"}}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("svg without layout: %v", err)
	}
	out, err := r.Render(ctx, smith(), nil, Options{Formats: []string{"dot"}, Detailed: true})
	if err != nil {
		t.Fatalf("dot without layout: %v", err)
	}
	if !strings.Contains(string(out["dot"]), "union:ann+bob") {
		t.Errorf("dot output lacks union point:\n%s", out["dot"])
	}
}

type recordingHooks struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, s)
}

func (h *recordingHooks) OnLayoutStart(context.Context, string, int) { h.record("layout-start") }
func (h *recordingHooks) OnLayoutComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	h.record("layout-done")
}
func (h *recordingHooks) OnRenderStart(context.Context, []string) { h.record("render-start") }
func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.record("render-done")
}
func (h *recordingHooks) OnCacheHit(_ context.Context, keyType string)  { h.record("hit:" + keyType) }
func (h *recordingHooks) OnCacheMiss(_ context.Context, keyType string) { h.record("miss:" + keyType) }
func (h *recordingHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.record("set:" + keyType)
}

func TestRunnerHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	t.Cleanup(observability.Reset)

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := r.Execute(ctx, smith(), Options{}); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{
		"miss:layout", "layout-start", "layout-done", "set:layout",
		"miss:artifact", "render-start", "render-done", "set:artifact",
		"hit:layout", "hit:artifact",
	}
	if strings.Join(h.events, " ") != strings.Join(want, " ") {
		t.Errorf("events:\n got %v\nwant %v", h.events, want)
	}
}
