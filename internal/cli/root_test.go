package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ftio "github.com/matzehuels/familytree/pkg/io"
)

const smithJSON = `{
  "name": "Smith",
  "persons": [
    {"id": "ann", "name": "Ann", "gender": "female", "birth": "1920"},
    {"id": "bob", "name": "Bob", "gender": "male"},
    {"id": "carl", "name": "Carl", "birth": "1950-03"},
    {"id": "dora", "name": "Dora", "birth": "1948"}
  ],
  "relations": [
    {"type": "spouse", "from": "ann", "to": "bob"},
    {"type": "parent", "from": "ann", "to": "carl"},
    {"type": "parent", "from": "bob", "to": "carl"},
    {"type": "parent", "from": "ann", "to": "dora"},
    {"type": "parent", "from": "bob", "to": "dora"}
  ]
}`

const smithGEDCOM = `0 HEAD
1 CHAR UTF-8
0 @I1@ INDI
1 NAME Ann /Smith/
1 SEX F
1 BIRT
2 DATE 1920
0 @I2@ INDI
1 NAME Bob /Smith/
1 SEX M
0 @I3@ INDI
1 NAME Carl /Smith/
0 @F1@ FAM
1 HUSB @I2@
1 WIFE @I1@
1 CHIL @I3@
0 TRLR
`

// isolate points every XDG directory at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("FAMILYTREE_REDIS_ADDR", "")
	t.Setenv("FAMILYTREE_MONGO_URI", "")
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the CLI with args and returns what commands wrote to the
// command output and the log.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var logs, out bytes.Buffer
	root := newRoot(New(&logs, LogInfo))
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), logs.String(), err
}

func TestRootCommandRegistersCommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	for _, name := range []string{"layout", "render", "import", "validate", "browse", "serve", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, appName+" ") {
		t.Errorf("version output = %q", out)
	}
}

func TestLayoutCommand(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "smith.json", smithJSON)

	if _, _, err := run(t, "layout", input); err != nil {
		t.Fatalf("layout: %v", err)
	}
	l, err := ftio.ReadLayoutFile(filepath.Join(dir, "smith.layout.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Nodes) != 4 || l.Generations != 2 {
		t.Errorf("layout: %d nodes, %d generations", len(l.Nodes), l.Generations)
	}

	custom := filepath.Join(dir, "wide.json")
	if _, _, err := run(t, "layout", input, "-o", custom, "--node-width", "300"); err != nil {
		t.Fatalf("layout -o: %v", err)
	}
	wide, err := ftio.ReadLayoutFile(custom)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := wide.Node("ann"); n.Width != 300 {
		t.Errorf("node width = %v, want 300", n.Width)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "smith.json", smithJSON)

	if _, _, err := run(t, "render", input, "-f", "svg,dot,json", "--style", "warm"); err != nil {
		t.Fatalf("render: %v", err)
	}
	for name, prefix := range map[string]string{
		"smith.svg":         "<svg",
		"smith.dot":         "digraph",
		"smith.layout.json": "{",
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if !strings.HasPrefix(string(data), prefix) {
			t.Errorf("%s starts %.20q", name, data)
		}
	}
	if data, _ := os.ReadFile(input); string(data) != smithJSON {
		t.Error("render overwrote the input tree")
	}

	out := filepath.Join(dir, "out", "tree.svg")
	if _, _, err := run(t, "render", input, "-o", out); err != nil {
		t.Fatalf("render -o: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("explicit output: %v", err)
	}

	if _, _, err := run(t, "render", input, "-f", "png"); err == nil {
		t.Error("png should be rejected")
	}
	if _, _, err := run(t, "render", input, "--style", "neon"); err == nil {
		t.Error("unknown style should be rejected")
	}
}

func TestImportCommand(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "smith.ged", smithGEDCOM)

	if _, _, err := run(t, "import", input); err != nil {
		t.Fatalf("import: %v", err)
	}
	tree, err := ftio.ImportTree(filepath.Join(dir, "smith.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Persons) != 3 || len(tree.Relations) != 3 {
		t.Errorf("imported %d persons, %d relations", len(tree.Persons), len(tree.Relations))
	}

	if _, _, err := run(t, "import", input, "-o", filepath.Join(dir, "smith.yaml")); err != nil {
		t.Fatalf("import to yaml: %v", err)
	}
	if _, _, err := run(t, "import", input, "-o", filepath.Join(dir, "smith.ged")); err == nil {
		t.Error("writing GEDCOM should fail")
	}
	json := writeFile(t, dir, "copy.json", smithJSON)
	if _, _, err := run(t, "import", json); err == nil {
		t.Error("import onto itself should fail")
	}
}

func TestValidateCommand(t *testing.T) {
	dir := isolate(t)

	if _, _, err := run(t, "validate", writeFile(t, dir, "ok.json", smithJSON)); err != nil {
		t.Errorf("valid tree: %v", err)
	}
	bad := writeFile(t, dir, "bad.json", `{"persons":[{"id":"a"}],"relations":[{"type":"parent","from":"a","to":"b"}]}`)
	if _, _, err := run(t, "validate", bad); err == nil {
		t.Error("dangling relation should fail")
	}
	if _, _, err := run(t, "validate", filepath.Join(dir, "tree.csv")); err == nil {
		t.Error("unknown extension should fail")
	}
}

func TestConfigFlag(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "smith.json", smithJSON)

	cfg := writeFile(t, dir, "config.toml", "[layout]\nnode_width = 222\n[cache]\nbackend = \"none\"\n")
	if _, _, err := run(t, "--config", cfg, "layout", input); err != nil {
		t.Fatalf("layout: %v", err)
	}
	l, err := ftio.ReadLayoutFile(filepath.Join(dir, "smith.layout.json"))
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := l.Node("ann"); n.Width != 222 {
		t.Errorf("node width = %v, want 222 from config", n.Width)
	}

	bad := writeFile(t, dir, "bad.toml", "[server]\nport = 80\n")
	if _, _, err := run(t, "--config", bad, "validate", input); err == nil {
		t.Error("unknown config key should fail")
	}
}

func TestVerboseFlag(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "smith.json", smithJSON)

	_, logs, err := run(t, "-v", "layout", input)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs, "loaded config") {
		t.Errorf("debug log missing with -v: %q", logs)
	}
}
