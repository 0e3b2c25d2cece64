package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCachePath(t *testing.T) {
	dir := isolate(t)

	out, _, err := run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "cache", appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}

	custom := filepath.Join(dir, "elsewhere")
	cfg := writeFile(t, dir, "config.toml", "[cache]\ndir = \""+custom+"\"\n")
	out, _, err = run(t, "--config", cfg, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != custom {
		t.Errorf("configured cache path = %q, want %q", out, custom)
	}
}

func TestCacheClear(t *testing.T) {
	dir := isolate(t)
	input := writeFile(t, dir, "smith.json", smithJSON)
	cacheDir := filepath.Join(dir, "cache", appName)

	if _, _, err := run(t, "cache", "clear"); err != nil {
		t.Fatalf("clear empty cache: %v", err)
	}

	if _, _, err := run(t, "render", input); err != nil {
		t.Fatal(err)
	}
	if n, err := countEntries(cacheDir); err != nil || n == 0 {
		t.Fatalf("render left %d cache entries (%v)", n, err)
	}

	if _, _, err := run(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if n, _ := countEntries(cacheDir); n != 0 {
		t.Errorf("%d entries left after clear", n)
	}
	if _, err := os.Stat(cacheDir); err != nil {
		t.Errorf("cache dir removed: %v", err)
	}

	cfg := writeFile(t, dir, "config.toml", "[cache]\nbackend = \"none\"\n")
	if _, _, err := run(t, "--config", cfg, "cache", "clear"); err == nil {
		t.Error("clear should refuse non-file backends")
	}
}

func TestCountEntriesMissingDir(t *testing.T) {
	n, err := countEntries(filepath.Join(t.TempDir(), "missing"))
	if err != nil || n != 0 {
		t.Errorf("countEntries = %d, %v", n, err)
	}
}
