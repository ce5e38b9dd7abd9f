package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCachePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", home)
	buf := captureOutput(t)

	if err := runCommand(t, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(home, "stacknotes", "http")
	if got := strings.TrimSpace(buf.String()); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClear(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", home)
	dir := filepath.Join(home, "stacknotes", "http")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.json", "b.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	buf := captureOutput(t)

	if err := runCommand(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Cleared 2 cached entries") {
		t.Errorf("output = %q", buf.String())
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache still has %d entries", len(entries))
	}
}
