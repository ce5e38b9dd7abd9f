package httputil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	type pkg struct {
		Name         string   `json:"name"`
		Dependencies []string `json:"dependencies"`
	}

	want := pkg{Name: "react", Dependencies: []string{"loose-envify"}}
	if err := c.Set("npm:react", want); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	var got pkg
	ok, err := c.Get("npm:react", &got)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want true, nil", ok, err)
	}
	if got.Name != want.Name || len(got.Dependencies) != 1 {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestCache_Miss(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	var result string
	ok, err := c.Get("missing", &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Get() returned true for missing key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 10*time.Millisecond)

	if err := c.Set("key", "value"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	var res string
	if ok, err := c.Get("key", &res); err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want true, nil", ok, err)
	}

	time.Sleep(20 * time.Millisecond)

	ok, err := c.Get("key", &res)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("got error %v, want ErrExpired", err)
	}
	if ok {
		t.Error("Get() returned true for expired key")
	}
}

func TestCache_NoExpiry(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 0)
	if err := c.Set("key", "value"); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-24 * 365 * time.Hour)
	if err := os.Chtimes(c.keyPath("key"), old, old); err != nil {
		t.Fatal(err)
	}
	var res string
	if ok, err := c.Get("key", &res); !ok || err != nil {
		t.Errorf("Get() = %v, %v; TTL 0 should never expire", ok, err)
	}
}

func TestCache_Namespace(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	npm := c.Namespace("npm:")
	sg := c.Namespace("sourcegraph:")

	if err := npm.Set("react", "npm-data"); err != nil {
		t.Fatal(err)
	}
	if err := sg.Set("react", "sg-data"); err != nil {
		t.Fatal(err)
	}

	var a, b string
	if ok, _ := npm.Get("react", &a); !ok || a != "npm-data" {
		t.Errorf("npm.Get() = %q, %v", a, ok)
	}
	if ok, _ := sg.Get("react", &b); !ok || b != "sg-data" {
		t.Errorf("sg.Get() = %q, %v", b, ok)
	}

	chained := npm.Namespace("v1:")
	if err := chained.Set("x", "y"); err != nil {
		t.Fatal(err)
	}
	var r string
	if found, _ := npm.Get("x", &r); found {
		t.Error("value accessible without full namespace chain")
	}
	if found, _ := c.Get("npm:v1:x", &r); !found || r != "y" {
		t.Error("chained namespace should equal the concatenated prefix")
	}

	if npm.Dir() != c.Dir() || npm.TTL() != c.TTL() {
		t.Error("Namespace() should preserve Dir and TTL")
	}
}

func TestCache_Clear(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Namespace("npm:").Set(k, k); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() removed %d, want 3", n)
	}

	var v string
	if ok, _ := c.Namespace("npm:").Get("a", &v); ok {
		t.Error("entry survived Clear()")
	}
}

func TestCache_KeyStability(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	if c.keyPath("test") != c.keyPath("test") {
		t.Error("path should be deterministic")
	}
	if c.keyPath("test") == c.keyPath("other") {
		t.Error("different keys should produce different paths")
	}
}

func TestDefaultDir_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	got, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "stacknotes", "http")
	if got != want {
		t.Errorf("DefaultDir() = %q, want %q", got, want)
	}
}

func TestNewCache_DefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c, err := NewCache("", time.Hour)
	if err != nil {
		t.Fatalf("NewCache() failed: %v", err)
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}
