//go:build integration

package npm

import (
	"context"
	"testing"
	"time"
)

func TestFetchPackageLive(t *testing.T) {
	client, err := NewClient(time.Hour)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, name := range []string{"react", "redux", "@reduxjs/toolkit"} {
		t.Run(name, func(t *testing.T) {
			pkg, err := client.FetchPackage(ctx, name, true)
			if err != nil {
				t.Fatalf("FetchPackage(%q) error: %v", name, err)
			}
			if pkg.Version == "" {
				t.Error("package version should not be empty")
			}
		})
	}

	if _, err := client.FetchPackage(ctx, "this-package-should-not-exist-12345", true); err == nil {
		t.Error("expected an error for a nonexistent package")
	}
}
