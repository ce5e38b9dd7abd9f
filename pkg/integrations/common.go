package integrations

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/stacknotes/pkg/httputil"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a package or resource doesn't exist upstream.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized is returned for 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited is returned for 429 responses once retries are exhausted.
	ErrRateLimited = errors.New("rate limited")
)

// NewCache creates a file-based cache with the given TTL in the default cache directory.
func NewCache(ttl time.Duration) (*httputil.Cache, error) {
	return httputil.NewCache("", ttl)
}

// NormalizePkgName trims and lowercases a package name.
func NormalizePkgName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
	"github:", "https://github.com/",
)

// NormalizeRepoURL converts repository URLs (git@, git://, git+ prefixes,
// .git suffix) to canonical HTTPS form. Empty input stays empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	return strings.TrimSuffix(s, ".git")
}

// URLEncode percent-encodes a path segment, keeping npm scope slashes encoded.
func URLEncode(s string) string { return url.PathEscape(s) }
