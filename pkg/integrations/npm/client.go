package npm

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/stacknotes/pkg/integrations"
)

// DefaultBaseURL is the public npm registry.
const DefaultBaseURL = "https://registry.npmjs.org"

// PackageInfo is the latest published version of an npm package.
type PackageInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Dependencies []string `json:"dependencies"`
	Repository   string   `json:"repository"`
	HomePage     string   `json:"homepage"`
	Description  string   `json:"description"`
	License      string   `json:"license"`
	Keywords     []string `json:"keywords,omitempty"`
}

// Client fetches package metadata from an npm registry.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a registry client whose responses are cached for cacheTTL.
func NewClient(cacheTTL time.Duration) (*Client, error) {
	cache, err := integrations.NewCache(cacheTTL)
	if err != nil {
		return nil, err
	}
	return &Client{
		Client:  integrations.NewClient(cache.Namespace("npm:"), nil),
		baseURL: DefaultBaseURL,
	}, nil
}

// NewClientWith builds a Client around an existing integrations.Client and
// registry URL, for mirrors and tests.
func NewClientWith(c *integrations.Client, baseURL string) *Client {
	return &Client{Client: c, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// FetchPackage returns metadata for the latest version of pkg.
// If refresh is true, cached data is bypassed.
func (c *Client) FetchPackage(ctx context.Context, pkg string, refresh bool) (*PackageInfo, error) {
	pkg = integrations.NormalizePkgName(pkg)

	var info PackageInfo
	err := c.Cached(ctx, pkg, refresh, &info, func() error {
		return c.fetch(ctx, pkg, &info)
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) fetch(ctx context.Context, pkg string, info *PackageInfo) error {
	var data registryResponse
	// Scoped names keep their "@" but the slash must be encoded.
	if err := c.Get(ctx, c.baseURL+"/"+strings.Replace(pkg, "/", "%2f", 1), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: npm package %s", err, pkg)
		}
		return err
	}

	latest := data.DistTags.Latest
	v, ok := data.Versions[latest]
	if !ok {
		return fmt.Errorf("npm package %s: version %s not found", pkg, latest)
	}

	deps := slices.Sorted(maps.Keys(v.Dependencies))
	*info = PackageInfo{
		Name:         data.Name,
		Version:      latest,
		Description:  v.Description,
		License:      extractField(v.License, "type"),
		Repository:   integrations.NormalizeRepoURL(extractField(v.Repository, "url")),
		HomePage:     v.HomePage,
		Dependencies: deps,
		Keywords:     v.Keywords,
	}
	return nil
}

func extractField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}

type registryResponse struct {
	Name     string                    `json:"name"`
	DistTags distTags                  `json:"dist-tags"`
	Versions map[string]versionDetails `json:"versions"`
}

type distTags struct {
	Latest string `json:"latest"`
}

type versionDetails struct {
	Description  string            `json:"description"`
	License      any               `json:"license"`
	Repository   any               `json:"repository"`
	HomePage     string            `json:"homepage"`
	Keywords     []string          `json:"keywords"`
	Dependencies map[string]string `json:"dependencies"`
}
