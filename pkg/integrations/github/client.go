package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/stacknotes/pkg/integrations"
)

// Client provides access to the GitHub REST API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests.
func NewClient(token string, cacheTTL time.Duration) (*Client, error) {
	cache, err := integrations.NewCache(cacheTTL)
	if err != nil {
		return nil, err
	}
	return &Client{
		Client:  integrations.NewClient(cache.Namespace("github:"), apiHeaders(token)),
		baseURL: "https://api.github.com",
	}, nil
}

// NewUserClient creates an uncached client acting as the token's owner.
func NewUserClient(token string) *Client {
	return &Client{
		Client:  integrations.NewClient(nil, apiHeaders(token)),
		baseURL: "https://api.github.com",
	}
}

func apiHeaders(token string) map[string]string {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return headers
}

// FetchUser returns the authenticated user.
func (c *Client) FetchUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.Get(ctx, c.baseURL+"/user", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// FetchRepo returns repository metadata for owner/repo.
// If refresh is true, cached data is bypassed.
func (c *Client) FetchRepo(ctx context.Context, owner, repo string, refresh bool) (*Repo, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}

	var r Repo
	err := c.Cached(ctx, owner+"/"+repo, refresh, &r, func() error {
		url := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)
		if err := c.Get(ctx, url, &r); err != nil {
			if errors.Is(err, integrations.ErrNotFound) {
				return fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}
