package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/stacknotes/pkg/httputil"
)

// DefaultScopes lets Sourcegraph list and clone the user's repositories.
const DefaultScopes = "read:user user:email repo"

const (
	authorizeURL = "https://github.com/login/oauth/authorize"
	tokenURL     = "https://github.com/login/oauth/access_token"
)

// OAuthClient handles the GitHub OAuth web flow.
type OAuthClient struct {
	config       OAuthConfig
	httpClient   *http.Client
	authorizeURL string
	tokenURL     string
}

// NewOAuthClient creates a new OAuth client.
func NewOAuthClient(config OAuthConfig) *OAuthClient {
	if config.Scopes == "" {
		config.Scopes = DefaultScopes
	}
	return &OAuthClient{
		config:       config,
		httpClient:   httputil.NewClient(30 * time.Second),
		authorizeURL: authorizeURL,
		tokenURL:     tokenURL,
	}
}

// AuthorizationURL returns the GitHub OAuth authorization URL.
func (c *OAuthClient) AuthorizationURL(state string) string {
	params := url.Values{
		"client_id": {c.config.ClientID},
		"scope":     {c.config.Scopes},
		"state":     {state},
	}
	if c.config.RedirectURI != "" {
		params.Set("redirect_uri", c.config.RedirectURI)
	}
	return c.authorizeURL + "?" + params.Encode()
}

// ExchangeCode exchanges an authorization code for an access token.
func (c *OAuthClient) ExchangeCode(ctx context.Context, code string) (*OAuthToken, error) {
	data := url.Values{
		"client_id":     {c.config.ClientID},
		"client_secret": {c.config.ClientSecret},
		"code":          {code},
		"redirect_uri":  {c.config.RedirectURI},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		OAuthToken
		Error     string `json:"error"`
		ErrorDesc string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%s: %s", result.Error, result.ErrorDesc)
	}

	token := result.OAuthToken
	return &token, nil
}
