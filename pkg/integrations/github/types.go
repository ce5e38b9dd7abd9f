package github

import "time"

// User represents a GitHub user.
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Email     string `json:"email"`
}

// Repo is the repository metadata used to render a search match.
type Repo struct {
	FullName    string     `json:"full_name"`
	Description string     `json:"description"`
	Fork        bool       `json:"fork"`
	Archived    bool       `json:"archived"`
	Private     bool       `json:"private"`
	Stars       int        `json:"stargazers_count"`
	PushedAt    *time.Time `json:"pushed_at"`
}

// OAuthConfig holds OAuth app configuration.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	// Scopes defaults to DefaultScopes when empty.
	Scopes string
}

// OAuthToken represents an OAuth access token response.
type OAuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}
