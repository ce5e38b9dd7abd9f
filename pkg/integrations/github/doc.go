// Package github provides the GitHub pieces stacknotes needs: the OAuth web
// flow used by the "link GitHub" call to action, the authenticated user
// lookup, and repository metadata for search result rendering.
//
// # OAuth
//
//	oauth := github.NewOAuthClient(github.OAuthConfig{
//	    ClientID:    os.Getenv("GITHUB_CLIENT_ID"),
//	    RedirectURI: "http://localhost:8080/cta/callback",
//	})
//	url := oauth.AuthorizationURL(state)
//
// # Repositories
//
//	client, err := github.NewClient(token, 24*time.Hour)
//	repo, err := client.FetchRepo(ctx, "facebook", "react", false)
//
// Repository responses are cached; pass refresh=true to bypass the cache.
// A token is optional but unauthenticated requests are limited to 60 per
// hour.
package github
