package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/stacknotes/pkg/httputil"
	"github.com/matzehuels/stacknotes/pkg/integrations"
)

func testClient(t *testing.T, baseURL, token string) *Client {
	t.Helper()
	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return &Client{
		Client:  integrations.NewClient(cache, apiHeaders(token)),
		baseURL: baseURL,
	}
}

func TestClient_FetchRepo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/facebook/react" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"full_name":"facebook/react","description":"UI library","fork":false,"archived":true,"stargazers_count":42}`))
	}))
	defer server.Close()

	c := testClient(t, server.URL, "tok")
	repo, err := c.FetchRepo(context.Background(), "facebook", "react", true)
	if err != nil {
		t.Fatalf("FetchRepo() error: %v", err)
	}
	if repo.FullName != "facebook/react" || !repo.Archived || repo.Fork || repo.Stars != 42 {
		t.Errorf("FetchRepo() = %+v", repo)
	}
}

func TestClient_FetchRepoNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	c := testClient(t, server.URL, "")
	_, err := c.FetchRepo(context.Background(), "nobody", "nothing", true)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("FetchRepo() error = %v, want ErrNotFound", err)
	}
}

func TestClient_FetchRepoInvalid(t *testing.T) {
	c := testClient(t, "http://unused", "")
	if _, err := c.FetchRepo(context.Background(), "-bad", "repo", false); err == nil {
		t.Error("expected validation error")
	}
}

func TestClient_FetchUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":7,"login":"octocat","name":"The Octocat"}`))
	}))
	defer server.Close()

	c := NewUserClient("tok")
	c.baseURL = server.URL
	u, err := c.FetchUser(context.Background())
	if err != nil {
		t.Fatalf("FetchUser() error: %v", err)
	}
	if u.Login != "octocat" || u.ID != 7 {
		t.Errorf("FetchUser() = %+v", u)
	}
}

func TestAuthorizationURL(t *testing.T) {
	c := NewOAuthClient(OAuthConfig{ClientID: "abc", RedirectURI: "http://localhost/cb"})
	raw := c.AuthorizationURL("state-1")

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(raw, "https://github.com/login/oauth/authorize?") {
		t.Errorf("AuthorizationURL() = %q", raw)
	}
	q := u.Query()
	for key, want := range map[string]string{
		"client_id":    "abc",
		"state":        "state-1",
		"scope":        DefaultScopes,
		"redirect_uri": "http://localhost/cb",
	} {
		if got := q.Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestExchangeCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Form.Get("code") == "bad" {
			w.Write([]byte(`{"error":"bad_verification_code","error_description":"expired"}`))
			return
		}
		w.Write([]byte(`{"access_token":"gho_1","token_type":"bearer","scope":"repo"}`))
	}))
	defer server.Close()

	c := NewOAuthClient(OAuthConfig{ClientID: "abc", ClientSecret: "s"})
	c.tokenURL = server.URL

	tok, err := c.ExchangeCode(context.Background(), "good")
	if err != nil {
		t.Fatalf("ExchangeCode() error: %v", err)
	}
	if tok.AccessToken != "gho_1" {
		t.Errorf("AccessToken = %q", tok.AccessToken)
	}

	if _, err := c.ExchangeCode(context.Background(), "bad"); err == nil || !strings.Contains(err.Error(), "bad_verification_code") {
		t.Errorf("ExchangeCode(bad) error = %v", err)
	}
}

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		in      string
		owner   string
		repo    string
		wantErr bool
	}{
		{"facebook/react", "facebook", "react", false},
		{"github.com/facebook/react", "facebook", "react", false},
		{"react", "", "", true},
		{"-x/react", "", "", true},
		{"x/re act", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			owner, repo, err := ParseRepoRef(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRepoRef(%q) error = %v", tt.in, err)
			}
			if owner != tt.owner || repo != tt.repo {
				t.Errorf("ParseRepoRef(%q) = %q, %q", tt.in, owner, repo)
			}
		})
	}
}
