// Package cta renders the "link GitHub" call to action.
//
// The call to action is hidden once the visitor has linked a GitHub
// account. Anonymous visitors are sent to sign up; signed-in visitors are
// sent through the GitHub OAuth flow. Clicks go through the server's
// click endpoint so the matching event is logged before redirecting.
package cta

import (
	"html/template"
	"io"
	"net/url"

	"github.com/matzehuels/stacknotes/pkg/session"
)

// Destinations.
const (
	JoinURL        = "/join"
	GitHubOAuthURL = "/-/github-oauth/initiate"
	ClickPath      = "/cta/click"
)

// Click events.
const (
	EventJoinClicked = "JoinCTAClicked"
	EventLinkGitHub  = "SubmitLinkGitHub"
)

// Model is everything the view needs.
type Model struct {
	Href       string
	Label      string
	Event      string
	Location   string
	GitHubIcon bool
}

// CTA returns the call to action for sess on the page named location, or
// nil when sess has already linked GitHub.
func CTA(sess *session.Session, location string) *Model {
	switch {
	case sess.HasLinkedGitHub():
		return nil
	case sess.SignedIn():
		return &Model{
			Href:       GitHubOAuthURL,
			Label:      "Add my GitHub repositories",
			Event:      EventLinkGitHub,
			Location:   location,
			GitHubIcon: true,
		}
	default:
		return &Model{
			Href:     JoinURL,
			Label:    "Add Sourcegraph to my code",
			Event:    EventJoinClicked,
			Location: location,
		}
	}
}

// ClickURL is the link that logs m.Event and then redirects to m.Href.
func (m *Model) ClickURL() string {
	q := url.Values{
		"event":    {m.Event},
		"location": {m.Location},
		"to":       {m.Href},
	}
	return ClickPath + "?" + q.Encode()
}

var tmpl = template.Must(template.New("cta").Parse(`<div class="cta">
  <a href="{{.ClickURL}}" data-event="{{.Event}}" data-location="{{.Location}}">
    <button type="button" class="btn btn-outline-warning">
      {{- if .GitHubIcon}}<span class="cta-icon" style="padding-right: 8px; align-items: center; display: flex">` + githubIcon + `</span>{{end -}}
      {{.Label}}
    </button>
  </a>
</div>
`))

// RenderHTML writes m to w. A nil model writes nothing.
func RenderHTML(w io.Writer, m *Model) error {
	if m == nil {
		return nil
	}
	return tmpl.Execute(w, m)
}

const githubIcon = `<svg class="icon-github" aria-hidden="true" width="16" height="16" viewBox="0 0 16 16"><path fill="currentColor" d="M8 0C3.58 0 0 3.58 0 8c0 3.54 2.29 6.53 5.47 7.59.4.07.55-.17.55-.38 0-.19-.01-.82-.01-1.49-2.01.37-2.53-.49-2.69-.94-.09-.23-.48-.94-.82-1.13-.28-.15-.68-.52-.01-.53.63-.01 1.08.58 1.23.82.72 1.21 1.87.87 2.33.66.07-.52.28-.87.51-1.07-1.78-.2-3.64-.89-3.64-3.95 0-.87.31-1.59.82-2.15-.08-.2-.36-1.02.08-2.12 0 0 .67-.21 2.2.82.64-.18 1.32-.27 2-.27.68 0 1.36.09 2 .27 1.53-1.04 2.2-.82 2.2-.82.44 1.1.16 1.92.08 2.12.51.56.82 1.27.82 2.15 0 3.07-1.87 3.75-3.65 3.95.29.25.54.73.54 1.48 0 1.07-.01 1.93-.01 2.2 0 .21.15.46.55.38A8.013 8.013 0 0016 8c0-4.42-3.58-8-8-8z"/></svg>`
