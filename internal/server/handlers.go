package server

import (
	"bytes"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/matzehuels/stacknotes/pkg/errors"
	"github.com/matzehuels/stacknotes/pkg/render/cta"
	"github.com/matzehuels/stacknotes/pkg/render/search"
	"github.com/matzehuels/stacknotes/pkg/render/terms"
	"github.com/matzehuels/stacknotes/pkg/session"
	"github.com/matzehuels/stacknotes/pkg/storage"
)

// maxBodyBytes caps POSTed search results.
const maxBodyBytes = 4 << 20

var resultsName = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

const acceptButton = template.HTML(`<button type="submit" class="btn btn-primary accept-terms">I accept</button>`)

var joinTmpl = template.Must(template.ParseFS(templateFS, "templates/join.html.tmpl"))

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.Success(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSearch renders a stored result file, ResultsDir/<results>.json.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("results")
	if !resultsName.MatchString(name) {
		s.Error(w, r, http.StatusBadRequest, "invalid results name")
		return
	}
	if s.cfg.ResultsDir == "" {
		s.Error(w, r, http.StatusNotFound, "no results directory configured")
		return
	}
	f, err := os.Open(filepath.Join(s.cfg.ResultsDir, name+".json"))
	if err != nil {
		s.Error(w, r, http.StatusNotFound, "results not found")
		return
	}
	defer f.Close()

	matches, err := search.LoadMatches(f)
	if err != nil {
		s.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	s.renderMatches(w, r, matches)
}

// handleSearchRender renders a JSON array of repository matches from the body.
func (s *Server) handleSearchRender(w http.ResponseWriter, r *http.Request) {
	matches, err := search.LoadMatches(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.Error(w, r, http.StatusBadRequest, errors.UserMessage(err))
		return
	}
	s.renderMatches(w, r, matches)
}

func (s *Server) renderMatches(w http.ResponseWriter, r *http.Request, matches []search.RepoMatch) {
	var buf bytes.Buffer
	if err := search.RenderList(&buf, matches); err != nil {
		s.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	s.page(w, r, "Search results", buf.Bytes())
}

func (s *Server) handleTerms(w http.ResponseWriter, r *http.Request) {
	var opts terms.Options
	if r.URL.Query().Get("accept") == "1" {
		opts.AcceptButton = acceptButton
	}
	var buf bytes.Buffer
	if err := terms.RenderHTML(&buf, opts); err != nil {
		s.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	s.page(w, r, "Terms", buf.Bytes())
}

// handleCTA renders the call to action for the current visitor. Users who
// already linked GitHub get an empty body.
func (s *Server) handleCTA(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		location = "Unknown"
	}
	var buf bytes.Buffer
	if err := cta.RenderHTML(&buf, cta.CTA(sessionFromContext(r.Context()), location)); err != nil {
		s.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleCTAClick logs the click event and redirects to the target.
func (s *Server) handleCTAClick(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	event, location, to := q.Get("event"), q.Get("location"), q.Get("to")
	if event != cta.EventJoinClicked && event != cta.EventLinkGitHub {
		s.Error(w, r, http.StatusBadRequest, "unknown event")
		return
	}
	if err := errors.ValidateRedirect(to, "https://github.com/"); err != nil {
		s.Error(w, r, http.StatusBadRequest, errors.UserMessage(err))
		return
	}
	if err := s.cfg.Events.LogEventForPage(r.Context(), event, location, nil); err != nil {
		s.logger.Warn("event log failed", "event", event, "error", err)
	}
	http.Redirect(w, r, to, http.StatusFound)
}

func (s *Server) handleJoinForm(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := joinTmpl.ExecuteTemplate(&buf, "join.html.tmpl", nil); err != nil {
		s.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	s.page(w, r, "Join", buf.Bytes())
}

// handleJoin creates a signed-in session for the submitted username.
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	if username == "" || len(username) > 64 {
		s.Error(w, r, http.StatusBadRequest, "username is required")
		return
	}
	id, err := session.GenerateID()
	if err != nil {
		s.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	sess, err := session.New(&session.User{ID: id, Username: username}, session.DefaultTTL)
	if err != nil {
		s.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.cfg.Sessions.Set(r.Context(), sess); err != nil {
		s.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	s.setSessionCookie(w, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleOAuthInitiate starts the GitHub link flow for a signed-in user.
// The state token is bound to the session id.
func (s *Server) handleOAuthInitiate(w http.ResponseWriter, r *http.Request) {
	if s.cfg.OAuth == nil {
		s.Error(w, r, http.StatusNotFound, "GitHub integration is not configured")
		return
	}
	sess := sessionFromContext(r.Context())
	if !sess.SignedIn() {
		http.Redirect(w, r, cta.JoinURL, http.StatusFound)
		return
	}
	state, err := s.cfg.States.Generate(r.Context(), sess.ID, session.DefaultStateTTL)
	if err != nil {
		s.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	http.Redirect(w, r, s.cfg.OAuth.AuthorizationURL(state), http.StatusFound)
}

// handleOAuthReceive completes the GitHub link flow.
func (s *Server) handleOAuthReceive(w http.ResponseWriter, r *http.Request) {
	if s.cfg.OAuth == nil {
		s.Error(w, r, http.StatusNotFound, "GitHub integration is not configured")
		return
	}
	ctx := r.Context()
	sess := sessionFromContext(ctx)
	if !sess.SignedIn() {
		http.Redirect(w, r, cta.JoinURL, http.StatusFound)
		return
	}

	boundID, err := s.cfg.States.Consume(ctx, r.URL.Query().Get("state"))
	if err != nil || boundID != sess.ID {
		s.Error(w, r, http.StatusBadRequest, session.ErrInvalidState.Error())
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		s.Error(w, r, http.StatusBadRequest, "missing code")
		return
	}

	token, err := s.cfg.OAuth.ExchangeCode(ctx, code)
	if err != nil {
		s.Error(w, r, http.StatusBadGateway, errors.UserMessage(err))
		return
	}
	user, err := s.cfg.GitHubUser(ctx, token.AccessToken)
	if err != nil {
		s.Error(w, r, http.StatusBadGateway, errors.UserMessage(err))
		return
	}

	sess.LinkGitHub(user, token.AccessToken)
	if err := s.cfg.Sessions.Set(ctx, sess); err != nil {
		s.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("linked GitHub", "user", sess.User.Username, "github", user.Login)
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleNotebooks lists the stored notebook map as sorted entries.
func (s *Server) handleNotebooks(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Store == nil {
		s.Error(w, r, http.StatusNotFound, "no notebook store configured")
		return
	}
	m, _, err := storage.LoadOrEmpty(r.Context(), s.cfg.Store)
	if err != nil {
		s.Error(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	s.Success(w, http.StatusOK, m.Entries())
}
