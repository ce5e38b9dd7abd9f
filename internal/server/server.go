// Package server serves the web views and the notebook map over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stacknotes/pkg/events"
	"github.com/matzehuels/stacknotes/pkg/integrations/github"
	"github.com/matzehuels/stacknotes/pkg/session"
	"github.com/matzehuels/stacknotes/pkg/storage"
)

// DefaultCookieName holds the session id.
const DefaultCookieName = "stacknotes_session"

// OAuth is the GitHub OAuth web flow.
type OAuth interface {
	AuthorizationURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*github.OAuthToken, error)
}

// Config wires the server's collaborators. Only Store is required.
type Config struct {
	Addr string

	// Store holds the notebook map served at /notebooks.
	Store storage.Store

	// ResultsDir holds <name>.json search result files for GET /search.
	ResultsDir string

	Sessions session.Store
	States   session.StateStore
	Events   events.Logger

	// OAuth enables the GitHub link flow; nil disables it.
	OAuth OAuth
	// GitHubUser resolves the account behind a fresh access token.
	GitHubUser func(ctx context.Context, token string) (*github.User, error)

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler

	CookieName   string
	SecureCookie bool
	Logger       *log.Logger
}

// Server is the HTTP front end.
type Server struct {
	cfg    Config
	router *chi.Mux
	server *http.Server
	logger *log.Logger
}

// New builds a server from cfg, filling in in-memory defaults for the
// session, state and event stores.
func New(cfg Config) *Server {
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewMemoryStore()
	}
	if cfg.States == nil {
		cfg.States = session.NewMemoryStateStore()
	}
	if cfg.Events == nil {
		cfg.Events = events.Nop{}
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.GitHubUser == nil {
		cfg.GitHubUser = func(ctx context.Context, token string) (*github.User, error) {
			return github.NewUserClient(token).FetchUser(ctx)
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{cfg: cfg, router: chi.NewRouter(), logger: logger}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))
	s.router.Use(s.loadSession)

	s.router.Get("/health", s.handleHealth)

	s.router.Get("/search", s.handleSearch)
	s.router.Post("/search", s.handleSearchRender)
	s.router.Get("/terms", s.handleTerms)
	s.router.Get("/cta", s.handleCTA)
	s.router.Get("/cta/click", s.handleCTAClick)

	s.router.Get("/join", s.handleJoinForm)
	s.router.Post("/join", s.handleJoin)
	s.router.Get("/-/github-oauth/initiate", s.handleOAuthInitiate)
	s.router.Get("/-/github-oauth/receive", s.handleOAuthReceive)

	s.router.Get("/notebooks", s.handleNotebooks)

	if s.cfg.Metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.cfg.Metrics)
	}
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured address.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and shuts it down when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() { errc <- s.Start() }()
	s.logger.Info("listening", "addr", s.cfg.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
