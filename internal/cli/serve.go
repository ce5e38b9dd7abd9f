package cli

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stacknotes/internal/server"
	"github.com/matzehuels/stacknotes/pkg/events"
	"github.com/matzehuels/stacknotes/pkg/integrations/github"
	"github.com/matzehuels/stacknotes/pkg/observability"
	"github.com/matzehuels/stacknotes/pkg/session"
	"github.com/matzehuels/stacknotes/pkg/storage"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		storeURL   string
		resultsDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web views and the notebook map",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if storeURL != "" {
				cfg.Store = storeURL
			}
			if resultsDir != "" {
				cfg.Server.ResultsDir = resultsDir
			}
			return runServe(cmd.Context(), cfg, loggerFromContext(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&storeURL, "store", "", "notebook map location")
	cmd.Flags().StringVar(&resultsDir, "results", "", "directory of search result JSON files")
	return cmd
}

func runServe(ctx context.Context, cfg *Config, logger *log.Logger) error {
	store, err := storage.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	eventLogger, closeEvents, err := newEventLogger(cfg.Server, logger)
	if err != nil {
		return err
	}
	defer closeEvents()

	sessions, states, closeSessions, err := newSessionStores(ctx, cfg.Server)
	if err != nil {
		return err
	}
	defer closeSessions()

	recorder := observability.NewPrometheusRecorder(nil)
	recorder.Install()
	defer observability.Reset()

	srvCfg := server.Config{
		Addr:         cfg.Server.Addr,
		Store:        store,
		ResultsDir:   cfg.Server.ResultsDir,
		Sessions:     sessions,
		States:       states,
		Events:       eventLogger,
		Metrics:      recorder.Handler(),
		SecureCookie: cfg.Server.SecureCookie,
		Logger:       logger,
	}
	if gh := cfg.Server.GitHub; gh.ClientID != "" {
		srvCfg.OAuth = github.NewOAuthClient(github.OAuthConfig{
			ClientID:     gh.ClientID,
			ClientSecret: gh.ClientSecret,
			RedirectURI:  gh.RedirectURI,
		})
	} else {
		logger.Warn("GitHub OAuth is not configured; the link flow is disabled")
	}

	logger.Info("serving", "addr", cfg.Server.Addr, "store", store.Describe())
	err = server.New(srvCfg).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// newEventLogger always logs events and additionally persists them to
// SQLite and forwards them over HTTP when configured.
func newEventLogger(cfg ServerConfig, logger *log.Logger) (events.Logger, func(), error) {
	backends := []events.Logger{events.LogLogger{Logger: logger}}
	closeFn := func() {}
	if cfg.EventsDB != "" {
		db, err := events.NewSQLiteStore(cfg.EventsDB)
		if err != nil {
			return nil, nil, err
		}
		backends = append(backends, db)
		closeFn = func() { _ = db.Close() }
	}
	if cfg.EventsForward != "" {
		backends = append(backends, events.NewHTTPForwarder(cfg.EventsForward, nil))
	}
	return events.Multi(backends...), closeFn, nil
}

// newSessionStores returns Redis-backed stores when SessionRedis is set,
// otherwise JSON files for sessions and process memory for OAuth states.
func newSessionStores(ctx context.Context, cfg ServerConfig) (session.Store, session.StateStore, func(), error) {
	if cfg.SessionRedis != "" {
		opts, err := redis.ParseURL(cfg.SessionRedis)
		if err != nil {
			return nil, nil, nil, err
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, nil, err
		}
		rs := session.NewRedisStore(client)
		return rs, rs, func() { _ = client.Close() }, nil
	}

	dir := cfg.SessionDir
	if dir == "" {
		d, err := session.DefaultDir()
		if err != nil {
			return nil, nil, nil, err
		}
		dir = d
	}
	fs, err := session.NewFileStore(dir)
	if err != nil {
		return nil, nil, nil, err
	}
	return fs, session.NewMemoryStateStore(), func() {}, nil
}
