package cli

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/stacknotes/pkg/errors"
	"github.com/matzehuels/stacknotes/pkg/notebookmap"
)

// DefaultConfigFile is read from the working directory when --config is not given.
const DefaultConfigFile = "stacknotes.toml"

// Config is the stacknotes.toml file. Command flags override it.
type Config struct {
	// Store is the notebook map location (path or store URL).
	Store string `toml:"store"`
	// Mode is "directional" or "symmetric".
	Mode string `toml:"mode"`
	// Packages is the default package list file.
	Packages string `toml:"packages"`
	// CacheTTL bounds registry response caching.
	CacheTTL duration `toml:"cache_ttl"`
	// FixedArgs, when set to two names, is passed to the upserter for
	// every pair instead of the pair itself. --fixed-args overrides it.
	FixedArgs []string `toml:"fixed_args"`

	Sourcegraph SourcegraphConfig `toml:"sourcegraph"`
	Server      ServerConfig      `toml:"server"`
}

// SourcegraphConfig points at the notebook API.
type SourcegraphConfig struct {
	URL    string `toml:"url"`
	Token  string `toml:"token"`
	Public bool   `toml:"public"`
}

// ServerConfig configures "stacknotes serve".
type ServerConfig struct {
	Addr       string `toml:"addr"`
	ResultsDir string `toml:"results_dir"`
	// EventsDB is a SQLite file receiving UI events; empty logs them only.
	EventsDB string `toml:"events_db"`
	// EventsForward is an HTTP endpoint events are also POSTed to.
	EventsForward string `toml:"events_forward"`
	// SessionRedis stores sessions and OAuth states in Redis when set.
	SessionRedis string `toml:"session_redis"`
	// SessionDir stores sessions as JSON files when SessionRedis is empty.
	SessionDir   string `toml:"session_dir"`
	SecureCookie bool   `toml:"secure_cookie"`

	GitHub GitHubOAuthConfig `toml:"github"`
}

// GitHubOAuthConfig enables the GitHub link flow.
type GitHubOAuthConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// duration decodes TOML strings like "24h".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Store:    notebookmap.DefaultPath,
		Mode:     notebookmap.ModeDirectional.String(),
		CacheTTL: duration{24 * time.Hour},
		Server:   ServerConfig{Addr: ":8080"},
	}
}

// LoadConfig reads .env, then the TOML file at path (or DefaultConfigFile
// when path is empty and the file exists), then environment overrides.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load .env")
	}

	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !os.IsNotExist(err) || explicit {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
		}
	}

	applyEnv(cfg)
	if _, err := notebookmap.ParseMode(cfg.Mode); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config mode")
	}
	if n := len(cfg.FixedArgs); n != 0 && (n != 2 || strings.TrimSpace(cfg.FixedArgs[0]) == "" || strings.TrimSpace(cfg.FixedArgs[1]) == "") {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "fixed_args wants two non-empty names, got %q", cfg.FixedArgs)
	}
	return cfg, nil
}

// fixedArgs returns the configured fixed upsert arguments, or nil.
func (cfg *Config) fixedArgs() *[2]string {
	if len(cfg.FixedArgs) != 2 {
		return nil
	}
	return &[2]string{strings.TrimSpace(cfg.FixedArgs[0]), strings.TrimSpace(cfg.FixedArgs[1])}
}

func applyEnv(cfg *Config) {
	for env, dst := range map[string]*string{
		"STACKNOTES_STORE":                 &cfg.Store,
		"SOURCEGRAPH_URL":                  &cfg.Sourcegraph.URL,
		"SOURCEGRAPH_TOKEN":                &cfg.Sourcegraph.Token,
		"REDIS_URL":                        &cfg.Server.SessionRedis,
		"STACKNOTES_GITHUB_CLIENT_ID":      &cfg.Server.GitHub.ClientID,
		"STACKNOTES_GITHUB_CLIENT_SECRET":  &cfg.Server.GitHub.ClientSecret,
		"STACKNOTES_GITHUB_OAUTH_REDIRECT": &cfg.Server.GitHub.RedirectURI,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	// MONGODB_URI only selects the store when nothing more specific did.
	if v := os.Getenv("MONGODB_URI"); v != "" && cfg.Store == notebookmap.DefaultPath {
		cfg.Store = v
	}
}
