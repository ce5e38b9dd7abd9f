package cli

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stacknotes/pkg/errors"
	"github.com/matzehuels/stacknotes/pkg/integrations/npm"
	"github.com/matzehuels/stacknotes/pkg/integrations/sourcegraph"
	"github.com/matzehuels/stacknotes/pkg/notebookmap"
	"github.com/matzehuels/stacknotes/pkg/notebooks"
	"github.com/matzehuels/stacknotes/pkg/permutations"
)

// sourceFlags select where package pairs come from. Shared by backfill and pairs.
type sourceFlags struct {
	packagesFile string
	deps         []string
	maxDeps      int
	refresh      bool
	mode         string
}

func (f *sourceFlags) resolveMode(cfg *Config) (notebookmap.Mode, error) {
	if f.mode != "" {
		return notebookmap.ParseMode(f.mode)
	}
	return notebookmap.ParseMode(cfg.Mode)
}

// newRegistry returns the npm client backed by the HTTP response cache.
func newRegistry(ttl time.Duration) (*npm.Client, error) {
	return npm.NewClient(ttl)
}

// buildSource picks the pair source: --deps roots, then positional package
// names, then --packages (or the config's package list).
func buildSource(args []string, f *sourceFlags, cfg *Config, mode notebookmap.Mode, registry permutations.PackageFetcher, logger *log.Logger) (permutations.Source, error) {
	if len(f.deps) > 0 {
		return permutations.DependencySource{
			Roots:    f.deps,
			Packages: registry,
			Mode:     mode,
			Refresh:  f.refresh,
			MaxDeps:  f.maxDeps,
			Logger:   logger,
		}, nil
	}
	if len(args) > 0 {
		return permutations.ListSource{Packages: args, Mode: mode}, nil
	}

	path := f.packagesFile
	if path == "" {
		path = cfg.Packages
	}
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no packages given: pass names, --packages FILE or --deps ROOT")
	}
	pkgs, err := permutations.LoadPackageList(path)
	if err != nil {
		return nil, err
	}
	return permutations.ListSource{Packages: pkgs, Mode: mode}, nil
}

// parseFixedArgs parses "a,b" into the fixed upsert arguments.
func parseFixedArgs(s string) (*[2]string, error) {
	if s == "" {
		return nil, nil
	}
	a, b, ok := strings.Cut(s, ",")
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if !ok || a == "" || b == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "--fixed-args wants two comma separated names, got %q", s)
	}
	return &[2]string{a, b}, nil
}

// newUpserter returns the Sourcegraph-backed upserter, or a LocalUpserter
// when local is set.
func newUpserter(cfg *Config, local bool, registry notebooks.PackageFetcher, logger *log.Logger) (notebooks.Upserter, *sourcegraph.Client, error) {
	if local {
		return notebooks.NewLocalUpserter(), nil, nil
	}
	if cfg.Sourcegraph.Token == "" {
		return nil, nil, errors.New(errors.ErrCodeInvalidConfig, "SOURCEGRAPH_TOKEN is not set (use --local to generate ids without Sourcegraph)")
	}
	client := sourcegraph.NewClient(cfg.Sourcegraph.URL, cfg.Sourcegraph.Token)
	return &notebooks.SourcegraphUpserter{
		Writer:   client,
		Packages: registry,
		Public:   cfg.Sourcegraph.Public,
		Logger:   logger,
	}, client, nil
}

// ctxErr prefers the context's error so a cancelled command exits with 130.
func ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
