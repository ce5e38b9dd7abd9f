package permutations

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stacknotes/pkg/errors"
	"github.com/matzehuels/stacknotes/pkg/integrations/npm"
	"github.com/matzehuels/stacknotes/pkg/notebookmap"
)

// PackageFetcher looks up registry metadata for a package.
type PackageFetcher interface {
	FetchPackage(ctx context.Context, pkg string, refresh bool) (*npm.PackageInfo, error)
}

// DependencySource pairs each root package with its runtime dependencies
// as published in the registry. In ModeSymmetric a pair already produced
// from the other side (react/redux, then redux/react) is skipped.
type DependencySource struct {
	Roots    []string
	Packages PackageFetcher
	Mode     notebookmap.Mode
	Refresh  bool
	// MaxDeps limits the dependencies taken per root; zero means all.
	MaxDeps int
	Logger  *log.Logger
}

func (s DependencySource) Permutations(ctx context.Context) (Set, error) {
	roots, err := Normalize(s.Roots)
	if err != nil {
		return nil, err
	}
	logger := s.Logger
	if logger == nil {
		logger = log.Default()
	}

	seen := make(map[notebookmap.Pair]bool)
	var set Set
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := s.Packages.FetchPackage(ctx, root, s.Refresh)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUpstream, err, "fetch dependencies of %s", root)
		}

		deps, err := Normalize(info.Dependencies)
		if err != nil {
			return nil, err
		}
		if s.MaxDeps > 0 && len(deps) > s.MaxDeps {
			deps = deps[:s.MaxDeps]
		}

		var bs []string
		for _, dep := range deps {
			if dep == root {
				continue
			}
			key := notebookmap.Pair{A: root, B: dep}
			if s.Mode == notebookmap.ModeSymmetric {
				key = key.Canonical()
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			bs = append(bs, dep)
		}
		logger.Debug("resolved dependencies", "pkg", root, "version", info.Version, "pairs", len(bs))
		if len(bs) > 0 {
			set = append(set, Entry{A: root, Bs: bs})
		}
	}
	return set, nil
}
