package backfill

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stacknotes/pkg/errors"
	"github.com/matzehuels/stacknotes/pkg/notebookmap"
	"github.com/matzehuels/stacknotes/pkg/notebooks"
	"github.com/matzehuels/stacknotes/pkg/observability"
	"github.com/matzehuels/stacknotes/pkg/permutations"
	"github.com/matzehuels/stacknotes/pkg/storage"
)

// Options tune a run.
type Options struct {
	// Mode decides whether (A, B) and (B, A) share a notebook.
	Mode notebookmap.Mode

	// FixedArgs, when set, is passed to the upserter for every pair
	// instead of the pair itself. The ids are still stored per pair.
	FixedArgs *[2]string

	// DryRun performs the upserts but never saves the map.
	DryRun bool

	// Limit stops after this many pairs; zero means no limit.
	Limit int

	// Progress is called after every completed pair.
	Progress func(done, total int, pair notebookmap.Pair)
}

// Result summarizes a run.
type Result struct {
	Processed int
	Created   int
	Updated   int
	Total     int
	Duration  time.Duration

	// Recovered is set when the stored map was missing or unreadable and
	// the run started from an empty map.
	Recovered *notebookmap.Recovered

	// Map is the notebook map as of the end of the run.
	Map notebookmap.Map
}

var errLimitReached = fmt.Errorf("pair limit reached")

// PairError reports the pair a run stopped at.
type PairError struct {
	Pair notebookmap.Pair
	Op   string
	Err  error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Pair, e.Err)
}

func (e *PairError) Unwrap() error { return e.Err }

// Runner executes backfill runs. A Runner is not safe for concurrent Run
// calls against the same store.
type Runner struct {
	Store    storage.Store
	Source   permutations.Source
	Upserter notebooks.Upserter
	Logger   *log.Logger
	Options  Options
}

// Run processes every pair once. On error the returned Result still
// describes the pairs completed before the failure.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	logger := r.logger()
	res := &Result{}

	err := r.run(ctx, logger, res)
	res.Duration = time.Since(start)
	observability.Backfill().OnRunComplete(ctx, res.Processed, res.Duration, err)

	if err != nil {
		logger.Error("backfill stopped", "processed", res.Processed, "total", res.Total, "error", err)
		return res, err
	}
	logger.Info("backfill complete",
		"processed", res.Processed,
		"created", res.Created,
		"updated", res.Updated,
		"duration", res.Duration.Round(time.Millisecond))
	return res, nil
}

func (r *Runner) run(ctx context.Context, logger *log.Logger, res *Result) error {
	if r.Store == nil || r.Source == nil || r.Upserter == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "backfill runner needs a store, a source and an upserter")
	}

	m, recovered, err := storage.LoadOrEmpty(ctx, r.Store)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "load notebook map from %s", r.Store.Describe())
	}
	res.Map, res.Recovered = m, recovered
	if recovered != nil {
		logger.Warn("starting from an empty notebook map", "store", r.Store.Describe(), "reason", recovered.Err)
	}

	set, err := r.Source.Permutations(ctx)
	if err != nil {
		return fmt.Errorf("enumerate package pairs: %w", err)
	}
	res.Total = set.Count()
	if r.Options.Limit > 0 && res.Total > r.Options.Limit {
		res.Total = r.Options.Limit
	}
	logger.Info("starting backfill", "pairs", res.Total, "store", r.Store.Describe(), "mode", r.Options.Mode, "dry_run", r.Options.DryRun)
	observability.Backfill().OnRunStart(ctx, res.Total, recovered != nil)

	err = set.Each(func(a, b string) error {
		if res.Processed >= res.Total {
			return errLimitReached
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return r.processPair(ctx, logger, m, res, notebookmap.Pair{A: a, B: b})
	})
	if err == errLimitReached {
		return nil
	}
	return err
}

func (r *Runner) processPair(ctx context.Context, logger *log.Logger, m notebookmap.Map, res *Result, pair notebookmap.Pair) error {
	start := time.Now()
	mode := r.Options.Mode

	var existing *string
	if id, ok := m.Get(pair.A, pair.B, mode); ok {
		existing = &id
	}

	x, y := pair.A, pair.B
	if r.Options.FixedArgs != nil {
		x, y = r.Options.FixedArgs[0], r.Options.FixedArgs[1]
	}

	id, err := r.Upserter.Upsert(ctx, existing, x, y)
	if err == nil && id == "" {
		err = errors.New(errors.ErrCodeUpstream, "upsert returned an empty notebook id")
	}
	if err != nil {
		observability.Backfill().OnPairComplete(ctx, pair.A, pair.B, existing == nil, time.Since(start), err)
		return &PairError{Pair: pair, Op: "upsert", Err: err}
	}

	m.Set(pair.A, pair.B, id, mode)
	if !r.Options.DryRun {
		// The notebook exists upstream now; a cancelled run must still
		// record its id or the next run creates a duplicate.
		if err := r.Store.Save(context.WithoutCancel(ctx), m); err != nil {
			observability.Backfill().OnPairComplete(ctx, pair.A, pair.B, existing == nil, time.Since(start), err)
			return &PairError{Pair: pair, Op: "save", Err: err}
		}
	}

	res.Processed++
	if existing == nil {
		res.Created++
	} else {
		res.Updated++
	}
	observability.Backfill().OnPairComplete(ctx, pair.A, pair.B, existing == nil, time.Since(start), nil)
	logger.Debug("pair done", "pkg_a", pair.A, "pkg_b", pair.B, "notebook", id, "created", existing == nil)
	if r.Options.Progress != nil {
		r.Options.Progress(res.Processed, res.Total, pair)
	}
	return nil
}

func (r *Runner) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}
