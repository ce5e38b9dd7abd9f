package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stacknotes/pkg/backfill"
	"github.com/matzehuels/stacknotes/pkg/integrations/sourcegraph"
	"github.com/matzehuels/stacknotes/pkg/notebookmap"
	"github.com/matzehuels/stacknotes/pkg/notebooks"
	"github.com/matzehuels/stacknotes/pkg/observability"
	"github.com/matzehuels/stacknotes/pkg/storage"
)

type backfillFlags struct {
	sourceFlags
	store       string
	fixedArgs   string
	dryRun      bool
	local       bool
	limit       int
	metricsFile string
	every       time.Duration
}

func (c *CLI) backfillCommand() *cobra.Command {
	var flags backfillFlags

	cmd := &cobra.Command{
		Use:   "backfill [packages...]",
		Short: "Create or update one notebook per package pair",
		Long: `Create or update one comparison notebook per package pair and record
the notebook ids in the notebook map.

Existing notebooks are updated in place. The map is saved after every pair,
so an interrupted run keeps everything it finished.`,
		Example: `  stacknotes backfill react vue svelte
  stacknotes backfill --packages packages.yaml --mode symmetric
  stacknotes backfill --deps express --max-deps 10 --store sqlite://notebooks.db
  stacknotes backfill --packages packages.txt --local --dry-run
  stacknotes backfill --packages packages.yaml --every 24h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.every > 0 {
				return runEvery(cmd.Context(), flags.every, "backfill", loggerFromContext(cmd.Context()), func(ctx context.Context) error {
					return c.runBackfill(ctx, args, &flags)
				})
			}
			return c.runBackfill(cmd.Context(), args, &flags)
		},
	}

	addSourceFlags(cmd, &flags.sourceFlags)
	cmd.Flags().StringVar(&flags.store, "store", "", "notebook map location: path, sqlite://, redis:// or mongodb:// URL")
	cmd.Flags().StringVar(&flags.fixedArgs, "fixed-args", "", "upsert every pair with these two names (a,b) instead of the pair")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "run the upserts but do not save the map")
	cmd.Flags().BoolVar(&flags.local, "local", false, "generate notebook ids locally instead of calling Sourcegraph")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "stop after this many pairs (0 = all)")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics for the run to this file")
	cmd.Flags().DurationVar(&flags.every, "every", 0, "keep running and repeat the backfill at this interval")

	return cmd
}

func addSourceFlags(cmd *cobra.Command, f *sourceFlags) {
	cmd.Flags().StringVarP(&f.packagesFile, "packages", "p", "", "package list file (.txt, .yaml or .toml)")
	cmd.Flags().StringSliceVar(&f.deps, "deps", nil, "pair these root packages with their registry dependencies")
	cmd.Flags().IntVar(&f.maxDeps, "max-deps", 0, "dependencies taken per root with --deps (0 = all)")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass the registry response cache")
	cmd.Flags().StringVar(&f.mode, "mode", "", "pair mode: directional or symmetric")
}

func (c *CLI) runBackfill(ctx context.Context, args []string, flags *backfillFlags) error {
	logger := loggerFromContext(ctx)
	cfg := c.config()

	mode, err := flags.resolveMode(cfg)
	if err != nil {
		return err
	}
	fixed, err := parseFixedArgs(flags.fixedArgs)
	if err != nil {
		return err
	}
	if fixed == nil {
		fixed = cfg.fixedArgs()
	}

	registry, err := newRegistry(cfg.CacheTTL.Duration)
	if err != nil {
		return err
	}
	source, err := buildSource(args, &flags.sourceFlags, cfg, mode, registry, logger)
	if err != nil {
		return err
	}
	upserter, sg, err := newUpserter(cfg, flags.local, registry, logger)
	if err != nil {
		return err
	}

	storeURL := flags.store
	if storeURL == "" {
		storeURL = cfg.Store
	}
	store, err := storage.Open(ctx, storeURL)
	if err != nil {
		return err
	}
	defer store.Close()

	var recorder *observability.PrometheusRecorder
	if flags.metricsFile != "" {
		recorder = observability.NewPrometheusRecorder(nil)
		recorder.Install()
		defer observability.Reset()
	}

	spinner := newSpinnerWithContext(ctx, "Collecting package pairs...")
	spinner.Start()
	defer spinner.Stop()

	runner := &backfill.Runner{
		Store:    store,
		Source:   source,
		Upserter: upserter,
		Logger:   logger,
		Options: backfill.Options{
			Mode:      mode,
			FixedArgs: fixed,
			DryRun:    flags.dryRun,
			Limit:     flags.limit,
			Progress: func(done, total int, pair notebookmap.Pair) {
				spinner.SetMessage("[%d/%d] %s", done, total, pair)
			},
		},
	}

	prog := newProgress(logger)
	res, runErr := runner.Run(ctx)
	spinner.Stop()

	if recorder != nil {
		if err := prometheus.WriteToTextfile(flags.metricsFile, recorder.Registry()); err != nil {
			logger.Warn("write metrics", "path", flags.metricsFile, "error", err)
		}
	}

	if res != nil {
		reportBackfill(res, store, flags.dryRun, upserter, sg)
	}
	if runErr != nil {
		return ctxErr(ctx, runErr)
	}
	prog.done(fmt.Sprintf("Backfilled %d pairs", res.Processed))
	return nil
}

func reportBackfill(res *backfill.Result, store storage.Store, dryRun bool, upserter notebooks.Upserter, sg *sourcegraph.Client) {
	if res.Recovered != nil {
		printWarning("Started from an empty map: %v", res.Recovered.Err)
	}
	printSuccess("Processed %d of %d pairs", res.Processed, res.Total)
	printCounts(res.Created, res.Updated, res.Total)
	if dryRun {
		printDetail("Dry run: map not saved to %s", store.Describe())
	} else {
		printDetail("Map: %s", store.Describe())
	}
	if local, ok := upserter.(*notebooks.LocalUpserter); ok {
		created, updated := local.Counts()
		printDetail("Local ids: %d new, %d reused", created, updated)
	}
	if sg != nil && res.Processed > 0 {
		printDetail("Notebooks: %s", sg.BaseURL()+"/notebooks")
		printNextStep("Browse the map", "stacknotes map browse")
	}
}
