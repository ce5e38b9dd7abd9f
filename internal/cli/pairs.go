package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func (c *CLI) pairsCommand() *cobra.Command {
	var (
		flags  sourceFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "pairs [packages...]",
		Short: "List the package pairs a backfill would process",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.config()
			mode, err := flags.resolveMode(cfg)
			if err != nil {
				return err
			}
			registry, err := newRegistry(cfg.CacheTTL.Duration)
			if err != nil {
				return err
			}
			source, err := buildSource(args, &flags, cfg, mode, registry, loggerFromContext(ctx))
			if err != nil {
				return err
			}
			set, err := source.Permutations(ctx)
			if err != nil {
				return ctxErr(ctx, err)
			}

			pairs := set.Pairs()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(pairs)
			}
			for _, p := range pairs {
				printPair(p.A, p.B, "")
			}
			printDetail("%d pairs (%s)", len(pairs), mode)
			return nil
		},
	}

	addSourceFlags(cmd, &flags)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print pairs as JSON")
	return cmd
}
