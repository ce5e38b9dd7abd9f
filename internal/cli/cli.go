// Package cli implements the stacknotes command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stacknotes/pkg/buildinfo"
)

const appName = "stacknotes"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "stacknotes builds package comparison notebooks",
		Long:         `stacknotes creates and updates one comparison notebook per pair of packages, keeps the pair to notebook map, and serves the search result, terms and call-to-action views.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+DefaultConfigFile+" if present)")

	root.AddCommand(c.backfillCommand())
	root.AddCommand(c.pairsCommand())
	root.AddCommand(c.mapCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.termsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config returns the loaded configuration, or defaults when a command runs
// without the root's pre-run (as in tests).
func (c *CLI) config() *Config {
	if c.cfg == nil {
		c.cfg = DefaultConfig()
	}
	return c.cfg
}
