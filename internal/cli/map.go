package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stacknotes/pkg/integrations/sourcegraph"
	"github.com/matzehuels/stacknotes/pkg/notebookmap"
	"github.com/matzehuels/stacknotes/pkg/storage"
)

func (c *CLI) mapCommand() *cobra.Command {
	var storeURL string

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Inspect the notebook map",
	}
	cmd.PersistentFlags().StringVar(&storeURL, "store", "", "notebook map location (default from config)")

	cmd.AddCommand(c.mapShowCommand(&storeURL))
	cmd.AddCommand(c.mapPathCommand(&storeURL))
	cmd.AddCommand(c.mapBrowseCommand(&storeURL))
	return cmd
}

// loadMap opens the store and loads the map, treating a missing or
// unreadable map as empty.
func (c *CLI) loadMap(cmd *cobra.Command, storeURL string) (notebookmap.Map, storage.Store, error) {
	if storeURL == "" {
		storeURL = c.config().Store
	}
	ctx := cmd.Context()
	store, err := storage.Open(ctx, storeURL)
	if err != nil {
		return nil, nil, err
	}
	m, recovered, err := storage.LoadOrEmpty(ctx, store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	if recovered != nil {
		loggerFromContext(ctx).Warn("notebook map unavailable, showing empty map", "store", store.Describe(), "error", recovered.Err)
	}
	return m, store, nil
}

func (c *CLI) mapShowCommand(storeURL *string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print every stored pair and its notebook id",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, store, err := c.loadMap(cmd, *storeURL)
			if err != nil {
				return err
			}
			defer store.Close()

			if asJSON {
				data, err := notebookmap.Encode(m)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}
			entries := m.Entries()
			if len(entries) == 0 {
				printInfo("No notebooks in %s", store.Describe())
				return nil
			}
			fmt.Fprintln(out, renderEntries(entries))
			printDetail("%d notebooks in %s", len(entries), store.Describe())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the map in its stored JSON form")
	return cmd
}

func renderEntries(entries []notebookmap.Entry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.A, e.B, e.ID}
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		Headers("Package A", "Package B", "Notebook").
		Rows(rows...).
		Render()
}

func (c *CLI) mapPathCommand(storeURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the notebook map is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := *storeURL
			if u == "" {
				u = c.config().Store
			}
			store, err := storage.Open(cmd.Context(), u)
			if err != nil {
				return err
			}
			defer store.Close()
			fmt.Fprintln(out, store.Describe())
			return nil
		},
	}
}

func (c *CLI) mapBrowseCommand(storeURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the notebook map interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, store, err := c.loadMap(cmd, *storeURL)
			if err != nil {
				return err
			}
			store.Close()

			entries := m.Entries()
			if len(entries) == 0 {
				printInfo("No notebooks to browse")
				return nil
			}
			final, err := tea.NewProgram(NewPairListModel(entries), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return ctxErr(cmd.Context(), err)
			}
			if sel := final.(PairListModel).Selected; sel != nil {
				sg := sourcegraph.NewClient(c.config().Sourcegraph.URL, "")
				printPair(sel.A, sel.B, sel.ID)
				fmt.Fprintln(out, StyleLink.Render(sg.NotebookURL(sel.ID)))
			}
			return nil
		},
	}
}

