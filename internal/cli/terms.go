package cli

import (
	"fmt"
	"html/template"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stacknotes/pkg/render/terms"
)

func (c *CLI) termsCommand() *cobra.Command {
	var (
		asHTML bool
		pretty bool
		accept string
	)

	cmd := &cobra.Command{
		Use:   "terms",
		Short: "Print the usage terms",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asHTML {
				return terms.RenderHTML(out, terms.Options{AcceptButton: template.HTML(accept)})
			}
			md, err := terms.Markdown()
			if err != nil {
				return err
			}
			if pretty {
				r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
				if err != nil {
					return err
				}
				if md, err = r.Render(md); err != nil {
					return err
				}
			}
			fmt.Fprint(out, md)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "render the HTML view")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "render the markdown for the terminal")
	cmd.Flags().StringVar(&accept, "accept-button", "", "HTML appended after the last section (with --html)")
	cmd.MarkFlagsMutuallyExclusive("html", "pretty")
	return cmd
}
