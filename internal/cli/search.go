package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stacknotes/pkg/errors"
	"github.com/matzehuels/stacknotes/pkg/integrations/github"
	"github.com/matzehuels/stacknotes/pkg/render/search"
)

func (c *CLI) searchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Render repository search results",
	}
	cmd.AddCommand(c.searchRenderCommand())
	return cmd
}

type searchRenderFlags struct {
	file    string
	repo    string
	text    bool
	output  string
	refresh bool
}

func (c *CLI) searchRenderCommand() *cobra.Command {
	var flags searchRenderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render repository matches as HTML or text",
		Long: `Render repository matches from a JSON file (an array of matches in the
search stream format, "-" for stdin) or from a GitHub repository's metadata.`,
		Example: `  stacknotes search render --file results.json > results.html
  stacknotes search render --github facebook/react --text`,
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := c.loadSearchMatches(cmd, &flags)
			if err != nil {
				return err
			}

			w := out
			if flags.output != "" {
				f, err := os.Create(flags.output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if flags.text {
				for _, m := range matches {
					fmt.Fprintln(w, search.RenderText(m))
				}
				return nil
			}
			return search.RenderList(w, matches)
		},
	}

	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "JSON file with repository matches (- for stdin)")
	cmd.Flags().StringVar(&flags.repo, "github", "", "render a GitHub repository (owner/repo)")
	cmd.Flags().BoolVar(&flags.text, "text", false, "render for the terminal instead of HTML")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "bypass the GitHub response cache")
	cmd.MarkFlagsMutuallyExclusive("file", "github")
	cmd.MarkFlagsOneRequired("file", "github")
	return cmd
}

func (c *CLI) loadSearchMatches(cmd *cobra.Command, flags *searchRenderFlags) ([]search.RepoMatch, error) {
	if flags.repo == "" {
		var r io.Reader = cmd.InOrStdin()
		if flags.file != "-" {
			f, err := os.Open(flags.file)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", flags.file)
			}
			defer f.Close()
			r = f
		}
		return search.LoadMatches(r)
	}

	owner, name, err := github.ParseRepoRef(flags.repo)
	if err != nil {
		return nil, err
	}
	client, err := github.NewClient(os.Getenv("GITHUB_TOKEN"), c.config().CacheTTL.Duration)
	if err != nil {
		return nil, err
	}

	spinner := newSpinnerWithContext(cmd.Context(), "Fetching "+owner+"/"+name+"...")
	spinner.Start()
	repo, err := client.FetchRepo(cmd.Context(), owner, name, flags.refresh)
	spinner.Stop()
	if err != nil {
		return nil, ctxErr(cmd.Context(), err)
	}
	return []search.RepoMatch{MatchFromRepo(repo)}, nil
}

// MatchFromRepo converts GitHub repository metadata into a search match.
func MatchFromRepo(r *github.Repo) search.RepoMatch {
	return search.RepoMatch{
		Repository:  "github.com/" + r.FullName,
		Description: r.Description,
		Fork:        r.Fork,
		Archived:    r.Archived,
		Private:     r.Private,
		Stars:       r.Stars,
		LastFetched: r.PushedAt,
	}
}
