package notebooks

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stacknotes/pkg/integrations/npm"
	"github.com/matzehuels/stacknotes/pkg/integrations/sourcegraph"
)

// NotebookWriter is the part of the Sourcegraph client the upserter uses.
type NotebookWriter interface {
	UpsertNotebook(ctx context.Context, existing *string, nb sourcegraph.NotebookInput) (string, error)
}

// PackageFetcher looks up registry metadata for a package.
type PackageFetcher interface {
	FetchPackage(ctx context.Context, pkg string, refresh bool) (*npm.PackageInfo, error)
}

// SourcegraphUpserter writes comparison notebooks to Sourcegraph.
type SourcegraphUpserter struct {
	Writer NotebookWriter
	// Packages is optional. Without it, or when a lookup fails, the
	// notebook is built without registry metadata.
	Packages PackageFetcher
	Public   bool
	Logger   *log.Logger
}

func (u *SourcegraphUpserter) Upsert(ctx context.Context, existingID *string, a, b string) (string, error) {
	content := BuildContent(a, b, u.fetch(ctx, a), u.fetch(ctx, b))
	if err := ValidateMarkdown(content); err != nil {
		return "", err
	}
	return u.Writer.UpsertNotebook(ctx, existingID, ToInput(content, u.Public))
}

func (u *SourcegraphUpserter) fetch(ctx context.Context, pkg string) *npm.PackageInfo {
	if u.Packages == nil {
		return nil
	}
	info, err := u.Packages.FetchPackage(ctx, pkg, false)
	if err != nil {
		u.logger().Warn("package metadata unavailable", "pkg", pkg, "error", err)
		return nil
	}
	return info
}

func (u *SourcegraphUpserter) logger() *log.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return log.Default()
}

// ToInput converts notebook content to a Sourcegraph mutation input.
func ToInput(c Content, public bool) sourcegraph.NotebookInput {
	blocks := make([]sourcegraph.BlockInput, 0, len(c.Blocks))
	for _, b := range c.Blocks {
		switch b.Kind {
		case KindQuery:
			blocks = append(blocks, sourcegraph.QueryBlock(b.ID, b.Text))
		default:
			blocks = append(blocks, sourcegraph.MarkdownBlock(b.ID, b.Text))
		}
	}
	return sourcegraph.NotebookInput{Title: c.Title, Blocks: blocks, Public: public}
}
