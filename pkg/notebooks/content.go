package notebooks

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/matzehuels/stacknotes/pkg/errors"
	"github.com/matzehuels/stacknotes/pkg/integrations/npm"
)

// BlockKind is the type of a notebook block.
type BlockKind string

const (
	KindMarkdown BlockKind = "markdown"
	KindQuery    BlockKind = "query"
)

// Block is one cell of a notebook.
type Block struct {
	ID   string
	Kind BlockKind
	Text string
}

// Content is the title and blocks of a pair's comparison notebook.
type Content struct {
	Title  string
	Blocks []Block
}

// blockNamespace seeds deterministic block ids so an update rewrites the
// same blocks instead of appending new ones.
var blockNamespace = uuid.MustParse("6f1c1f8e-3b5e-4f0a-9a8e-2d7c5b4a1e90")

func blockID(a, b, name string) string {
	return uuid.NewSHA1(blockNamespace, []byte(a+"\x00"+b+"\x00"+name)).String()
}

// Title returns the notebook title for a pair.
func Title(a, b string) string { return a + " vs " + b }

// BuildContent assembles the comparison notebook for a and b. Either info
// may be nil when registry metadata is unavailable.
func BuildContent(a, b string, infoA, infoB *npm.PackageInfo) Content {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s vs %s\n\n", a, b)
	md.WriteString("How code search sees these two packages side by side.\n\n")
	md.WriteString("| | " + a + " | " + b + " |\n|---|---|---|\n")
	row := func(label string, get func(*npm.PackageInfo) string) {
		fmt.Fprintf(&md, "| %s | %s | %s |\n", label, cell(infoA, get), cell(infoB, get))
	}
	row("Latest version", func(p *npm.PackageInfo) string { return p.Version })
	row("License", func(p *npm.PackageInfo) string { return p.License })
	row("Dependencies", func(p *npm.PackageInfo) string { return fmt.Sprint(len(p.Dependencies)) })
	row("Repository", func(p *npm.PackageInfo) string { return p.Repository })

	blocks := []Block{{ID: blockID(a, b, "overview"), Kind: KindMarkdown, Text: md.String()}}
	for _, d := range []struct{ pkg, desc string }{{a, describe(a, infoA)}, {b, describe(b, infoB)}} {
		blocks = append(blocks,
			Block{ID: blockID(a, b, "about:"+d.pkg), Kind: KindMarkdown, Text: "## " + d.pkg + "\n\n" + d.desc + "\n"},
			Block{ID: blockID(a, b, "usage:"+d.pkg), Kind: KindQuery, Text: importQuery(d.pkg)},
		)
	}
	blocks = append(blocks,
		Block{ID: blockID(a, b, "both:heading"), Kind: KindMarkdown, Text: "## Repositories using both\n"},
		Block{ID: blockID(a, b, "both"), Kind: KindQuery, Text: bothQuery(a, b)},
	)

	return Content{Title: Title(a, b), Blocks: blocks}
}

func cell(p *npm.PackageInfo, get func(*npm.PackageInfo) string) string {
	if p == nil {
		return "n/a"
	}
	if v := get(p); v != "" {
		return strings.ReplaceAll(v, "|", `\|`)
	}
	return "n/a"
}

func describe(pkg string, p *npm.PackageInfo) string {
	if p == nil || p.Description == "" {
		return "No description published for `" + pkg + "`."
	}
	return p.Description
}

func importQuery(pkg string) string {
	return fmt.Sprintf(`lang:javascript lang:typescript from\s+['"]%s['"] patternType:regexp`, regexpQuote(pkg))
}

func bothQuery(a, b string) string {
	return fmt.Sprintf(`file:(^|/)package\.json$ "\"%s\":" and "\"%s\":" select:repo`, a, b)
}

func regexpQuote(s string) string {
	return strings.NewReplacer(".", `\.`, "/", `\/`).Replace(s)
}

// newMarkdown returns a GFM parser, matching what Sourcegraph renders.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(extension.GFM))
}

// ValidateMarkdown parses every markdown block with goldmark and rejects
// blocks that produce an empty document.
func ValidateMarkdown(c Content) error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "notebook title is empty")
	}
	md := newMarkdown()
	for _, b := range c.Blocks {
		if b.Kind != KindMarkdown {
			if strings.TrimSpace(b.Text) == "" {
				return errors.New(errors.ErrCodeInvalidInput, "notebook block %s has an empty query", b.ID)
			}
			continue
		}
		src := []byte(b.Text)
		doc := md.Parser().Parse(text.NewReader(src))
		if doc.ChildCount() == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "notebook block %s has no markdown content", b.ID)
		}
	}
	return nil
}

// RenderHTML renders the markdown blocks of c as one HTML document, with
// query blocks shown as code. Used for previews.
func RenderHTML(c Content) (string, error) {
	md := newMarkdown()
	var buf bytes.Buffer
	for _, b := range c.Blocks {
		src := b.Text
		if b.Kind == KindQuery {
			src = "```\n" + b.Text + "\n```\n"
		}
		if err := md.Convert([]byte(src), &buf); err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "render block %s", b.ID)
		}
	}
	return buf.String(), nil
}
