// Package terms renders the usage policy and FAQ shown before someone
// starts using the assistant.
//
// The text lives in embedded markdown files and is rendered with goldmark.
// Paragraphs starting with "Q:" and "A:" get the question and answer
// classes, and a paragraph holding nothing but a link renders that link as
// a call to action.
package terms

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

//go:embed content/*.md
var content embed.FS

// ContainerClass is the class of the element wrapping the whole view.
const ContainerClass = "non-transcript-container"

// Section is a headed block of the terms.
type Section struct {
	Title string
	File  string
}

// Sections lists the terms in display order.
var Sections = []Section{
	{Title: "Notice and Usage Policies", File: "content/policies.md"},
	{Title: "FAQs", File: "content/faq.md"},
}

// Options control rendering.
type Options struct {
	// AcceptButton is appended after the last section when non-empty.
	AcceptButton template.HTML
}

var md = goldmark.New(goldmark.WithParserOptions(
	parser.WithASTTransformers(util.Prioritized(classTransformer{}, 100)),
))

// Markdown returns the terms as a single markdown document.
func Markdown() (string, error) {
	var b strings.Builder
	for i, s := range Sections {
		src, err := content.ReadFile(s.File)
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## " + s.Title + "\n\n")
		b.Write(src)
	}
	return b.String(), nil
}

// RenderHTML writes the terms view to w.
func RenderHTML(w io.Writer, opts Options) error {
	var buf bytes.Buffer
	buf.WriteString(`<div class="` + ContainerClass + `">` + "\n")
	for _, s := range Sections {
		src, err := content.ReadFile(s.File)
		if err != nil {
			return err
		}
		buf.WriteString(`<p class="terms-header-container">` + template.HTMLEscapeString(s.Title) + "</p>\n")
		buf.WriteString(`<div class="terms-container">` + "\n")
		if err := md.Convert(src, &buf); err != nil {
			return err
		}
		buf.WriteString("</div>\n")
	}
	if opts.AcceptButton != "" {
		buf.WriteString(string(opts.AcceptButton))
		buf.WriteString("\n")
	}
	buf.WriteString("</div>\n")

	_, err := w.Write(buf.Bytes())
	return err
}

// classTransformer tags FAQ paragraphs and standalone links with the
// classes the stylesheet expects.
type classTransformer struct{}

func (classTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	src := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindParagraph {
			return ast.WalkContinue, nil
		}
		txt := paragraphText(n, src)
		switch {
		case strings.HasPrefix(txt, "Q:"):
			n.SetAttributeString("class", []byte("question"))
		case strings.HasPrefix(txt, "A:"):
			n.SetAttributeString("class", []byte("answer"))
		}
		if link, ok := n.FirstChild().(*ast.Link); ok && onlyTrailingPunct(link.NextSibling(), src) {
			link.SetAttributeString("class", []byte("cta"))
		}
		return ast.WalkSkipChildren, nil
	})
}

func paragraphText(n ast.Node, src []byte) string {
	lines := n.Lines()
	if lines.Len() == 0 {
		return ""
	}
	first := lines.At(0)
	return string(first.Value(src))
}

// onlyTrailingPunct reports whether the nodes from n on are at most a
// single short punctuation text.
func onlyTrailingPunct(n ast.Node, src []byte) bool {
	if n == nil {
		return true
	}
	t, ok := n.(*ast.Text)
	if !ok || n.NextSibling() != nil {
		return false
	}
	return len(strings.Trim(string(t.Segment.Value(src)), ".!; ")) == 0
}
