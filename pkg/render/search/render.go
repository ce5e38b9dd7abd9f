package search

import (
	"embed"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var tmpl = template.Must(template.New("").Funcs(template.FuncMap{
	"displayName": DisplayName,
	"stars":       FormatStars,
	"synced":      formatSynced,
}).ParseFS(templateFS, "templates/*.html.tmpl"))

// Options control HTML rendering.
type Options struct {
	// Index is the position of the result in its result list.
	Index int
}

type viewData struct {
	RepoMatch
	Index    int
	Labels   []Label
	Segments []Segment
}

// RenderHTML writes the HTML fragment for m to w.
func RenderHTML(w io.Writer, m RepoMatch, opts Options) error {
	return tmpl.ExecuteTemplate(w, "result.html.tmpl", viewData{
		RepoMatch: m,
		Index:     opts.Index,
		Labels:    Labels(m),
		Segments:  Highlight(m),
	})
}

// RenderList writes every match in order, numbering them from zero.
func RenderList(w io.Writer, matches []RepoMatch) error {
	for i, m := range matches {
		if err := RenderHTML(w, m, Options{Index: i}); err != nil {
			return err
		}
	}
	return nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	badgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	markStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	descStyle  = lipgloss.NewStyle().Italic(true)
)

// RenderText returns a terminal rendering of m.
func RenderText(m RepoMatch) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(DisplayName(m.Label())))
	if m.Stars > 0 {
		b.WriteString(mutedStyle.Render("  ★ " + FormatStars(m.Stars)))
	}
	b.WriteString("\n")

	parts := []string{mutedStyle.Render("Repository match")}
	for _, l := range Labels(m) {
		parts = append(parts, badgeStyle.Render(l.Text))
	}
	b.WriteString(strings.Join(parts, mutedStyle.Render(" │ ")))
	b.WriteString("\n")

	if m.LastFetched != nil {
		b.WriteString(mutedStyle.Render("Last synced " + formatSynced(m.LastFetched)))
		b.WriteString("\n")
	}

	if segs := Highlight(m); len(segs) > 0 {
		for _, s := range segs {
			if s.Match {
				b.WriteString(markStyle.Render(s.Text))
			} else {
				b.WriteString(descStyle.Render(s.Text))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatSynced(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04 MST")
}

func itoa(n int) string { return strconv.Itoa(n) }
