package search

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stacknotes/pkg/errors"
)

func render(t *testing.T, m RepoMatch) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, m, Options{}))
	return buf.String()
}

func TestLabels(t *testing.T) {
	tests := []struct {
		name  string
		match RepoMatch
		want  []string
	}{
		{"neither", RepoMatch{}, nil},
		{"fork", RepoMatch{Fork: true}, []string{"Fork"}},
		{"archived", RepoMatch{Archived: true}, []string{"Archived"}},
		{"all in order", RepoMatch{Private: true, Archived: true, Fork: true}, []string{"Fork", "Archived", "Private"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, l := range Labels(tt.match) {
				got = append(got, l.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderHTMLBadges(t *testing.T) {
	fork := render(t, RepoMatch{Repository: "github.com/a/b", Fork: true})
	assert.Contains(t, fork, "<small>Fork</small>")
	assert.Contains(t, fork, `aria-label="Forked repository"`)
	assert.NotContains(t, fork, "Archived")

	archived := render(t, RepoMatch{Repository: "github.com/a/b", Archived: true})
	assert.Contains(t, archived, "<small>Archived</small>")
	assert.Contains(t, archived, `aria-label="Archived repository"`)
	assert.NotContains(t, archived, "Fork")

	plain := render(t, RepoMatch{Repository: "github.com/a/b"})
	assert.NotContains(t, plain, "Fork")
	assert.NotContains(t, plain, "Archived")
	assert.NotContains(t, plain, "Private")
	assert.Contains(t, plain, "Repository match")
}

func TestTruncateDescription(t *testing.T) {
	exact := strings.Repeat("a", DescriptionLimit)
	assert.Equal(t, exact, TruncateDescription(exact))

	long := strings.Repeat("a", DescriptionLimit) + "bcdef"
	assert.Equal(t, exact+" ...", TruncateDescription(long))

	// Characters, not bytes.
	runes := strings.Repeat("é", DescriptionLimit+1)
	assert.Equal(t, strings.Repeat("é", DescriptionLimit)+" ...", TruncateDescription(runes))

	assert.Equal(t, "", TruncateDescription(""))
}

func TestRenderHTMLDescription(t *testing.T) {
	long := strings.Repeat("x", DescriptionLimit+10)
	out := render(t, RepoMatch{Repository: "r", Description: long})
	assert.Contains(t, out, strings.Repeat("x", DescriptionLimit)+" ...")
	assert.NotContains(t, out, strings.Repeat("x", DescriptionLimit+1))

	assert.NotContains(t, render(t, RepoMatch{Repository: "r"}), `class="description"`)

	escaped := render(t, RepoMatch{Repository: "r", Description: "<script>"})
	assert.Contains(t, escaped, "&lt;script&gt;")
}

func TestHighlight(t *testing.T) {
	m := RepoMatch{
		Description: "state container for js apps",
		DescriptionMatches: []Range{
			{Start: Location{Offset: 0}, End: Location{Offset: 5}},
			{Start: Location{Offset: 3}, End: Location{Offset: 15}},
			{Start: Location{Offset: 100}, End: Location{Offset: 120}},
		},
	}
	assert.Equal(t, []Segment{
		{Text: "state container", Match: true},
		{Text: " for js apps"},
	}, Highlight(m))

	out := render(t, m)
	assert.Contains(t, out, "<em><mark>state container</mark> for js apps</em>")
}

func TestHighlightClipsToVisibleText(t *testing.T) {
	desc := strings.Repeat("a", DescriptionLimit+20)
	m := RepoMatch{Description: desc, DescriptionMatches: []Range{
		{Start: Location{Offset: DescriptionLimit - 2}, End: Location{Offset: DescriptionLimit + 10}},
	}}
	segs := Highlight(m)
	require.Len(t, segs, 3)
	assert.Equal(t, "aa", segs[1].Text)
	assert.True(t, segs[1].Match)
	assert.Equal(t, " ...", segs[2].Text)
	assert.False(t, segs[2].Match)
}

func TestTitleAndLink(t *testing.T) {
	m := RepoMatch{Repository: "github.com/facebook/react", Branches: []string{"main"}}
	assert.Equal(t, "/github.com/facebook/react@main", m.URL())
	assert.Equal(t, "facebook/react@main", DisplayName(m.Label()))
	assert.Equal(t, "my/repo", DisplayName("my/repo"))

	out := render(t, m)
	assert.Contains(t, out, `<a href="/github.com/facebook/react@main">facebook/react@main</a>`)
}

func TestLastSyncedAndStars(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	out := render(t, RepoMatch{Repository: "r", LastFetched: &ts, Stars: 1234})
	assert.Contains(t, out, "Last synced 2024-03-01 12:30 UTC")
	assert.Contains(t, out, "★ 1.2k")
}

func TestFormatStars(t *testing.T) {
	for n, want := range map[int]string{0: "0", 999: "999", 1000: "1k", 1250: "1.2k", 9999: "9.9k", 23456: "23k"} {
		assert.Equal(t, want, FormatStars(n), "FormatStars(%d)", n)
	}
}

func TestRenderText(t *testing.T) {
	out := RenderText(RepoMatch{Repository: "github.com/a/b", Fork: true, Description: "hello"})
	assert.Contains(t, out, "a/b")
	assert.Contains(t, out, "Repository match")
	assert.Contains(t, out, "Fork")
	assert.Contains(t, out, "hello")
	assert.NotContains(t, out, "Archived")
}

func TestLoadMatches(t *testing.T) {
	matches, err := LoadMatches(strings.NewReader(`[
		{"repository":"github.com/a/b","fork":true,"repoStars":3,
		 "descriptionMatches":[{"start":{"offset":0},"end":{"offset":2}}]}
	]`))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.True(t, matches[0].Fork)
	assert.Equal(t, 3, matches[0].Stars)
	assert.Equal(t, 2, matches[0].DescriptionMatches[0].End.Offset)

	_, err = LoadMatches(strings.NewReader(`[{"description":"x"}]`))
	assert.True(t, errors.Is(err, errors.ErrCodeParse))

	_, err = LoadMatches(strings.NewReader(`{`))
	assert.True(t, errors.Is(err, errors.ErrCodeParse))
}

func TestRenderList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderList(&buf, []RepoMatch{{Repository: "a/b"}, {Repository: "c/d"}}))
	assert.Contains(t, buf.String(), `data-index="1"`)
	assert.Equal(t, 2, strings.Count(buf.String(), "<article"))
}
