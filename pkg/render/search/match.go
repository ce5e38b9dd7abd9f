package search

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/matzehuels/stacknotes/pkg/errors"
)

// DescriptionLimit is the number of description characters shown before
// the text is cut.
const DescriptionLimit = 500

// Location is a position in a text.
type Location struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is a half-open [Start.Offset, End.Offset) span of characters.
type Range struct {
	Start Location `json:"start"`
	End   Location `json:"end"`
}

// RepoMatch is a repository result in the search stream format.
type RepoMatch struct {
	Repository         string     `json:"repository"`
	Description        string     `json:"description,omitempty"`
	Fork               bool       `json:"fork,omitempty"`
	Archived           bool       `json:"archived,omitempty"`
	Private            bool       `json:"private,omitempty"`
	Stars              int        `json:"repoStars,omitempty"`
	LastFetched        *time.Time `json:"repoLastFetched,omitempty"`
	DescriptionMatches []Range    `json:"descriptionMatches,omitempty"`
	Branches           []string   `json:"branches,omitempty"`
}

// Label is a badge shown next to the match type.
type Label struct {
	Text      string
	AriaLabel string
	Icon      string
}

// Labels returns the badges for m in display order: Fork, Archived,
// Private. Flags that are not set produce no badge.
func Labels(m RepoMatch) []Label {
	var out []Label
	if m.Fork {
		out = append(out, Label{Text: "Fork", AriaLabel: "Forked repository", Icon: "fork"})
	}
	if m.Archived {
		out = append(out, Label{Text: "Archived", AriaLabel: "Archived repository", Icon: "archive"})
	}
	if m.Private {
		out = append(out, Label{Text: "Private", AriaLabel: "Private repository", Icon: "lock"})
	}
	return out
}

// TruncateDescription returns s unchanged when it has at most
// DescriptionLimit characters, and otherwise its first DescriptionLimit
// characters followed by " ...".
func TruncateDescription(s string) string {
	r := []rune(s)
	if len(r) <= DescriptionLimit {
		return s
	}
	return string(r[:DescriptionLimit]) + " ..."
}

// Label returns the repository name with the first branch, if any.
func (m RepoMatch) Label() string {
	if len(m.Branches) > 0 && m.Branches[0] != "" {
		return m.Repository + "@" + m.Branches[0]
	}
	return m.Repository
}

// URL returns the site-relative link to the repository.
func (m RepoMatch) URL() string {
	return "/" + m.Label()
}

// DisplayName drops a leading host segment ("github.com/") from names
// with at least three segments.
func DisplayName(repo string) string {
	parts := strings.Split(repo, "/")
	if len(parts) >= 3 && strings.Contains(parts[0], ".") {
		parts = parts[1:]
	}
	return strings.Join(parts, "/")
}

// Segment is a run of description text, highlighted when Match is set.
type Segment struct {
	Text  string
	Match bool
}

// Highlight splits the visible (truncated) description into segments,
// marking the characters covered by m.DescriptionMatches. Ranges are
// clipped to the visible text; overlapping ranges merge.
func Highlight(m RepoMatch) []Segment {
	visible := []rune(TruncateDescription(m.Description))
	if len(visible) == 0 {
		return nil
	}
	limit := min(len(visible), DescriptionLimit)
	marked := make([]bool, len(visible))
	for _, r := range m.DescriptionMatches {
		start := max(r.Start.Offset, 0)
		end := min(r.End.Offset, limit)
		for i := start; i < end; i++ {
			marked[i] = true
		}
	}

	var segs []Segment
	start := 0
	for i := 1; i <= len(visible); i++ {
		if i == len(visible) || marked[i] != marked[start] {
			segs = append(segs, Segment{Text: string(visible[start:i]), Match: marked[start]})
			start = i
		}
	}
	return segs
}

// LoadMatches decodes a JSON array of repository matches.
func LoadMatches(r io.Reader) ([]RepoMatch, error) {
	var matches []RepoMatch
	if err := json.NewDecoder(r).Decode(&matches); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "decode repository matches")
	}
	for i, m := range matches {
		if m.Repository == "" {
			return nil, errors.New(errors.ErrCodeParse, "match %d has no repository", i)
		}
	}
	return matches, nil
}

// FormatStars abbreviates star counts: 950, 1.2k, 23k.
func FormatStars(n int) string {
	switch {
	case n < 1000:
		return itoa(n)
	case n < 10000:
		s := itoa(n / 100)
		if s[len(s)-1] == '0' {
			return s[:len(s)-1] + "k"
		}
		return s[:len(s)-1] + "." + s[len(s)-1:] + "k"
	default:
		return itoa(n/1000) + "k"
	}
}
