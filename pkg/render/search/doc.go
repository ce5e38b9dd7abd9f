// Package search renders a repository match from code search results.
//
// A [RepoMatch] becomes either an HTML fragment ([RenderHTML]) or styled
// terminal text ([RenderText]). Both show the repository name, the
// "Repository match" label, the Fork/Archived/Private badges that apply,
// the star count, when the repository was last synced, and the
// description: cut at [DescriptionLimit] characters with " ..." appended
// and with the matched ranges highlighted.
package search
