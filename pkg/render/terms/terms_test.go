package terms

import (
	"bytes"
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, Options{}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<div class="non-transcript-container">`))
	assert.True(t, strings.HasSuffix(out, "</div>\n"))
	assert.Contains(t, out, `<p class="terms-header-container">Notice and Usage Policies</p>`)
	assert.Contains(t, out, `<p class="terms-header-container">FAQs</p>`)
	assert.Contains(t, out, "Sourcegraph Cody is an AI coding assistant")
	assert.Contains(t, out, `<a href="https://www.anthropic.com/aup">Anthropic Acceptable Use Policy</a>`)
	assert.Contains(t, out, `<p class="question">Q: Will my queries to Cody be shared with any third parties?</p>`)
	assert.Contains(t, out, `<p class="answer">A: No.</p>`)
	assert.Contains(t, out, `<a href="https://docs.sourcegraph.com/cody" class="cta">`)

	// The policy paragraphs are plain.
	assert.NotContains(t, out, `<p class="question">Accuracy`)
	assert.Equal(t, 2, strings.Count(out, `<div class="terms-container">`))
}

func TestRenderHTMLAcceptButton(t *testing.T) {
	var buf bytes.Buffer
	button := `<button class="accept">Accept</button>`
	require.NoError(t, RenderHTML(&buf, Options{AcceptButton: template.HTML(button)}))
	out := buf.String()

	idx := strings.Index(out, button)
	require.NotEqual(t, -1, idx)
	assert.Greater(t, idx, strings.LastIndex(out, `<div class="terms-container">`))
	assert.True(t, strings.HasSuffix(out, button+"\n</div>\n"))

	var plain bytes.Buffer
	require.NoError(t, RenderHTML(&plain, Options{}))
	assert.NotContains(t, plain.String(), "<button")
}

func TestMarkdown(t *testing.T) {
	src, err := Markdown()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(src, "## Notice and Usage Policies\n\n"))
	assert.Contains(t, src, "\n## FAQs\n\n")
	assert.Contains(t, src, "A: No.")
}
