package fetch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	html := `<html><body><h1>Title</h1><script>alert(1)</script><p>First   paragraph</p>
	<p>Second</p></body></html>`

	text, err := PlainText(html)
	require.NoError(t, err)
	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "Second")
	assert.NotContains(t, text, "alert")
}

func TestSanitize_RemovesActiveContent(t *testing.T) {
	html := `<p onclick="steal()">Hello <a href="javascript:alert(1)">x</a> <a href="https://example.com">ok</a></p>
	<script>alert('xss')</script><iframe src="https://evil.example"></iframe><img src="a.png" onerror="x()">`

	out, err := Sanitize(html)
	require.NoError(t, err)

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "<iframe")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "onerror")
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, `src="a.png"`)
	assert.Contains(t, out, "Hello")
}

func TestSanitize_BlocksAttributeRewritesAndObfuscatedURLs(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{
			name: "svg animate rewriting href",
			html: `<svg><a><animate attributeName="href" values="javascript:alert(1)"></animate><text x="20" y="20">click</text></a></svg>`,
		},
		{
			name: "svg set adding event handler",
			html: `<svg><set attributeName="onmouseover" to="alert(1)"></set></svg>`,
		},
		{
			name: "control character before scheme",
			html: `<a href="&#1;javascript:alert(1)">x</a>`,
		},
		{
			name: "tab inside scheme",
			html: `<a href="java&#9;script:alert(1)">x</a>`,
		},
		{
			name: "animate outside svg",
			html: `<p><animate attributename="href" values="javascript:alert(1)"></animate>text</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Sanitize(tt.html)
			require.NoError(t, err)
			lower := strings.ToLower(out)
			assert.NotContains(t, lower, "javascript")
			assert.NotContains(t, lower, "alert")
			assert.NotContains(t, lower, "<animate")
			assert.NotContains(t, lower, "<set")
			assert.NotContains(t, lower, "attributename")
		})
	}
}

func TestSanitize_KeepsFormattingAttributes(t *testing.T) {
	out, err := Sanitize(`<pre class="lang-go" style="color:red" data-x="1"><code>x := 1</code></pre><img src="a.png" alt="diagram" width="10">`)
	require.NoError(t, err)
	assert.Contains(t, out, `class="lang-go"`)
	assert.Contains(t, out, `alt="diagram"`)
	assert.Contains(t, out, `width="10"`)
	assert.NotContains(t, out, "style=")
	assert.NotContains(t, out, "data-x")
}

func TestSummarize(t *testing.T) {
	html := "<p>" + strings.Repeat("word ", 100) + "</p>"

	summary, err := Summarize(html, 30)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(summary, "…"))
	assert.LessOrEqual(t, len([]rune(summary)), 31)

	short, err := Summarize("<p>Short text</p>", 30)
	require.NoError(t, err)
	assert.Equal(t, "Short text", short)
}

func TestReadTimeMinutes(t *testing.T) {
	assert.Equal(t, 1, ReadTimeMinutes(""))
	assert.Equal(t, 1, ReadTimeMinutes(strings.Repeat("w ", 150)))
	assert.Equal(t, 2, ReadTimeMinutes(strings.Repeat("w ", 201)))
	assert.Equal(t, 5, ReadTimeMinutes(strings.Repeat("w ", 1000)))
}
