package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `---
subject: Verify your email
---
Click [here](https://example.com/verify?token=abc) to verify.
`

func TestParseWithFrontmatter(t *testing.T) {
	html, meta, err := NewParser().ParseWithFrontmatter([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "Verify your email", meta["subject"])
	assert.Contains(t, string(html), `<a href="https://example.com/verify?token=abc">here</a>`)
	assert.NotContains(t, string(html), "subject:")
}

func TestParseWithoutFrontmatter(t *testing.T) {
	html, meta, err := NewParser().ParseWithFrontmatter([]byte("plain *text*"))
	require.NoError(t, err)

	assert.Empty(t, meta)
	assert.Contains(t, string(html), "<em>text</em>")
}

func TestBody(t *testing.T) {
	assert.Equal(t, "Click [here](https://example.com/verify?token=abc) to verify.\n", string(Body([]byte(doc))))
	assert.Equal(t, "no frontmatter", string(Body([]byte("no frontmatter"))))
}
