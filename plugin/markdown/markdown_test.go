package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTML(t *testing.T) {
	svc := NewService()

	html, err := svc.RenderHTML("usage: **polite** form of eat")
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>polite</strong>")
}

func TestRenderHTMLEscapesRawHTML(t *testing.T) {
	svc := NewService()

	html, err := svc.RenderHTML(`<script>alert("x")</script>`)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRenderHTMLHardWraps(t *testing.T) {
	svc := NewService(WithHardWraps())

	html, err := svc.RenderHTML("line one\nline two")
	require.NoError(t, err)
	assert.Contains(t, html, "<br")
}
