package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	buf := &bytes.Buffer{}
	PrintBanner(buf, "tool agent")

	out := buf.String()
	assert.Contains(t, out, "tool agent")
	assert.GreaterOrEqual(t, strings.Count(out, "\n"), 7)
}

func TestRendererFor_NonTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
	assert.Nil(t, RendererFor(&bytes.Buffer{}))
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()
	require.NotNil(t, render)

	out, err := render("**bold** text")
	require.NoError(t, err)
	assert.Contains(t, out, "bold")
}
