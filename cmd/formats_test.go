package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/ftwiki/internal/markup"
)

func TestFormats_ListsEveryRole(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RunFormats(&buf, nil))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, len(markup.Roles()))

	assert.Contains(t, buf.String(), "=text=")
	assert.Contains(t, buf.String(), "'''text'''")
	assert.Contains(t, buf.String(), "{{color|red|text}}")
	assert.Contains(t, buf.String(), `<th style="border:none">text</th>`)
}

func TestFormats_NamedRoles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RunFormats(&buf, []string{"BOLD", "COLOR_B"}))

	assert.Equal(t,
		"BOLD     '''text'''\n"+
			"COLOR_B  {{color|red|text}}\n",
		buf.String())
}

func TestFormats_UnknownRole(t *testing.T) {
	var buf bytes.Buffer
	err := RunFormats(&buf, []string{"BLINK"})

	assert.ErrorIs(t, err, markup.ErrNoRule)
	assert.Empty(t, buf.String())
}
