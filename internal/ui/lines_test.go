package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderedLine(t *testing.T) {
	var buf bytes.Buffer
	RenderedLine(&buf, "fts/login.ft", "wiki/login.wiki", 2, 5)
	assert.Equal(t, "wiki  fts/login.ft -> wiki/login.wiki (2 sections, 5 steps)\n", buf.String())
}

func TestFailedLine(t *testing.T) {
	var buf bytes.Buffer
	FailedLine(&buf, "fts/bad.ft", errors.New("line 3: unexpected line: ???"))
	assert.Equal(t, "fail  fts/bad.ft: line 3: unexpected line: ???\n", buf.String())
}

func TestResultRow_Alignment(t *testing.T) {
	var buf bytes.Buffer
	ResultRow(&buf, "fts/a.ft:3", "passed", "", 12, 6)
	ResultRow(&buf, "fts/bb.ft:12", "failed", "boom", 12, 6)
	assert.Equal(t, "fts/a.ft:3    passed\nfts/bb.ft:12  failed  boom\n", buf.String())
}

func TestFormatRow(t *testing.T) {
	var buf bytes.Buffer
	FormatRow(&buf, "BOLD", "'''text'''", 8)
	assert.Equal(t, "BOLD      '''text'''\n", buf.String())
}
