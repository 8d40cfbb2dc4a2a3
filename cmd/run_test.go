package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRun_Passes(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "calc.md", validDoc)

	var out bytes.Buffer
	err := RunRun(context.Background(), &out, filepath.Join(dir, "*.md"), false, true)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "1 passed, 0 failed, 0 skipped")
}

func TestRunRun_FailureShowsDiff(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "calc.md", `# Calculator

## Example: wrong answer

When 'input' is:

`+"```"+`
1 + 2
`+"```"+`

Then 'result' is:

`+"```"+`
4
`+"```"+`
`)

	var out bytes.Buffer
	err := RunRun(context.Background(), &out, filepath.Join(dir, "*.md"), false, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 failed examples")
	assert.Contains(t, out.String(), "wrong answer")
	assert.Contains(t, out.String(), "-4")
	assert.Contains(t, out.String(), "+3")
	assert.Contains(t, out.String(), "0 passed, 1 failed, 0 skipped")
}

func TestRunRun_RewriteUpdatesDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "calc.md", `# Calculator

## Example: stale answer

When 'input' is:

`+"```"+`
1 + 2
`+"```"+`

Then 'result' is:

`+"```"+`
999
`+"```"+`
`)

	var out bytes.Buffer
	err := RunRun(context.Background(), &out, filepath.Join(dir, "*.md"), true, true)
	require.NoError(t, err)

	got := readFixture(t, path)
	assert.Contains(t, got, "```\n3\n```")
	assert.NotContains(t, got, "999")
}

func TestRunRun_MalformedDocumentIsBroken(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "bad.md", malformedDoc)

	var out bytes.Buffer
	err := RunRun(context.Background(), &out, filepath.Join(dir, "*.md"), false, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 broken documents")
}
