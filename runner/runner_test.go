package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdspec/mdspec/spec"
)

// md rewrites single quotes to backticks so fixtures can live in raw
// string literals.
func md(s string) string {
	return strings.ReplaceAll(s, "'", "`")
}

func parseDoc(t *testing.T, content string) *spec.Document {
	t.Helper()
	doc, errs := spec.Parse("doc.md", []byte(md(content)))
	require.Empty(t, errs)
	return doc
}

// echoHandler copies the `in` input to the `out` output, uppercased.
func echoHandler(ctx context.Context, ex *Example) error {
	in, err := ex.Input("in")
	if err != nil {
		return err
	}
	ex.Output("out", strings.ToUpper(in))
	return nil
}

const passingDoc = `# Echo

## Example: uppercases

When 'in' is:

` + "```" + `
hello
` + "```" + `

Then 'out' is:

` + "```" + `
HELLO
` + "```" + `
`

func TestRunDocument_Passes(t *testing.T) {
	doc := parseDoc(t, passingDoc)
	r := New(Options{})

	res, err := r.RunDocument(context.Background(), doc, echoHandler)
	require.NoError(t, err)

	require.Len(t, res.Examples, 1)
	assert.Equal(t, "uppercases", res.Examples[0].Title)
	assert.Equal(t, Passed, res.Examples[0].Status)
	assert.False(t, res.Failed())
}

func TestRunDocument_Mismatch(t *testing.T) {
	doc := parseDoc(t, `# Echo

## Example: wrong expectation

When 'in' is:

`+"```"+`
hello
`+"```"+`

Then 'out' is:

`+"```"+`
GOODBYE
`+"```"+`
`)
	r := New(Options{})

	res, err := r.RunDocument(context.Background(), doc, echoHandler)
	require.NoError(t, err)

	require.Len(t, res.Examples, 1)
	assert.Equal(t, Failed, res.Examples[0].Status)

	var mismatch *MismatchError
	require.ErrorAs(t, res.Examples[0].Err, &mismatch)
	assert.Equal(t, "out", mismatch.Key)
	assert.Equal(t, "wrong expectation", mismatch.Example)
	assert.Contains(t, mismatch.Diff(), "-GOODBYE")
	assert.Contains(t, mismatch.Diff(), "+HELLO")
	assert.Contains(t, mismatch.Error(), "when `in` is: hello")
}

func TestRunDocument_TrailingNewlineInsignificant(t *testing.T) {
	doc := parseDoc(t, passingDoc)
	r := New(Options{})

	// The documented value carries the fence's trailing newline; the
	// handler output does not. Exactly one trailing newline is forgiven.
	h := func(ctx context.Context, ex *Example) error {
		ex.Output("out", "HELLO")
		return nil
	}
	res, err := r.RunDocument(context.Background(), doc, h)
	require.NoError(t, err)
	assert.Equal(t, Passed, res.Examples[0].Status)

	h2 := func(ctx context.Context, ex *Example) error {
		ex.Output("out", "HELLO\n\n")
		return nil
	}
	res, err = r.RunDocument(context.Background(), doc, h2)
	require.NoError(t, err)
	assert.Equal(t, Failed, res.Examples[0].Status)
}

func TestRunDocument_IgnoredExampleSkipped(t *testing.T) {
	doc := parseDoc(t, `# Echo

## Example: not done yet (ignored)

When 'in' is:

`+"```"+`
hello
`+"```"+`

Then 'out' is:

`+"```"+`
whatever
`+"```"+`
`)
	r := New(Options{})

	called := false
	h := func(ctx context.Context, ex *Example) error {
		called = true
		return nil
	}
	res, err := r.RunDocument(context.Background(), doc, h)
	require.NoError(t, err)

	require.Len(t, res.Examples, 1)
	assert.Equal(t, Skipped, res.Examples[0].Status)
	assert.Equal(t, "not done yet", res.Examples[0].Title)
	assert.False(t, called)
}

func TestRunDocument_HandlerErrorFailsExampleOnly(t *testing.T) {
	doc := parseDoc(t, `# Echo

## Example: first

When 'in' is:

`+"```"+`
boom
`+"```"+`

Then 'out' is:

`+"```"+`
BOOM
`+"```"+`

## Example: second

When 'in' is:

`+"```"+`
fine
`+"```"+`

Then 'out' is:

`+"```"+`
FINE
`+"```"+`
`)
	r := New(Options{})

	h := func(ctx context.Context, ex *Example) error {
		in, err := ex.Input("in")
		if err != nil {
			return err
		}
		if strings.TrimSpace(in) == "boom" {
			return errors.New("exploded")
		}
		ex.Output("out", strings.ToUpper(strings.TrimSpace(in))+"\n")
		return nil
	}
	res, err := r.RunDocument(context.Background(), doc, h)
	require.NoError(t, err)

	require.Len(t, res.Examples, 2)
	assert.Equal(t, Failed, res.Examples[0].Status)
	assert.Contains(t, res.Examples[0].Err.Error(), "exploded")
	assert.Equal(t, Passed, res.Examples[1].Status)
}

func TestRunDocument_MissingOutputFails(t *testing.T) {
	doc := parseDoc(t, passingDoc)
	r := New(Options{})

	h := func(ctx context.Context, ex *Example) error {
		return nil // records nothing
	}
	res, err := r.RunDocument(context.Background(), doc, h)
	require.NoError(t, err)

	assert.Equal(t, Failed, res.Examples[0].Status)
	assert.Contains(t, res.Examples[0].Err.Error(), "no output for `out`")
}

func TestRunDocument_UnresolvedInput(t *testing.T) {
	doc := parseDoc(t, passingDoc)
	r := New(Options{})

	h := func(ctx context.Context, ex *Example) error {
		_, err := ex.Input("missing")
		return err
	}
	res, err := r.RunDocument(context.Background(), doc, h)
	require.NoError(t, err)

	assert.Equal(t, Failed, res.Examples[0].Status)
	var unresolved *UnresolvedInputError
	require.ErrorAs(t, res.Examples[0].Err, &unresolved)
	assert.Equal(t, "missing", unresolved.Name)
}

func TestRunDocument_BackgroundVisibleToHandler(t *testing.T) {
	doc := parseDoc(t, `# Echo

## Background

Given 'greeting' as:

`+"```"+`
hi
`+"```"+`

## Example: reads context

When 'in' is:

`+"```"+`
x
`+"```"+`

Then 'out' is:

`+"```"+`
hi
`+"```"+`
`)
	r := New(Options{})

	h := func(ctx context.Context, ex *Example) error {
		g, err := ex.Context("greeting")
		if err != nil {
			return err
		}
		ex.Output("out", g)
		return nil
	}
	res, err := r.RunDocument(context.Background(), doc, h)
	require.NoError(t, err)
	assert.Equal(t, Passed, res.Examples[0].Status)
}

func TestRunDocument_CancelledContextStops(t *testing.T) {
	doc := parseDoc(t, passingDoc)
	r := New(Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.RunDocument(ctx, doc, echoHandler)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunDocument_FailRecordsComparableOutput(t *testing.T) {
	doc := parseDoc(t, `# Echo

## Example: documented failure

When 'in' is:

`+"```"+`
x
`+"```"+`

Then 'out' is:

`+"```"+`
no such thing
`+"```"+`
`)
	r := New(Options{})

	h := func(ctx context.Context, ex *Example) error {
		ex.Fail("out", fmt.Errorf("no such thing"))
		return nil
	}
	res, err := r.RunDocument(context.Background(), doc, h)
	require.NoError(t, err)
	assert.Equal(t, Passed, res.Examples[0].Status)
}

func TestResultCounts(t *testing.T) {
	res := &Result{Examples: []ExampleResult{
		{Status: Passed}, {Status: Passed}, {Status: Failed}, {Status: Skipped},
	}}
	p, f, s := res.Counts()
	assert.Equal(t, 2, p)
	assert.Equal(t, 1, f)
	assert.Equal(t, 1, s)
	assert.True(t, res.Failed())
}

func TestRewriteEnabled(t *testing.T) {
	for _, v := range []string{"", "false", "off", "0", "FALSE", "Off"} {
		t.Setenv(rewriteEnv, v)
		assert.False(t, RewriteEnabled(), "value %q", v)
	}
	for _, v := range []string{"1", "true", "yes", "anything"} {
		t.Setenv(rewriteEnv, v)
		assert.True(t, RewriteEnabled(), "value %q", v)
	}
}
