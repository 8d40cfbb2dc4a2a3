package runner

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mdspec/mdspec/spec"
)

// Runner executes spec documents in compare or rewrite mode.
type Runner struct {
	opts Options
}

// New returns a Runner with the given options.
func New(opts Options) *Runner {
	return &Runner{opts: opts}
}

// RunFile parses and executes the document at path. A parse failure is
// returned as the error and fails only this document. In rewrite mode the
// whole read-execute-write cycle runs under the document's file lock.
func (r *Runner) RunFile(ctx context.Context, path string, h Handler) (*Result, error) {
	if r.opts.Rewrite {
		return r.rewriteFile(ctx, path, h)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, errs := spec.Parse(path, content)
	if len(errs) > 0 {
		return nil, errs[0]
	}

	res, _, err := r.run(ctx, doc, h)
	return res, err
}

// RunDocument executes an already-parsed document, comparing outputs. It
// never touches the filesystem.
func (r *Runner) RunDocument(ctx context.Context, doc *spec.Document, h Handler) (*Result, error) {
	res, _, err := r.run(ctx, doc, h)
	return res, err
}

// run executes every example in document order. Ignored examples are
// skipped outright. An example failure never stops its siblings; a
// cancelled context does, so a rewrite cycle aborts before writing.
func (r *Runner) run(ctx context.Context, doc *spec.Document, h Handler) (*Result, []patch, error) {
	res := &Result{Path: doc.Path}
	var patches []patch

	for _, sec := range doc.ExampleSections() {
		if err := ctx.Err(); err != nil {
			return res, nil, err
		}

		ex := sec.Example
		if ex.Ignored {
			res.Examples = append(res.Examples, ExampleResult{Title: ex.Title, Status: Skipped})
			continue
		}

		env, _ := doc.Resolve(sec)
		inputs := make(map[string]string, len(ex.When))
		for _, b := range ex.When {
			inputs[b.Name] = b.Value
		}

		rex := &Example{
			Title:   ex.Title,
			Inputs:  inputs,
			Env:     env,
			outputs: make(map[string]string),
		}
		if err := h(ctx, rex); err != nil {
			res.Examples = append(res.Examples, ExampleResult{
				Title:  ex.Title,
				Status: Failed,
				Err:    fmt.Errorf("handler: %w", err),
			})
			continue
		}

		er := ExampleResult{Title: ex.Title, Status: Passed}
		var exPatches []patch
		for _, then := range ex.Then {
			actual, ok := rex.outputs[then.Name]
			if !ok {
				er.Status = Failed
				er.Err = fmt.Errorf("handler recorded no output for `%s` in example %q", then.Name, ex.Title)
				break
			}

			if r.opts.Rewrite {
				exPatches = append(exPatches, patch{
					start: then.Start,
					end:   then.End,
					text:  fenceText(actual),
				})
				continue
			}

			if trimNewline(actual) != trimNewline(then.Value) {
				er.Status = Failed
				er.Err = &MismatchError{
					Example:  ex.Title,
					Key:      then.Name,
					Inputs:   inputs,
					Expected: then.Value,
					Actual:   actual,
				}
				break
			}
		}

		// A failed example keeps its documented output untouched.
		if er.Status == Passed {
			patches = append(patches, exPatches...)
		}
		res.Examples = append(res.Examples, er)
	}

	return res, patches, nil
}

// trimNewline removes at most one trailing newline. Internal whitespace is
// never normalized.
func trimNewline(s string) string {
	return strings.TrimSuffix(s, "\n")
}

// fenceText normalizes an actual output for writing back into a fenced
// block: the closing fence must start on its own line.
func fenceText(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
