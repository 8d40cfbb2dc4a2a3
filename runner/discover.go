package runner

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
)

// Glob returns the spec documents matching a doublestar pattern such as
// "testdata/**/*.md", sorted for a stable run order.
func Glob(pattern string) ([]string, error) {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", pattern, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// TestSpecs registers one subtest per document matching pattern, each
// bound to the handler. Rewrite mode follows the REWRITE_SPECS environment
// variable. A document that fails to parse fails its own subtest only.
func TestSpecs(t *testing.T, pattern string, h Handler) {
	t.Helper()
	TestSpecsWith(t, pattern, h, Options{Rewrite: RewriteEnabled()})
}

// TestSpecsWith is TestSpecs with explicit options. With Options.Parallel
// the document subtests run concurrently; examples within each document
// still run strictly in document order.
func TestSpecsWith(t *testing.T, pattern string, h Handler, opts Options) {
	t.Helper()

	paths, err := Glob(pattern)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatalf("pattern %s matched no spec documents", pattern)
	}

	r := New(opts)
	for _, path := range paths {
		t.Run(subtestName(path), func(t *testing.T) {
			if opts.Parallel {
				t.Parallel()
			}

			res, err := r.RunFile(t.Context(), path, h)
			if err != nil {
				t.Fatal(err)
			}
			for _, ex := range res.Examples {
				if ex.Status == Failed {
					t.Errorf("%v", ex.Err)
				}
			}
		})
	}
}

// subtestName flattens a document path into a test-friendly name.
func subtestName(path string) string {
	name := strings.TrimSuffix(path, ".md")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}
