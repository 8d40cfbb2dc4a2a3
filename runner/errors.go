package runner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// UnresolvedInputError reports an example referencing a name absent from
// its inputs or resolved context.
type UnresolvedInputError struct {
	Example string
	Name    string
}

func (e *UnresolvedInputError) Error() string {
	return fmt.Sprintf("unresolved input `%s` in example %q", e.Name, e.Example)
}

// MismatchError reports an actual output differing from the documented
// expected output in compare mode.
type MismatchError struct {
	Example  string
	Key      string
	Inputs   map[string]string
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "unexpected `%s` in example %q\n", e.Key, e.Example)

	names := make([]string, 0, len(e.Inputs))
	for name := range e.Inputs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  when `%s` is: %s\n", name, strings.TrimRight(e.Inputs[name], "\n"))
	}

	b.WriteString(e.Diff())
	return strings.TrimRight(b.String(), "\n")
}

// Diff renders a unified diff of expected vs. actual.
func (e *MismatchError) Diff() string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(e.Expected),
		B:        difflib.SplitLines(e.Actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		return fmt.Sprintf("expected:\n%s\nactual:\n%s\n", e.Expected, e.Actual)
	}
	return diff
}
