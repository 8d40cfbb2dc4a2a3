package calc

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mdspec/mdspec/runner"
)

// Handler evaluates the `input` expression of each example against its
// resolved context and records the `result` output. Evaluation failures
// become the example's output text; a variable missing from the context
// surfaces as an unresolved input.
func Handler(ctx context.Context, ex *runner.Example) error {
	input, err := ex.Input("input")
	if err != nil {
		return err
	}

	v, err := Evaluate(input, func(name string) (float64, error) {
		text, err := ex.Context(name)
		if err != nil {
			return 0, err
		}
		f, perr := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if perr != nil {
			return 0, fmt.Errorf("cannot parse `%s` as a number", name)
		}
		return f, nil
	})
	if err != nil {
		var unresolved *runner.UnresolvedInputError
		if errors.As(err, &unresolved) {
			return err
		}
		ex.Fail("result", err)
		return nil
	}

	ex.Output("result", Format(v))
	return nil
}
