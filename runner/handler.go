package runner

import "context"

// Handler produces actual outputs for one example. Implementations may
// block on ctx; the engine itself never suspends outside the handler call.
// Returning an error fails the example. A domain failure that should be
// compared (or written back) as the example's output goes through Fail
// instead.
type Handler func(ctx context.Context, ex *Example) error

// Example is the executable view of one spec example: its When inputs, the
// background context resolved for it, and the outputs recorded by the
// handler.
type Example struct {
	Title  string
	Inputs map[string]string
	Env    map[string]string

	outputs map[string]string
}

// Input returns the named When binding, or an UnresolvedInputError.
func (e *Example) Input(name string) (string, error) {
	if v, ok := e.Inputs[name]; ok {
		return v, nil
	}
	return "", &UnresolvedInputError{Example: e.Title, Name: name}
}

// Context returns the named background binding, or an UnresolvedInputError.
func (e *Example) Context(name string) (string, error) {
	if v, ok := e.Env[name]; ok {
		return v, nil
	}
	return "", &UnresolvedInputError{Example: e.Title, Name: name}
}

// Output records the actual text for a declared Then name.
func (e *Example) Output(name, text string) {
	e.outputs[name] = text
}

// Fail records a failure description as the actual text for a declared
// Then name. It is compared and rewritten like any success value.
func (e *Example) Fail(name string, err error) {
	e.outputs[name] = err.Error()
}
