package runner

// Status is the outcome of one example.
type Status int

const (
	Passed Status = iota
	Failed
	Skipped
)

func (s Status) String() string {
	switch s {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// ExampleResult is the outcome of one example within a document.
type ExampleResult struct {
	Title  string
	Status Status
	Err    error // set when Status == Failed
}

// Result is the outcome of one document run.
type Result struct {
	Path     string
	Examples []ExampleResult
}

// Failed reports whether any example in the document failed.
func (r *Result) Failed() bool {
	for _, ex := range r.Examples {
		if ex.Status == Failed {
			return true
		}
	}
	return false
}

// Counts returns the number of passed, failed, and skipped examples.
func (r *Result) Counts() (passed, failed, skipped int) {
	for _, ex := range r.Examples {
		switch ex.Status {
		case Passed:
			passed++
		case Failed:
			failed++
		case Skipped:
			skipped++
		}
	}
	return passed, failed, skipped
}
