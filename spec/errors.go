package spec

import "fmt"

// ParseError describes a malformed construct in a spec document.
type ParseError struct {
	Path    string
	Line    int // 1-based
	Column  int // 1-based
	Message string
}

func (e ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
}

// position maps a byte offset in input to a 1-based line and column.
func position(input string, offset int) (line, col int) {
	line, col = 1, 1
	for i := 0; i < offset && i < len(input); i++ {
		if input[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
