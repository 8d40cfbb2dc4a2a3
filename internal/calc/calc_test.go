package calc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noVars(name string) (float64, error) {
	return 0, fmt.Errorf("unknown variable `%s`", name)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"1 + 2", 3},
		{"2 * 3 + 4", 10},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 / 4", 2.5},
		{"-3 + 5", 2},
		{"--4", 4},
		{"1.5 * 2", 3},
		{"2 * pi / pi", 2},
		{"e / e", 1},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Evaluate(tc.input, noVars)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-12)
		})
	}
}

func TestEvaluate_Variables(t *testing.T) {
	lookup := func(name string) (float64, error) {
		switch name {
		case "x":
			return 5, nil
		case "y":
			return 7, nil
		}
		return noVars(name)
	}

	got, err := Evaluate("3 + x + y", lookup)
	require.NoError(t, err)
	assert.Equal(t, 15.0, got)

	got, err = Evaluate("(y * 2) / x", lookup)
	require.NoError(t, err)
	assert.Equal(t, 2.8, got)

	_, err = Evaluate("x + z", lookup)
	require.EqualError(t, err, "unknown variable `z`")
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"1 / 0", "division by zero"},
		{"1 + 2 )", `unexpected ")" in expression`},
		{"(1 + 2", "missing closing parenthesis"},
		{"1 +", "unexpected end of expression"},
		{"", "unexpected end of expression"},
		{"1 & 2", `unexpected "&" in expression`},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			_, err := Evaluate(tc.input, noVars)
			require.EqualError(t, err, tc.msg)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "15", Format(15))
	assert.Equal(t, "2.8", Format(2.8))
	assert.Equal(t, "6.283185307179586", Format(6.283185307179586))
}
