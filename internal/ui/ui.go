// Package ui renders mdspec console output.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	skipStyle = lipgloss.NewStyle().Faint(true)
	addStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	delStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func OkLine(w io.Writer, path string) {
	fmt.Fprintln(w, okStyle.Render("ok")+"    "+path)
}

func FailLine(w io.Writer, path string, detail string) {
	fmt.Fprintln(w, failStyle.Render("fail")+"  "+path)
	if detail != "" {
		fmt.Fprintln(w, indent(detail, "      "))
	}
}

func SkipLine(w io.Writer, path string) {
	fmt.Fprintln(w, skipStyle.Render("skip")+"  "+path)
}

func SummaryLine(w io.Writer, passed, failed, skipped int) {
	fmt.Fprintf(w, "%d passed, %d failed, %d skipped\n", passed, failed, skipped)
}

func CheckSummary(w io.Writer, ok, malformed int) {
	fmt.Fprintf(w, "checked %d documents, %d malformed\n", ok+malformed, malformed)
}

// Diff colors unified diff lines: additions green, deletions red.
func Diff(w io.Writer, diff string) {
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			fmt.Fprintln(w, addStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprintln(w, delStyle.Render(line))
		default:
			fmt.Fprintln(w, line)
		}
	}
}

// ListRow prints one aligned example row for the list command.
func ListRow(w io.Writer, path, title, state string, pathWidth, titleWidth int) {
	rendered := state
	if state == "ignored" {
		rendered = skipStyle.Render(state)
	}
	fmt.Fprintf(w, "%-*s  %-*s  %s\n", pathWidth, path, titleWidth, title, rendered)
}

func StatusRow(w io.Writer, path, outcome, detail string) {
	rendered := outcome
	switch outcome {
	case "ok":
		rendered = okStyle.Render(outcome)
	case "fail":
		rendered = failStyle.Render(outcome)
	}
	fmt.Fprintf(w, "%s    %s  %s\n", rendered, path, detail)
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
