package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mdspec/mdspec/internal/ui"
	"github.com/mdspec/mdspec/runner"
	"github.com/mdspec/mdspec/spec"
)

var ignoredOnlyFlag bool

var listCmd = &cobra.Command{
	Use:   "list <pattern>",
	Short: "List the examples declared in spec documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), args[0], ignoredOnlyFlag)
	},
}

func init() {
	listCmd.Flags().BoolVar(&ignoredOnlyFlag, "ignored", false, "Show only ignored examples")
	rootCmd.AddCommand(listCmd)
}

type listRow struct {
	path  string
	title string
	state string
}

func RunList(w io.Writer, pattern string, ignoredOnly bool) error {
	paths, err := runner.Glob(pattern)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no documents match %s", pattern)
	}

	var rows []listRow
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		doc, errs := spec.Parse(path, content)
		if len(errs) > 0 {
			return errs[0]
		}

		for _, sec := range doc.ExampleSections() {
			ex := sec.Example
			state := fmt.Sprintf("%d when, %d then", len(ex.When), len(ex.Then))
			if ex.Ignored {
				state = "ignored"
			}
			if ignoredOnly && !ex.Ignored {
				continue
			}
			rows = append(rows, listRow{path: path, title: ex.Title, state: state})
		}
	}

	if len(rows) == 0 {
		return nil
	}

	pathWidth, titleWidth := 0, 0
	for _, r := range rows {
		if len(r.path) > pathWidth {
			pathWidth = len(r.path)
		}
		if len(r.title) > titleWidth {
			titleWidth = len(r.title)
		}
	}

	for _, r := range rows {
		ui.ListRow(w, r.path, r.title, r.state, pathWidth, titleWidth)
	}
	return nil
}
