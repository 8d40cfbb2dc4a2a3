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

var checkCmd = &cobra.Command{
	Use:   "check <pattern>",
	Short: "Parse spec documents and report malformed ones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunCheck(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func RunCheck(w io.Writer, pattern string) error {
	paths, err := runner.Glob(pattern)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no documents match %s", pattern)
	}

	ok, malformed := 0, 0
	for _, path := range paths {
		if err := checkOne(w, path); err != nil {
			malformed++
		} else {
			ok++
		}
	}

	ui.CheckSummary(w, ok, malformed)
	if malformed > 0 {
		return fmt.Errorf("%d malformed documents", malformed)
	}
	return nil
}

func checkOne(w io.Writer, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		ui.FailLine(w, path, err.Error())
		return err
	}

	_, errs := spec.Parse(path, content)
	if len(errs) > 0 {
		detail := ""
		for _, perr := range errs {
			if detail != "" {
				detail += "\n"
			}
			detail += fmt.Sprintf("line %d, column %d: %s", perr.Line, perr.Column, perr.Message)
		}
		ui.FailLine(w, path, detail)
		return errs[0]
	}

	ui.OkLine(w, path)
	return nil
}
