package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mdspec/mdspec/internal/calc"
	"github.com/mdspec/mdspec/internal/store"
	"github.com/mdspec/mdspec/internal/ui"
	"github.com/mdspec/mdspec/runner"
)

var (
	rewriteFlag bool
	noStoreFlag bool
)

var runCmd = &cobra.Command{
	Use:   "run <pattern>",
	Short: "Run spec documents against the calculator handler",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunRun(cmd.Context(), cmd.OutOrStdout(), args[0], rewriteFlag, noStoreFlag)
	},
}

func init() {
	runCmd.Flags().BoolVar(&rewriteFlag, "rewrite", false, "Patch documents with actual outputs instead of comparing")
	runCmd.Flags().BoolVar(&noStoreFlag, "no-store", false, "Skip recording the run in history")
	rootCmd.AddCommand(runCmd)
}

func RunRun(ctx context.Context, w io.Writer, pattern string, rewrite, noStore bool) error {
	paths, err := runner.Glob(pattern)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no documents match %s", pattern)
	}

	rewrite = rewrite || runner.RewriteEnabled()
	r := runner.New(runner.Options{Rewrite: rewrite})

	var results []*runner.Result
	passed, failed, skipped := 0, 0, 0
	broken := 0

	for _, path := range paths {
		res, err := r.RunFile(ctx, path, calc.Handler)
		if err != nil {
			ui.FailLine(w, path, err.Error())
			broken++
			continue
		}

		results = append(results, res)
		p, f, s := res.Counts()
		passed, failed, skipped = passed+p, failed+f, skipped+s

		if res.Failed() {
			ui.FailLine(w, path, "")
			for _, ex := range res.Examples {
				if ex.Status != runner.Failed {
					continue
				}
				fmt.Fprintf(w, "      %s: %s\n", ex.Title, ex.Err)
				var mismatch *runner.MismatchError
				if errors.As(ex.Err, &mismatch) {
					ui.Diff(w, mismatch.Diff())
				}
			}
		} else {
			ui.OkLine(w, path)
		}
	}

	ui.SummaryLine(w, passed, failed, skipped)

	if !noStore && len(results) > 0 {
		mode := "compare"
		if rewrite {
			mode = "rewrite"
		}
		if err := recordRun(mode, results); err != nil {
			return err
		}
	}

	if failed > 0 || broken > 0 {
		return fmt.Errorf("%d failed examples, %d broken documents", failed, broken)
	}
	return nil
}

func recordRun(mode string, results []*runner.Result) error {
	st, err := store.Open(store.DefaultPath)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer st.Close()

	if _, err := st.RecordRun(mode, results); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}
