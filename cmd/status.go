package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mdspec/mdspec/internal/store"
	"github.com/mdspec/mdspec/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show each document's outcome in its most recent run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStatus(cmd.OutOrStdout(), store.DefaultPath)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func RunStatus(w io.Writer, dbPath string) error {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(w, "no recorded runs")
		return nil
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer st.Close()

	statuses, err := st.Latest()
	if err != nil {
		return err
	}
	if len(statuses) == 0 {
		fmt.Fprintln(w, "no recorded runs")
		return nil
	}

	for _, ds := range statuses {
		outcome := "ok"
		if ds.Failed > 0 {
			outcome = "fail"
		}
		detail := fmt.Sprintf("%d passed, %d failed, %d skipped (%s, %s)",
			ds.Passed, ds.Failed, ds.Skipped, ds.Mode, ds.RunAt)
		ui.StatusRow(w, ds.Path, outcome, detail)
	}
	return nil
}
