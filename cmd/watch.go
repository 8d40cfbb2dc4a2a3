package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mdspec/mdspec/internal/calc"
	"github.com/mdspec/mdspec/internal/ui"
	"github.com/mdspec/mdspec/runner"
)

var watchCmd = &cobra.Command{
	Use:   "watch <pattern>",
	Short: "Re-run spec documents when they change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunWatch(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// RunWatch runs every matching document once, then re-runs a document each
// time it is written. Rewrite mode is deliberately unavailable here: a
// rewrite would retrigger the watcher on its own write.
func RunWatch(ctx context.Context, w io.Writer, pattern string) error {
	paths, err := runner.Glob(pattern)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no documents match %s", pattern)
	}

	r := runner.New(runner.Options{})
	for _, path := range paths {
		runOne(ctx, w, r, path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		watched[path] = true
		dirs[filepath.Dir(path)] = true
	}
	// Watch directories, not files: editors that save via rename replace
	// the inode and a file watch goes dead after the first write.
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	fmt.Fprintf(w, "watching %d documents\n", len(paths))

	// Editors fire bursts of events per save; debounce per path.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			path := filepath.Clean(event.Name)
			if watched[path] && !strings.HasSuffix(path, ".lock") {
				pending[path] = time.Now()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w, "watch error: %v\n", err)
		case now := <-ticker.C:
			for path, at := range pending {
				if now.Sub(at) < 150*time.Millisecond {
					continue
				}
				delete(pending, path)
				runOne(ctx, w, r, path)
			}
		}
	}
}

func runOne(ctx context.Context, w io.Writer, r *runner.Runner, path string) {
	res, err := r.RunFile(ctx, path, calc.Handler)
	if err != nil {
		ui.FailLine(w, path, err.Error())
		return
	}
	if res.Failed() {
		var failures []string
		for _, ex := range res.Examples {
			if ex.Status == runner.Failed {
				failures = append(failures, fmt.Sprintf("%s: %s", ex.Title, ex.Err))
			}
		}
		ui.FailLine(w, path, strings.Join(failures, "\n"))
		return
	}
	ui.OkLine(w, path)
}
