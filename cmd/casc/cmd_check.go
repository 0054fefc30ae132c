package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/casc/cascade/codebase"
	"github.com/dhamidi/casc/project"
)

var errDiagnostics = errors.New("source files have errors")

func newCheckCmd() *cobra.Command {
	var workers int
	var watch bool

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Parse files and report syntax errors",
		Long: "Parse the given files and directories, or every source of the\n" +
			"project when none are given, and print one line per error.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := checkProject(args)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}
			if workers > 0 {
				p.Workers = workers
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cb := codebase.New(p)
			if err := cb.ScanAll(ctx); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}
			diags := cb.Diagnostics()
			printDiagnostics(os.Stdout, diags)

			if watch {
				return watchProject(ctx, cb)
			}
			if len(diags) > 0 {
				commonlog.GetLogger("cascade.check").Noticef("%d errors in %d files", len(diags), countFiles(diags))
				return errDiagnostics
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "number of files parsed concurrently (default from project)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and recheck files as they change")

	return cmd
}

// checkProject finds the project of the working directory. Paths given
// on the command line replace its source directories.
func checkProject(paths []string) (*project.Project, error) {
	p, err := project.Discover(".")
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return p, nil
	}
	p.Sources = make([]string, len(paths))
	for i, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		p.Sources[i] = abs
	}
	return p, nil
}

func watchProject(ctx context.Context, cb *codebase.Codebase) error {
	watcher, err := codebase.NewFileWatcher(cb)
	if err != nil {
		return err
	}
	watcher.OnChange(func(paths []string) {
		for _, path := range paths {
			if f := cb.GetFile(path); f != nil {
				printDiagnostics(os.Stdout, f.Diagnostics())
			}
		}
	})
	return watcher.Watch(ctx)
}

func printDiagnostics(w io.Writer, diags []codebase.Diagnostic) {
	cwd, _ := os.Getwd()
	for _, d := range diags {
		if rel, err := filepath.Rel(cwd, d.Path); err == nil && cwd != "" {
			d.Path = rel
		}
		fmt.Fprintln(w, d)
	}
}

func countFiles(diags []codebase.Diagnostic) int {
	files := make(map[string]bool)
	for _, d := range diags {
		files[d.Path] = true
	}
	return len(files)
}
