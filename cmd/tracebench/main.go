// Package main provides the CLI entry point for tracebench, a harness that
// times repeated runs of trace-reading programs.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		logFailure(ctx, newLogger(os.Stderr, false), err)
		stop()
		os.Exit(1)
	}
}

func logFailure(ctx context.Context, logger *slog.Logger, err error) {
	logger.ErrorContext(ctx, "tracebench failed",
		slog.String("error", err.Error()),
	)
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "tracebench",
		Short: "Benchmark C and Java trace readers",
		Long: `Tracebench runs each benchmark task several times through the shell,
measures the wall-clock time of its main command and reports the average
run time together with the event rate derived from the task's trace file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	logger := func() *slog.Logger {
		return newLogger(root.ErrOrStderr(), verbose)
	}

	root.AddCommand(
		newRunCmd(logger),
		newListCmd(),
		newGenTraceCmd(logger),
	)

	return root
}

// newLogger logs human-readable text on a terminal and JSON otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, opts))
	}

	return slog.New(slog.NewJSONHandler(w, opts))
}
