package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/weiihann/tracebench/config"
	"github.com/weiihann/tracebench/harness"
	"github.com/weiihann/tracebench/report"
)

type runConfig struct {
	tasksFile string
	only      []string
	runs      int
	shell     string
	timeout   time.Duration
	format    string
	plotPath  string
}

func newRunCmd(logger func() *slog.Logger) *cobra.Command {
	var cfg runConfig

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark tasks and print a report",
		Long: `Run every enabled task of the registry in order. Each run executes the
task's pre command, the timed main command and the post command. Exit codes
are ignored: a failing command still contributes its elapsed time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBenchmark(cmd, logger(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.tasksFile, "tasks", "",
		"YAML task file (default: built-in C/Java reader tasks)")
	flags.StringArrayVar(&cfg.only, "only", nil,
		"Run only the named task (repeatable)")
	flags.IntVar(&cfg.runs, "runs", 0,
		"Override the repeat count of every task")
	flags.StringVar(&cfg.shell, "shell", "",
		"Shell used to interpret commands (default: /bin/sh)")
	flags.DurationVar(&cfg.timeout, "timeout", 0,
		"Kill any single command after this long (0 = never)")
	flags.StringVar(&cfg.format, "format", "text",
		"Report format: text, markdown, json")
	flags.StringVar(&cfg.plotPath, "plot", "",
		"Also save a bar chart of average run times (png, svg, pdf)")

	return cmd
}

func loadTasks(cfg runConfig) ([]harness.Task, string, error) {
	tasks := harness.DefaultTasks()
	shell := cfg.shell

	if cfg.tasksFile != "" {
		fileCfg, err := config.Load(cfg.tasksFile)
		if err != nil {
			return nil, "", err
		}

		tasks = fileCfg.Tasks

		if shell == "" {
			shell = fileCfg.Shell
		}
	}

	tasks, err := harness.Select(tasks, cfg.only)
	if err != nil {
		return nil, "", err
	}

	if cfg.runs != 0 {
		if cfg.runs < 0 {
			return nil, "", fmt.Errorf("--runs: %w (got %d)", harness.ErrInvalidRuns, cfg.runs)
		}

		tasks = harness.WithRuns(tasks, cfg.runs)
	}

	return harness.Active(tasks), shell, nil
}

func reportFunc(format string) (func(io.Writer, []harness.TaskResult) error, error) {
	switch format {
	case "text", "":
		return report.Generate, nil
	case "markdown", "md":
		return report.GenerateMarkdown, nil
	case "json":
		return report.GenerateJSON, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

func runBenchmark(cmd *cobra.Command, logger *slog.Logger, cfg runConfig) error {
	ctx := cmd.Context()
	stdout := cmd.OutOrStdout()

	generate, err := reportFunc(cfg.format)
	if err != nil {
		return err
	}

	tasks, shell, err := loadTasks(cfg)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		return harness.ErrNoTasks
	}

	logger.InfoContext(ctx, "starting benchmark",
		slog.Int("tasks", len(tasks)),
		slog.String("shell", shell),
		slog.Duration("timeout", cfg.timeout),
	)

	runner := harness.NewRunner(shell, logger)
	runner.Timeout = cfg.timeout
	runner.Stdout = stdout
	runner.Stderr = cmd.ErrOrStderr()

	// The raw timings are debug output and only make sense next to the
	// plain-text report.
	if cfg.format == "text" || cfg.format == "" {
		runner.OnTaskDone = func(res harness.TaskResult) {
			if err := report.WriteRaw(stdout, res); err != nil {
				logger.WarnContext(ctx, "write raw results",
					slog.String("error", err.Error()),
				)
			}
		}
	}

	results, runErr := runner.Run(ctx, tasks)
	if runErr != nil && len(results) == 0 {
		return fmt.Errorf("run benchmark: %w", runErr)
	}

	if err := generate(stdout, results); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	if cfg.plotPath != "" {
		if err := report.Plot(cfg.plotPath, results); err != nil {
			return err
		}

		logger.InfoContext(ctx, "plot saved", slog.String("path", cfg.plotPath))
	}

	if runErr != nil {
		return fmt.Errorf("benchmark interrupted: %w", runErr)
	}

	logger.InfoContext(ctx, "benchmark complete")

	return nil
}
