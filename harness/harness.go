package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultShell interprets task command strings.
const DefaultShell = "/bin/sh"

const killWaitDelay = 500 * time.Millisecond

// Runner executes tasks one after another. Each run executes the pre,
// main and post commands in sequence and times only the main command.
//
// Exit codes are never treated as failures: a command that exits non-zero
// or crashes still contributes whatever wall-clock time elapsed.
type Runner struct {
	Shell string
	// Timeout bounds each individual command. Zero means no limit.
	Timeout time.Duration

	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Now is the clock used to time the main command.
	Now func() time.Time

	// OnTaskDone, if set, is called after every task completes.
	OnTaskDone func(TaskResult)
}

// NewRunner creates a Runner that interprets commands with shell. Child
// output is inherited from the current process.
func NewRunner(shell string, logger *slog.Logger) *Runner {
	if shell == "" {
		shell = DefaultShell
	}

	return &Runner{
		Shell:  shell,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
		Now:    time.Now,
	}
}

// Run executes every enabled task in order and returns one result per
// task. On cancellation it returns the results gathered so far, including
// the partially run task, together with the context error.
func (r *Runner) Run(ctx context.Context, tasks []Task) ([]TaskResult, error) {
	tasks = Active(tasks)
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}

	for _, task := range tasks {
		if err := task.Validate(); err != nil {
			return nil, err
		}
	}

	results := make([]TaskResult, 0, len(tasks))

	for _, task := range tasks {
		res, err := r.RunTask(ctx, task)
		results = append(results, res)

		if err != nil {
			return results, err
		}
	}

	return results, nil
}

// RunTask executes task.Runs run cycles and returns the collected samples.
func (r *Runner) RunTask(ctx context.Context, task Task) (TaskResult, error) {
	res := TaskResult{Task: task}

	if err := task.Validate(); err != nil {
		return res, err
	}

	logger := r.logger().With(slog.String("task", task.Name))
	logger.InfoContext(ctx, "starting task", slog.Int("runs", task.Runs))

	res.Samples = make([]Sample, 0, task.Runs)

	for remain := task.Runs; remain > 0; remain-- {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		r.exec(ctx, logger, "pre", task.PreCmd)

		start := r.now()
		code := r.exec(ctx, logger, "main", task.Cmd)
		end := r.now()

		// A cancelled main command was killed, its duration is meaningless.
		// The command runs in its own process group, so it is only killed
		// after ctx is done and this check cannot miss an interrupt.
		if err := ctx.Err(); err != nil {
			return res, err
		}

		r.exec(ctx, logger, "post", task.PostCmd)

		elapsed := end.Sub(start)
		res.Samples = append(res.Samples, Sample{Elapsed: elapsed, ExitCode: code})

		logger.DebugContext(ctx, "run finished",
			slog.Int("run", len(res.Samples)),
			slog.Duration("elapsed", elapsed),
			slog.Int("exit_code", code),
		)
	}

	logger.InfoContext(ctx, "task finished",
		slog.Float64("average_s", res.Mean()),
		slog.Int("failures", res.Failures()),
	)

	if r.OnTaskDone != nil {
		r.OnTaskDone(res)
	}

	return res, nil
}

// exec runs command to completion and returns its exit code. Empty
// commands are no-ops. Failures are logged and otherwise ignored.
func (r *Runner) exec(
	ctx context.Context,
	logger *slog.Logger,
	stage, command string,
) int {
	if strings.TrimSpace(command) == "" {
		return 0
	}

	code, err := r.shell(ctx, command)
	if err != nil {
		logger.WarnContext(ctx, "command did not run",
			slog.String("stage", stage),
			slog.String("command", command),
			slog.String("error", err.Error()),
		)

		return code
	}

	if code != 0 {
		logger.DebugContext(ctx, "command exited non-zero",
			slog.String("stage", stage),
			slog.Int("exit_code", code),
		)
	}

	return code
}

func (r *Runner) shell(ctx context.Context, command string) (int, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.Shell, "-c", command)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	isolate(cmd)

	// Background children of a killed shell may keep the output pipes open.
	if r.Timeout > 0 {
		cmd.WaitDelay = killWaitDelay
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return -1, fmt.Errorf("run %s: %w", r.Shell, err)
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}

	return r.Now()
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return r.Logger
}
