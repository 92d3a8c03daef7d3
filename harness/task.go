package harness

import (
	"errors"
	"fmt"

	"github.com/weiihann/tracebench/trace"
)

// DefaultRuns is the repeat count used when a task does not set one.
const DefaultRuns = 3

var (
	// ErrNoTasks is returned when there is nothing to schedule.
	ErrNoTasks = errors.New("no tasks to run")
	// ErrUnknownTask is returned when a task name is not in the registry.
	ErrUnknownTask = errors.New("unknown task")
	// ErrInvalidRuns is returned for a repeat count below one.
	ErrInvalidRuns = errors.New("runs must be at least 1")
)

// Task describes one benchmarked command configuration. A Task is plain
// configuration; the runner never mutates it.
type Task struct {
	Name    string
	PreCmd  string
	Cmd     string
	PostCmd string
	Runs    int

	// Disabled tasks stay in the registry but are not scheduled.
	Disabled bool

	// Throughput selects how an event rate is reported. Nil means the
	// task only reports its average run time.
	Throughput Throughput
}

// Validate checks that the task can be scheduled.
func (t Task) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("task has no name")
	}

	if t.Cmd == "" {
		return fmt.Errorf("task %q: empty command", t.Name)
	}

	if t.Runs < 1 {
		return fmt.Errorf("task %q: %w (got %d)", t.Name, ErrInvalidRuns, t.Runs)
	}

	return nil
}

// Throughput derives the number of events a task processes per run.
type Throughput interface {
	Events() (int64, error)
}

// FixedEvents reports a constant number of events per run.
type FixedEvents int64

// Events implements Throughput.
func (n FixedEvents) Events() (int64, error) {
	return int64(n), nil
}

// TraceFile derives the event count from the size of a trace file.
type TraceFile string

// Events implements Throughput.
func (p TraceFile) Events() (int64, error) {
	info, err := p.Stat()
	if err != nil {
		return 0, err
	}

	return info.Events, nil
}

// Stat returns the size and event count of the trace file.
func (p TraceFile) Stat() (trace.Info, error) {
	return trace.Stat(string(p))
}
