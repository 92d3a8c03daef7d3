package harness

import (
	"fmt"
	"strings"
)

// reader is one of the trace-reading programs under benchmark.
type reader struct {
	label  string
	dir    string
	invoke string
}

var (
	cReader    = reader{label: "C version", dir: "../c", invoke: "./main"}
	javaReader = reader{label: "Java version", dir: "../java", invoke: "java read_trace"}
)

// outputMode selects how a reader is asked to print decoded events.
type outputMode int

const (
	noPrint outputMode = iota
	printStdout
	printDevNull
)

func (m outputMode) describe() string {
	switch m {
	case printStdout:
		return "with print"
	case printDevNull:
		return "with print, but sent to /dev/null"
	default:
		return "without print"
	}
}

func (rd reader) task(mode outputMode, traceFile string) Task {
	var b strings.Builder

	fmt.Fprintf(&b, "cd %s && %s", rd.dir, rd.invoke)

	if mode != noPrint {
		b.WriteString(" -p")
	}

	b.WriteString(" " + traceFile)

	if mode == printDevNull {
		b.WriteString(" >/dev/null")
	}

	return Task{
		Name:       fmt.Sprintf("%s (%s)", rd.label, mode.describe()),
		Cmd:        b.String(),
		Runs:       DefaultRuns,
		Throughput: TraceFile(traceFile),
	}
}

// DefaultTasks returns the built-in registry: the C and Java trace
// readers, each with and without event printing. Paths are relative to
// the directory the harness is started from.
func DefaultTasks() []Task {
	return []Task{
		cReader.task(noPrint, "../trace_long.dat"),
		cReader.task(printStdout, "../trace_med.dat"),
		cReader.task(printDevNull, "../trace_long.dat"),
		javaReader.task(noPrint, "../trace_long.dat"),
		javaReader.task(printStdout, "../trace_short.dat"),
		javaReader.task(printDevNull, "../trace_med.dat"),
	}
}

// Active returns the tasks that are not disabled, in registry order.
func Active(tasks []Task) []Task {
	active := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Disabled {
			active = append(active, t)
		}
	}

	return active
}

// Select narrows tasks to the given names, keeping registry order. Named
// tasks are scheduled even when disabled. An empty names list returns
// tasks unchanged.
func Select(tasks []Task, names []string) ([]Task, error) {
	if len(names) == 0 {
		return tasks, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	selected := make([]Task, 0, len(names))

	for _, t := range tasks {
		if wanted[t.Name] {
			t.Disabled = false
			selected = append(selected, t)
			delete(wanted, t.Name)
		}
	}

	for _, n := range names {
		if wanted[n] {
			return nil, fmt.Errorf("%w %q", ErrUnknownTask, n)
		}
	}

	return selected, nil
}

// WithRuns returns a copy of tasks with every repeat count set to runs.
func WithRuns(tasks []Task, runs int) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		t.Runs = runs
		out[i] = t
	}

	return out
}
