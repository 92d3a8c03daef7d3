// Package harness runs benchmark tasks through a shell and records the
// wall-clock duration of every run.
package harness

import (
	"time"
)

// Sample is one timed run of a task's main command.
type Sample struct {
	Elapsed time.Duration
	// ExitCode of the main command. It is recorded for inspection only and
	// never affects whether the sample counts.
	ExitCode int
}

// TaskResult accumulates the samples collected for a single task.
// Samples are appended in run order and never modified afterwards.
type TaskResult struct {
	Task    Task
	Samples []Sample
}

// Runs returns the number of completed runs.
func (r TaskResult) Runs() int {
	return len(r.Samples)
}

// Seconds returns the recorded durations as floating-point seconds.
func (r TaskResult) Seconds() []float64 {
	secs := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		secs[i] = s.Elapsed.Seconds()
	}

	return secs
}

// Mean returns the average run time in seconds, or 0 without samples.
func (r TaskResult) Mean() float64 {
	return Average(r.Seconds())
}

// Failures counts runs whose main command exited non-zero.
func (r TaskResult) Failures() int {
	n := 0
	for _, s := range r.Samples {
		if s.ExitCode != 0 {
			n++
		}
	}

	return n
}
