// Package config loads benchmark task definitions from YAML task files.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/weiihann/tracebench/harness"
)

// ErrInvalidTaskFile is returned when a task file fails schema validation.
var ErrInvalidTaskFile = errors.New("invalid task file")

// File is the on-disk layout of a task file.
type File struct {
	Shell string     `yaml:"shell,omitempty"`
	Runs  int        `yaml:"runs,omitempty"`
	Tasks []TaskSpec `yaml:"tasks"`
}

// TaskSpec describes one task in a task file. At most one of TraceFile
// and Events may be set.
type TaskSpec struct {
	Name      string `yaml:"name"`
	Pre       string `yaml:"pre,omitempty"`
	Cmd       string `yaml:"cmd"`
	Post      string `yaml:"post,omitempty"`
	Runs      int    `yaml:"runs,omitempty"`
	Disabled  bool   `yaml:"disabled,omitempty"`
	TraceFile string `yaml:"trace_file,omitempty"`
	Events    *int64 `yaml:"events,omitempty"`
}

// Config is a loaded and defaulted task file.
type Config struct {
	Shell string
	Tasks []harness.Task
}

// Load reads, validates and converts the task file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse validates and converts task file content.
func Parse(data []byte) (*Config, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse task file: %w", err)
	}

	return f.Config()
}

// Config applies defaults and converts the file into runnable tasks.
func (f File) Config() (*Config, error) {
	runs := f.Runs
	if runs == 0 {
		runs = harness.DefaultRuns
	}

	shell := f.Shell
	if shell == "" {
		shell = harness.DefaultShell
	}

	seen := make(map[string]bool, len(f.Tasks))
	tasks := make([]harness.Task, 0, len(f.Tasks))

	for _, spec := range f.Tasks {
		if seen[spec.Name] {
			return nil, fmt.Errorf("%w: duplicate task name %q", ErrInvalidTaskFile, spec.Name)
		}

		seen[spec.Name] = true

		task, err := spec.task(runs)
		if err != nil {
			return nil, err
		}

		tasks = append(tasks, task)
	}

	return &Config{Shell: shell, Tasks: tasks}, nil
}

func (s TaskSpec) task(defaultRuns int) (harness.Task, error) {
	task := harness.Task{
		Name:     s.Name,
		PreCmd:   s.Pre,
		Cmd:      s.Cmd,
		PostCmd:  s.Post,
		Runs:     s.Runs,
		Disabled: s.Disabled,
	}

	if task.Runs == 0 {
		task.Runs = defaultRuns
	}

	switch {
	case s.TraceFile != "" && s.Events != nil:
		return task, fmt.Errorf("%w: task %q sets both trace_file and events",
			ErrInvalidTaskFile, s.Name)
	case s.TraceFile != "":
		task.Throughput = harness.TraceFile(s.TraceFile)
	case s.Events != nil:
		task.Throughput = harness.FixedEvents(*s.Events)
	}

	if err := task.Validate(); err != nil {
		return task, fmt.Errorf("%w: %w", ErrInvalidTaskFile, err)
	}

	return task, nil
}
