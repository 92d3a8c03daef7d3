package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/weiihann/tracebench/harness"
)

func samples(secs ...float64) []harness.Sample {
	out := make([]harness.Sample, len(secs))
	for i, s := range secs {
		out[i] = harness.Sample{Elapsed: time.Duration(s * float64(time.Second))}
	}

	return out
}

func writeTrace(t *testing.T, size int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "trace.dat")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := os.Truncate(path, int64(size)); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestWriteRaw(t *testing.T) {
	var buf bytes.Buffer

	res := harness.TaskResult{Samples: samples(1, 0.25, 2.5)}
	if err := WriteRaw(&buf, res); err != nil {
		t.Fatalf("WriteRaw failed: %v", err)
	}

	if got, want := buf.String(), "[1.0, 0.25, 2.5]\n"; got != want {
		t.Errorf("raw = %q, want %q", got, want)
	}

	buf.Reset()
	if err := WriteRaw(&buf, harness.TaskResult{}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("raw empty = %q, want []", buf.String())
	}
}

func TestGeneratePlain(t *testing.T) {
	results := []harness.TaskResult{
		{
			Task:    harness.Task{Name: "plain", Cmd: "true", Runs: 3},
			Samples: samples(1, 2, 3),
		},
	}

	var buf bytes.Buffer
	if err := Generate(&buf, results); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	want := separator + "\n" +
		"RESULTS for plain\n" +
		"Runs: 3\n" +
		"Average run time: 2.000 s\n" +
		"\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateTraceFile(t *testing.T) {
	path := writeTrace(t, 220)

	results := []harness.TaskResult{
		{
			Task: harness.Task{
				Name:       "reader",
				Cmd:        "true",
				Runs:       2,
				Throughput: harness.TraceFile(path),
			},
			Samples: samples(2, 2),
		},
	}

	var buf bytes.Buffer
	if err := Generate(&buf, results); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	output := buf.String()

	for _, want := range []string{
		"Tracefile: " + path + " (220 bytes)\n",
		"Events in tracefile: 10\n",
		"Rate: 5.000 events/s\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestGenerateFixedEvents(t *testing.T) {
	results := []harness.TaskResult{
		{
			Task:    harness.Task{Name: "fixed", Cmd: "true", Runs: 1, Throughput: harness.FixedEvents(100)},
			Samples: samples(4),
		},
	}

	var buf bytes.Buffer
	if err := Generate(&buf, results); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(buf.String(), "Events: 100\nRate: 25.000 events/s\n") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestGenerateZeroMean(t *testing.T) {
	results := []harness.TaskResult{
		{
			Task: harness.Task{Name: "empty", Cmd: "true", Runs: 1, Throughput: harness.FixedEvents(10)},
		},
	}

	var buf bytes.Buffer
	if err := Generate(&buf, results); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Runs: 0\n") {
		t.Error("expected zero runs")
	}
	if !strings.Contains(output, "Average run time: 0.000 s\n") {
		t.Error("expected zero average")
	}
	if !strings.Contains(output, "Rate: 0.000 events/s\n") {
		t.Error("expected zero rate")
	}
}

func TestGenerateMissingTraceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.dat")
	results := []harness.TaskResult{
		{
			Task:    harness.Task{Name: "missing", Cmd: "true", Runs: 1, Throughput: harness.TraceFile(path)},
			Samples: samples(1),
		},
		{
			Task:    harness.Task{Name: "after", Cmd: "true", Runs: 1},
			Samples: samples(1),
		},
	}

	var buf bytes.Buffer
	if err := Generate(&buf, results); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Tracefile: "+path+" (unavailable:") {
		t.Errorf("expected unavailable trace file in output:\n%s", output)
	}
	if !strings.Contains(output, "RESULTS for after") {
		t.Error("expected report to continue after a missing trace file")
	}
}

func TestGenerateOrderAndNoMinMax(t *testing.T) {
	results := []harness.TaskResult{
		{Task: harness.Task{Name: "first"}, Samples: samples(1)},
		{Task: harness.Task{Name: "second"}, Samples: samples(1, 9)},
	}

	var buf bytes.Buffer
	if err := Generate(&buf, results); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	output := buf.String()
	if strings.Index(output, "first") > strings.Index(output, "second") {
		t.Error("expected tasks in registry order")
	}
	if strings.Contains(output, "Min") || strings.Contains(output, "Max") {
		t.Error("text report should not include min/max")
	}
}

func TestGenerateEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(&buf, nil); err == nil {
		t.Error("expected error for empty results")
	}
	if err := GenerateMarkdown(&buf, nil); err == nil {
		t.Error("expected error for empty results")
	}
}

func TestGenerateMarkdown(t *testing.T) {
	path := writeTrace(t, 22*1500000)

	results := []harness.TaskResult{
		{
			Task:    harness.Task{Name: "fast", Throughput: harness.TraceFile(path)},
			Samples: samples(1, 1),
		},
		{
			Task:    harness.Task{Name: "slow"},
			Samples: samples(2, 2),
		},
	}

	var buf bytes.Buffer
	if err := GenerateMarkdown(&buf, results); err != nil {
		t.Fatalf("GenerateMarkdown failed: %v", err)
	}

	output := buf.String()

	for _, want := range []string{
		"| fast | 2 | 1.000s | 1,500,000 | 1,500,000.0 | 1.00x |",
		"| slow | 2 | 2.000s | - | - | 2.00x |",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestGenerateJSON(t *testing.T) {
	results := []harness.TaskResult{
		{
			Task: harness.Task{Name: "fixed", Cmd: "true", Runs: 2, Throughput: harness.FixedEvents(10)},
			Samples: []harness.Sample{
				{Elapsed: time.Second},
				{Elapsed: 3 * time.Second, ExitCode: 1},
			},
		},
	}

	var buf bytes.Buffer
	if err := GenerateJSON(&buf, results); err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}

	var parsed []jsonResult
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(parsed) != 1 {
		t.Fatalf("expected 1 result, got %d", len(parsed))
	}

	got := parsed[0]
	if diff := cmp.Diff([]float64{1, 3}, got.Samples); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1}, got.ExitCodes); diff != "" {
		t.Errorf("exit codes mismatch (-want +got):\n%s", diff)
	}
	if got.Average != 2 || got.Min != 1 || got.Max != 3 {
		t.Errorf("stats = %v/%v/%v, want 2/1/3", got.Average, got.Min, got.Max)
	}
	if got.Events == nil || *got.Events != 10 {
		t.Errorf("events = %v, want 10", got.Events)
	}
	if got.Rate == nil || *got.Rate != 5 {
		t.Errorf("rate = %v, want 5", got.Rate)
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "0.0ms"},
		{0.5, "500.0ms"},
		{1, "1.000s"},
		{12.3456, "12.346s"},
	}

	for _, tt := range tests {
		got := formatSeconds(tt.input)
		if got != tt.want {
			t.Errorf("formatSeconds(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPlot(t *testing.T) {
	results := []harness.TaskResult{
		{Task: harness.Task{Name: "a"}, Samples: samples(1, 2)},
		{Task: harness.Task{Name: "b"}, Samples: samples(0.5)},
	}

	path := filepath.Join(t.TempDir(), "runs.png")
	if err := Plot(path, results); err != nil {
		t.Fatalf("Plot failed: %v", err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() == 0 {
		t.Error("plot file is empty")
	}

	if err := Plot(path, nil); err == nil {
		t.Error("expected error for empty results")
	}
}
