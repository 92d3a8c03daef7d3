// Package report formats benchmark results.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/weiihann/tracebench/harness"
)

const separator = "------------------------------------"

var errNoResults = errors.New("no results to report")

// WriteRaw writes the raw per-run durations of res as a bracketed list of
// seconds.
func WriteRaw(w io.Writer, res harness.TaskResult) error {
	secs := res.Seconds()
	parts := make([]string, len(secs))

	for i, s := range secs {
		parts[i] = formatFloat(s)
	}

	_, err := fmt.Fprintf(w, "[%s]\n", strings.Join(parts, ", "))

	return err
}

// Generate writes the plain-text summary: a separator line followed by one
// block per task with its run count, average run time and, for tasks with
// a throughput strategy, the event count and rate.
func Generate(w io.Writer, results []harness.TaskResult) error {
	if len(results) == 0 {
		return errNoResults
	}

	fmt.Fprintln(w, separator)

	for _, res := range results {
		mean := res.Mean()

		fmt.Fprintf(w, "RESULTS for %s\n", res.Task.Name)
		fmt.Fprintf(w, "Runs: %d\n", res.Runs())
		fmt.Fprintf(w, "Average run time: %.3f s\n", mean)

		writeThroughput(w, res.Task.Throughput, mean)

		fmt.Fprintln(w)
	}

	return nil
}

func writeThroughput(w io.Writer, tp harness.Throughput, mean float64) {
	switch tp := tp.(type) {
	case nil:
		return

	case harness.TraceFile:
		info, err := tp.Stat()
		if err != nil {
			fmt.Fprintf(w, "Tracefile: %s (unavailable: %v)\n", string(tp), err)

			return
		}

		fmt.Fprintf(w, "Tracefile: %s (%d bytes)\n", info.Path, info.Size)
		fmt.Fprintf(w, "Events in tracefile: %d\n", info.Events)
		fmt.Fprintf(w, "Rate: %.3f events/s\n", harness.Rate(info.Events, mean))

	default:
		events, err := tp.Events()
		if err != nil {
			fmt.Fprintf(w, "Events: unavailable (%v)\n", err)

			return
		}

		fmt.Fprintf(w, "Events: %d\n", events)
		fmt.Fprintf(w, "Rate: %.3f events/s\n", harness.Rate(events, mean))
	}
}

// GenerateMarkdown writes a markdown comparison table for the given
// results.
func GenerateMarkdown(w io.Writer, results []harness.TaskResult) error {
	if len(results) == 0 {
		return errNoResults
	}

	p := message.NewPrinter(language.English)
	fastest := findFastest(results)

	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Task | Runs | Average | Events | Rate (events/s) | Relative |")
	fmt.Fprintln(w, "|------|------|---------|--------|-----------------|----------|")

	for _, res := range results {
		mean := res.Mean()

		relative := 1.0
		if fastest > 0 && mean > 0 {
			relative = mean / fastest
		}

		events, rate := "-", "-"

		if res.Task.Throughput != nil {
			n, err := res.Task.Throughput.Events()
			if err == nil {
				events = p.Sprintf("%d", n)
				rate = p.Sprintf("%.1f", harness.Rate(n, mean))
			}
		}

		fmt.Fprintf(w, "| %s | %d | %s | %s | %s | %.2fx |\n",
			res.Task.Name,
			res.Runs(),
			formatSeconds(mean),
			events,
			rate,
			relative,
		)
	}

	return nil
}

type jsonResult struct {
	Name      string    `json:"name"`
	Cmd       string    `json:"cmd"`
	Runs      int       `json:"runs"`
	Samples   []float64 `json:"samples_s"`
	ExitCodes []int     `json:"exit_codes"`
	Average   float64   `json:"average_s"`
	Min       float64   `json:"min_s"`
	Max       float64   `json:"max_s"`
	TraceFile string    `json:"trace_file,omitempty"`
	Events    *int64    `json:"events,omitempty"`
	Rate      *float64  `json:"rate,omitempty"`
}

// GenerateJSON writes results as JSON to w.
func GenerateJSON(w io.Writer, results []harness.TaskResult) error {
	out := make([]jsonResult, 0, len(results))

	for _, res := range results {
		secs := res.Seconds()
		jr := jsonResult{
			Name:      res.Task.Name,
			Cmd:       res.Task.Cmd,
			Runs:      res.Runs(),
			Samples:   secs,
			ExitCodes: make([]int, len(res.Samples)),
			Average:   harness.Average(secs),
			Min:       harness.Min(secs),
			Max:       harness.Max(secs),
		}

		for i, s := range res.Samples {
			jr.ExitCodes[i] = s.ExitCode
		}

		if tf, ok := res.Task.Throughput.(harness.TraceFile); ok {
			jr.TraceFile = string(tf)
		}

		if res.Task.Throughput != nil {
			if n, err := res.Task.Throughput.Events(); err == nil {
				rate := harness.Rate(n, jr.Average)
				jr.Events = &n
				jr.Rate = &rate
			}
		}

		out = append(out, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

func findFastest(results []harness.TaskResult) float64 {
	fastest := math.Inf(1)
	for _, res := range results {
		if m := res.Mean(); m > 0 && m < fastest {
			fastest = m
		}
	}

	if math.IsInf(fastest, 1) {
		return 0
	}

	return fastest
}

func formatSeconds(s float64) string {
	if s < 1 {
		return fmt.Sprintf("%.1fms", s*1000)
	}

	return fmt.Sprintf("%.3fs", s)
}

// formatFloat renders v with the shortest exact representation, always
// keeping a fractional part.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}
