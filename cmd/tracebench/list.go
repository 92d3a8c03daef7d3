package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/weiihann/tracebench/config"
	"github.com/weiihann/tracebench/harness"
)

func newListCmd() *cobra.Command {
	var tasksFile string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the registered benchmark tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasks := harness.DefaultTasks()

			if tasksFile != "" {
				cfg, err := config.Load(tasksFile)
				if err != nil {
					return err
				}

				tasks = cfg.Tasks
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tRUNS\tENABLED\tTHROUGHPUT\tCOMMAND")

			for _, t := range tasks {
				fmt.Fprintf(w, "%s\t%d\t%t\t%s\t%s\n",
					t.Name, t.Runs, !t.Disabled, describeThroughput(t.Throughput), t.Cmd)
			}

			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&tasksFile, "tasks", "",
		"YAML task file (default: built-in C/Java reader tasks)")

	return cmd
}

func describeThroughput(tp harness.Throughput) string {
	switch tp := tp.(type) {
	case nil:
		return "-"
	case harness.TraceFile:
		return "trace " + string(tp)
	case harness.FixedEvents:
		return fmt.Sprintf("%d events", int64(tp))
	default:
		return fmt.Sprintf("%T", tp)
	}
}
