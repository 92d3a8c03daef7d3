package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/weiihann/tracebench/trace"
)

func newGenTraceCmd(logger func() *slog.Logger) *cobra.Command {
	var (
		events int
		ids    int
		seed   int64
		out    string
	)

	cmd := &cobra.Command{
		Use:   "gen-trace",
		Short: "Write a synthetic fixed-width trace file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return fmt.Errorf("--out is required")
			}

			if events < 0 {
				return fmt.Errorf("--events must not be negative (got %d)", events)
			}

			if ids < 1 || ids > trace.MaxIDs {
				return fmt.Errorf("--ids must be between 1 and %d (got %d)", trace.MaxIDs, ids)
			}

			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create trace file: %w", err)
			}

			gen := trace.NewGenerator(trace.Config{
				NumEvents: events,
				NumIDs:    ids,
				Seed:      seed,
			})

			written, err := gen.Generate(f)
			if err != nil {
				f.Close()
				os.Remove(out)

				return fmt.Errorf("generate: %w", err)
			}

			if err := f.Close(); err != nil {
				return fmt.Errorf("close trace file: %w", err)
			}

			logger().InfoContext(cmd.Context(), "trace generated",
				slog.String("path", out),
				slog.Int("events", events),
				slog.Int64("bytes", written),
				slog.Int64("seed", seed),
			)

			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&events, "events", 100000,
		"Number of events to write")
	flags.IntVar(&ids, "ids", 16,
		"Number of distinct event ids")
	flags.Int64Var(&seed, "seed", 0,
		"Random seed (0 = use current time)")
	flags.StringVarP(&out, "out", "o", "",
		"Output trace file")

	return cmd
}
