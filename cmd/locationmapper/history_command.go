package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"locationmapper/internal/history"
)

type historyRunJSON struct {
	ID        string                `json:"id"`
	Command   string                `json:"command"`
	Status    string                `json:"status"`
	StartedAt time.Time             `json:"started_at"`
	TotalMS   int64                 `json:"total_ms"`
	Stages    []history.StageRecord `json:"stages"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent pipeline runs with per-stage timings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled (history.enabled = false)")
				return nil
			}
			if !cmd.Flags().Changed("limit") {
				limit = cfg.History.Limit
			}

			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(context.Background(), limit)
			if err != nil {
				return err
			}

			if asJSON {
				out := make([]historyRunJSON, 0, len(runs))
				for _, run := range runs {
					out = append(out, historyRunJSON{
						ID:        run.ID,
						Command:   run.Command,
						Status:    string(run.Status),
						StartedAt: run.StartedAt,
						TotalMS:   run.Total.Milliseconds(),
						Stages:    run.Stages,
					})
				}
				return writeJSON(cmd, out)
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderHistoryTable(runs, shouldColorize(out)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
