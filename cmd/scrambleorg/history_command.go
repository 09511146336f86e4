package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"scrambleorg/internal/httpapi"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent processing runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := resolveFormat(cmd, format)
			if err != nil {
				return err
			}
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			views := make([]httpapi.RunView, 0, len(runs))
			for _, run := range runs {
				views = append(views, httpapi.FromRun(run))
			}
			switch outFormat {
			case formatJSON:
				return writeJSON(cmd, httpapi.RunListResponse{Runs: views})
			case formatYAML:
				return writeYAML(cmd, httpapi.RunListResponse{Runs: views})
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				duration := ""
				if run.Finished() {
					duration = run.Duration().Round(time.Millisecond).String()
				}
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					string(run.Source),
					string(run.Status),
					run.CompetitionName,
					strconv.Itoa(run.Moved),
					strconv.Itoa(run.Missing),
					strconv.Itoa(run.Warnings),
					duration,
				})
			}
			fmt.Fprintln(out, renderRows(outFormat, "",
				[]string{"ID", "Started", "Source", "Status", "Competition", "Moved", "Missing", "Warnings", "Duration"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table, plain, json, or yaml")
	return cmd
}
