package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dexbench/pkg/dexbench"
)

var flagRunsLimit int

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted benchmark runs, newest first",
		RunE:  runRuns,
	}
	cmd.Flags().IntVar(&flagRunsLimit, "limit", 20, "max runs to list; 0 lists all")
	return cmd
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	runs, err := client.Runs(cmd.Context(), dexbench.RunsRequest{Limit: flagRunsLimit})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tCREATED\tTASK\tEPISODES\tSEED\tSUCCESS\tAVG COMPLETION")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.2f\t%.3fs\n",
			run.RunID, run.CreatedAtUTC, run.Task, run.Episodes, run.Seed, run.SuccessRate, run.AvgCompletionTime)
	}
	return w.Flush()
}
