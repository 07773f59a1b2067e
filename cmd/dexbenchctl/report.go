package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"dexbench/internal/stats"
	"dexbench/pkg/dexbench"
)

var (
	flagReportEpisodes bool
	flagReportJSON     bool
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <run-id>",
		Short: "Show the summary of a past run",
		Args:  cobra.ExactArgs(1),
		RunE:  runReport,
	}
	cmd.Flags().BoolVar(&flagReportEpisodes, "episodes", false, "include per-episode reports")
	cmd.Flags().BoolVar(&flagReportJSON, "json", false, "emit raw JSON")
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	runID := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	summary, ok, err := client.Summary(runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no summary found for run %s", runID)
	}

	out := cmd.OutOrStdout()
	if flagReportJSON {
		if err := writeIndented(out, summary); err != nil {
			return err
		}
	} else {
		printSummary(out, summary)
	}

	if !flagReportEpisodes {
		return nil
	}
	episodes, err := client.Episodes(cmd.Context(), dexbench.EpisodesRequest{RunID: runID})
	if err != nil {
		return err
	}
	for _, episode := range episodes {
		if flagReportJSON {
			if err := writeIndented(out, episode); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(out, "episode %d (%s): success=%v progress=%.2f completion=%.3fs\n",
			episode.Index, episode.ID, episode.Report.Success >= 1,
			episode.Report.SubtaskProgress, episode.Report.CompletionTime)
	}
	return nil
}

func printSummary(out io.Writer, summary stats.RunSummary) {
	fmt.Fprintf(out, "task: %s\n", summary.Task)
	fmt.Fprintf(out, "episodes: %d (%d succeeded)\n", summary.Episodes, summary.SuccessRuns)
	fmt.Fprintf(out, "success rate: %.2f\n", summary.SuccessRate)
	fmt.Fprintf(out, "completion time: %.3fs avg, %.3fs std\n", summary.AvgCompletionTime, summary.StdCompletionTime)
	fmt.Fprintf(out, "subtask progress: %.2f avg\n", summary.AvgSubtaskProgress)

	printOptional(out, "vel sync diff", summary.AvgVelSyncDiff)
	printOptional(out, "vertical sync diff", summary.AvgVerticalSyncDiff)
	printOptional(out, "slips per episode", summary.AvgSlipCount)
	printOptional(out, "env collisions per episode", summary.AvgEnvCollisions)
	printOptional(out, "self collisions per episode", summary.AvgSelfCollisions)
	printOptional(out, "cartesian path length", summary.AvgCartesianPathLength)
	printOptional(out, "joint path length", summary.AvgJointPathLength)
	printOptional(out, "orientation path length", summary.AvgOrientationPathLength)
	printOptional(out, "cartesian jerk rms", summary.AvgCartesianJerkRMS)
	printOptional(out, "joint jerk rms", summary.AvgJointJerkRMS)
}

func printOptional(out io.Writer, label string, value *float64) {
	if value == nil {
		return
	}
	fmt.Fprintf(out, "%s: %.4f avg\n", label, *value)
}

func writeIndented(out io.Writer, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(payload))
	return err
}
